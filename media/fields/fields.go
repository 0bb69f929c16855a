package fields

// logrus field names shared across packages.
const (
	Path      = "path"
	Backend   = "backend"
	OutDir    = "out_dir"
	SourceFPS = "source_fps"
	Interval  = "interval"
	Index     = "frame_index"
	Saved     = "saved"
	File      = "file"
)
