package extract

import (
	"time"

	"frameprep/media/sampling"
)

type Result struct {
	Path         string
	Backend      string
	OutDir       string
	SourceFPS    float64
	FPSDefaulted bool
	Interval     int
	FramesRead   int
	NullFrames   int
	// Expected is how many reads fell on a sampled index; it exceeds Selected by
	// the sampled indices whose frame was undecodable.
	Expected      int
	Selected      int
	Saved         int
	WriteFailures int
	Duration      time.Duration
}

func (r *Result) finish(start time.Time) {
	r.Expected = sampling.NewPolicy(r.Interval).Expected(r.FramesRead)
	r.Duration = time.Since(start)
}
