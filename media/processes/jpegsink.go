package processes

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

var (
	ErrEncode = errors.New("jpeg encode failed")
)

// Selected is a frame chosen for output together with its output sequence number.
type Selected struct {
	Frame gocv.Mat
	Seq   int
}

type JPEGSinkArgs struct {
	Dir     string
	Quality int
}

// JPEGSinkProcess writes frames as <dir>/frame_NNNNN.jpg, overwriting what is there.
type JPEGSinkProcess struct {
	dir     string
	quality int
}

func NewJPEGSinkProcess(args JPEGSinkArgs) *JPEGSinkProcess {
	return &JPEGSinkProcess{
		dir:     args.Dir,
		quality: args.Quality,
	}
}

func FrameName(seq int) string {
	return fmt.Sprintf("frame_%05d.jpg", seq)
}

func (j *JPEGSinkProcess) Dir() string {
	return j.dir
}

func (j *JPEGSinkProcess) Name() string {
	return "jpeg"
}

// Init creates the output directory and its parents. An existing directory is fine.
func (j *JPEGSinkProcess) Init() error {
	if err := os.MkdirAll(j.dir, 0755); err != nil {
		return errors.Wrapf(err, "create output dir %s", j.dir)
	}
	return nil
}

// Process returns the target path even when writing fails so callers can report it.
func (j *JPEGSinkProcess) Process(data Selected) (string, error) {
	path := filepath.Join(j.dir, FrameName(data.Seq))
	if data.Frame.Empty() {
		return path, errors.Wrap(ErrEmptyFrame, path)
	}
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, data.Frame, []int{int(gocv.IMWriteJpegQuality), j.quality})
	if err != nil {
		return path, errors.Wrapf(ErrEncode, "%s: %v", path, err)
	}
	defer buf.Close()
	if err := os.WriteFile(path, buf.GetBytes(), 0644); err != nil {
		return path, errors.Wrapf(err, "write %s", path)
	}
	return path, nil
}
