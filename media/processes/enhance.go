package processes

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

var (
	ErrEmptyFrame   = errors.New("empty frame")
	ErrNotBGRFrame  = errors.New("frame is not 3-channel BGR")
	ErrNotInitiated = errors.New("process is not initialized")
)

// filter2D output keeps the source depth.
const sameDepth gocv.MatType = -1

// sharpenKernel is a unit-gain high-pass: centre 9, neighbours -1.
var sharpenKernel = [3][3]float32{
	{-1, -1, -1},
	{-1, 9, -1},
	{-1, -1, -1},
}

type EnhanceArgs struct {
	Width     int
	Height    int
	ClipLimit float64
	TileGrid  int
}

// EnhanceProcess resizes, sharpens and equalizes the luminance of a BGR frame.
// It keeps no per-frame state, so the same input always gives the same output.
type EnhanceProcess struct {
	args        EnhanceArgs
	kernel      gocv.Mat
	clahe       gocv.CLAHE
	initialized bool
}

func NewEnhanceProcess(args EnhanceArgs) *EnhanceProcess {
	return &EnhanceProcess{
		args: args,
	}
}

func (e *EnhanceProcess) Name() string {
	return "enhance"
}

func (e *EnhanceProcess) Init() error {
	if e.initialized {
		return nil
	}
	if e.args.Width <= 0 || e.args.Height <= 0 {
		return errors.Errorf("invalid output size %dx%d", e.args.Width, e.args.Height)
	}
	e.kernel = gocv.NewMatWithSize(3, 3, gocv.MatTypeCV32F)
	for r, row := range sharpenKernel {
		for c, v := range row {
			e.kernel.SetFloatAt(r, c, v)
		}
	}
	e.clahe = gocv.NewCLAHEWithParams(e.args.ClipLimit, image.Pt(e.args.TileGrid, e.args.TileGrid))
	e.initialized = true
	return nil
}

// Process returns a new Mat owned by the caller; frame is left untouched.
func (e *EnhanceProcess) Process(frame gocv.Mat) (gocv.Mat, error) {
	if !e.initialized {
		return gocv.NewMat(), ErrNotInitiated
	}
	if frame.Empty() {
		return gocv.NewMat(), ErrEmptyFrame
	}
	if frame.Channels() != 3 {
		return gocv.NewMat(), errors.Wrapf(ErrNotBGRFrame, "got %d channels", frame.Channels())
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(frame, &resized, image.Pt(e.args.Width, e.args.Height), 0, 0, gocv.InterpolationLinear)

	sharpened := gocv.NewMat()
	defer sharpened.Close()
	gocv.Filter2D(resized, &sharpened, sameDepth, e.kernel, image.Pt(-1, -1), 0, gocv.BorderDefault)

	return e.equalizeLuminance(sharpened), nil
}

// equalizeLuminance applies CLAHE to the L channel of Lab only.
func (e *EnhanceProcess) equalizeLuminance(bgr gocv.Mat) gocv.Mat {
	lab := gocv.NewMat()
	defer lab.Close()
	gocv.CvtColor(bgr, &lab, gocv.ColorBGRToLab)

	channels := gocv.Split(lab)
	defer func() {
		for _, ch := range channels {
			ch.Close()
		}
	}()
	l := gocv.NewMat()
	e.clahe.Apply(channels[0], &l)
	channels[0].Close()
	channels[0] = l

	merged := gocv.NewMat()
	defer merged.Close()
	gocv.Merge(channels, &merged)

	out := gocv.NewMat()
	gocv.CvtColor(merged, &out, gocv.ColorLabToBGR)
	return out
}

func (e *EnhanceProcess) Close() error {
	if !e.initialized {
		return nil
	}
	e.initialized = false
	if err := e.kernel.Close(); err != nil {
		return err
	}
	return e.clahe.Close()
}
