package source

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"frameprep/config"
)

type OpenCV struct {
	path    string
	capture *gocv.VideoCapture
}

func openCV(path string) (Source, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, err
	}
	if !capture.IsOpened() {
		_ = capture.Close()
		return nil, errors.New("capture is not opened")
	}
	return &OpenCV{
		path:    path,
		capture: capture,
	}, nil
}

func (o *OpenCV) Name() string {
	return config.BackendOpenCV
}

func (o *OpenCV) Path() string {
	return o.path
}

func (o *OpenCV) FrameRate() float64 {
	if o.capture == nil {
		return 0
	}
	return o.capture.Get(gocv.VideoCaptureFPS)
}

func (o *OpenCV) Read(frame *gocv.Mat) bool {
	if o.capture == nil {
		return false
	}
	return o.capture.Read(frame)
}

func (o *OpenCV) Close() error {
	if o.capture == nil {
		return nil
	}
	err := o.capture.Close()
	o.capture = nil
	return err
}
