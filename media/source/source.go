package source

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"frameprep/config"
	"frameprep/log"
	"frameprep/media/fields"
)

var (
	ErrNotFound       = errors.New("video not found")
	ErrOpen           = errors.New("failed to open video")
	ErrUnknownBackend = errors.New("unknown source backend")
)

// Source yields decoded frames of a single video one at a time.
type Source interface {
	Name() string
	Path() string
	// FrameRate is the rate reported by the container or codec. It may be zero or
	// negative when the source does not carry one.
	FrameRate() float64
	// Read decodes the next frame into frame. It returns false at end of stream.
	// A true return with an empty frame means the frame could not be decoded.
	Read(frame *gocv.Mat) bool
	// Close releases the underlying handle. Calling it again is a no-op.
	Close() error
}

// Opener opens a Source for a path. Extractor takes one so tests can swap it.
type Opener func(ctx context.Context, path string) (Source, error)

// NewOpener returns the Opener for a configured backend name.
func NewOpener(backend string) (Opener, error) {
	switch backend {
	case config.BackendOpenCV, "":
		return func(ctx context.Context, path string) (Source, error) {
			return Open(ctx, path, openCV)
		}, nil
	case config.BackendFFmpeg:
		return func(ctx context.Context, path string) (Source, error) {
			return Open(ctx, path, openFFmpeg)
		}, nil
	default:
		return nil, errors.Wrap(ErrUnknownBackend, backend)
	}
}

// Open checks that path exists and then hands it to open. No handle is created
// for a missing path.
func Open(ctx context.Context, path string, open func(path string) (Source, error)) (Source, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "%s", path)
		}
		return nil, errors.Wrapf(ErrOpen, "%s: %v", path, err)
	}
	src, err := open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrOpen, "%s: %v", path, err)
	}
	log.Debug(log.WithFields(ctx, logrus.Fields{
		fields.Path:    path,
		fields.Backend: src.Name(),
	}), "video opened")
	return src, nil
}
