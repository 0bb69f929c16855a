package source

import (
	"image"

	astiav "github.com/asticode/go-astiav"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"frameprep/config"
)

var (
	ErrNoVideoStream = errors.New("no video stream")
)

// maxDecodeErrors ends the stream after this many undecodable frames in a row.
const maxDecodeErrors = 100

// FFmpeg demuxes and decodes the first video stream in the container with
// libavformat/libavcodec.
type FFmpeg struct {
	path string

	formatCtx *astiav.FormatContext
	decCodec  *astiav.Codec
	decCtx    *astiav.CodecContext
	stream    *astiav.Stream
	pkt       *astiav.Packet
	frame     *astiav.Frame
	img       image.Image
	draining  bool
	failures  int
}

func openFFmpeg(path string) (Source, error) {
	f := &FFmpeg{path: path}
	if err := f.init(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func (f *FFmpeg) init() error {
	f.formatCtx = astiav.AllocFormatContext()
	if f.formatCtx == nil {
		return errors.New("format context is nil")
	}
	if err := f.formatCtx.OpenInput(f.path, nil, nil); err != nil {
		f.formatCtx.Free()
		f.formatCtx = nil
		return errors.Wrap(err, "open input")
	}
	if err := f.formatCtx.FindStreamInfo(nil); err != nil {
		return errors.Wrap(err, "find stream info")
	}
	for _, s := range f.formatCtx.Streams() {
		if s.CodecParameters().MediaType() == astiav.MediaTypeVideo {
			f.stream = s
			break
		}
	}
	if f.stream == nil {
		return ErrNoVideoStream
	}

	f.decCodec = astiav.FindDecoder(f.stream.CodecParameters().CodecID())
	if f.decCodec == nil {
		return errors.New("codec is nil")
	}
	f.decCtx = astiav.AllocCodecContext(f.decCodec)
	if f.decCtx == nil {
		return errors.New("codec context is nil")
	}
	if err := f.stream.CodecParameters().ToCodecContext(f.decCtx); err != nil {
		return errors.Wrap(err, "copy codec parameters")
	}
	if err := f.decCtx.Open(f.decCodec, nil); err != nil {
		return errors.Wrap(err, "open codec context")
	}
	f.pkt = astiav.AllocPacket()
	f.frame = astiav.AllocFrame()
	return nil
}

func (f *FFmpeg) Name() string {
	return config.BackendFFmpeg
}

func (f *FFmpeg) Path() string {
	return f.path
}

func (f *FFmpeg) FrameRate() float64 {
	if f.stream == nil {
		return 0
	}
	if r := rationalToFloat(f.stream.AvgFrameRate()); r > 0 {
		return r
	}
	return rationalToFloat(f.stream.RFrameRate())
}

func rationalToFloat(r astiav.Rational) float64 {
	if r.Den() == 0 {
		return 0
	}
	return float64(r.Num()) / float64(r.Den())
}

func (f *FFmpeg) Read(frame *gocv.Mat) bool {
	if f.decCtx == nil {
		return false
	}
	for {
		err := f.decCtx.ReceiveFrame(f.frame)
		if err == nil {
			err := f.toMat(frame)
			f.frame.Unref()
			if err != nil {
				return f.nullFrame(frame)
			}
			f.failures = 0
			return true
		}
		if errors.Is(err, astiav.ErrEof) {
			return false
		}
		if !errors.Is(err, astiav.ErrEagain) {
			return f.nullFrame(frame)
		}
		if f.draining {
			return false
		}

		if err := f.formatCtx.ReadFrame(f.pkt); err != nil {
			if errors.Is(err, astiav.ErrEof) {
				// flush frames still buffered in the decoder
				f.draining = true
				_ = f.decCtx.SendPacket(nil)
				continue
			}
			return false
		}
		if f.pkt.StreamIndex() != f.stream.Index() {
			f.pkt.Unref()
			continue
		}
		err = f.decCtx.SendPacket(f.pkt)
		f.pkt.Unref()
		if err != nil && !errors.Is(err, astiav.ErrEagain) {
			return f.nullFrame(frame)
		}
	}
}

// nullFrame hands back an empty frame, or ends the stream once decoding has
// failed maxDecodeErrors times in a row.
func (f *FFmpeg) nullFrame(frame *gocv.Mat) bool {
	clearMat(frame)
	f.failures++
	return f.failures <= maxDecodeErrors
}

func (f *FFmpeg) toMat(frame *gocv.Mat) error {
	fd := f.frame.Data()
	if f.img == nil || f.img.Bounds().Dx() != f.frame.Width() || f.img.Bounds().Dy() != f.frame.Height() {
		img, err := fd.GuessImageFormat()
		if err != nil {
			return errors.Wrap(err, "guess image format")
		}
		f.img = img
	}
	if err := fd.ToImage(f.img); err != nil {
		return errors.Wrap(err, "frame to image")
	}
	mat, err := gocv.ImageToMatRGB(f.img)
	if err != nil {
		return errors.Wrap(err, "image to mat")
	}
	defer mat.Close()
	mat.CopyTo(frame)
	return nil
}

func clearMat(frame *gocv.Mat) {
	_ = frame.Close()
	*frame = gocv.NewMat()
}

func (f *FFmpeg) Close() error {
	if f.frame != nil {
		f.frame.Free()
		f.frame = nil
	}
	if f.pkt != nil {
		f.pkt.Free()
		f.pkt = nil
	}
	if f.decCtx != nil {
		f.decCtx.Free()
		f.decCtx = nil
	}
	if f.formatCtx != nil {
		f.formatCtx.CloseInput()
		f.formatCtx.Free()
		f.formatCtx = nil
	}
	f.stream = nil
	return nil
}
