package extract

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"frameprep/log"
	"frameprep/media/fields"
	"frameprep/media/pipe"
	"frameprep/media/processes"
	"frameprep/media/sampling"
	"frameprep/media/source"
	"frameprep/metrics"
)

type Enhancer = pipe.ProcessInterface[gocv.Mat, gocv.Mat]

type Sink interface {
	pipe.ProcessInterface[processes.Selected, string]
	Dir() string
}

type ExtractorArgs struct {
	Path          string
	Open          source.Opener
	Enhancer      Enhancer
	Sink          Sink
	Recorder      metrics.Recorder
	TargetFPS     float64
	DefaultFPS    float64
	ProgressEvery int
}

// Extractor runs one video through sampling, enhancement and the sink, one frame
// at a time.
type Extractor struct {
	path          string
	open          source.Opener
	enhancer      Enhancer
	sink          Sink
	recorder      metrics.Recorder
	targetFPS     float64
	defaultFPS    float64
	progressEvery int
}

func NewExtractor(args ExtractorArgs) *Extractor {
	e := &Extractor{
		path:          args.Path,
		open:          args.Open,
		enhancer:      args.Enhancer,
		sink:          args.Sink,
		recorder:      args.Recorder,
		targetFPS:     args.TargetFPS,
		defaultFPS:    args.DefaultFPS,
		progressEvery: args.ProgressEvery,
	}
	if e.recorder == nil {
		e.recorder = metrics.Nop{}
	}
	if e.targetFPS <= 0 {
		e.targetFPS = sampling.DefaultTargetFPS
	}
	if e.defaultFPS <= 0 {
		e.defaultFPS = sampling.DefaultSourceFPS
	}
	if e.progressEvery <= 0 {
		e.progressEvery = 100
	}
	return e
}

// OutputDir is the interim directory for a video: "data/raw/1.mp4" under root
// "data/interim" becomes "data/interim/1_mp4_frames".
func OutputDir(root string, videoPath string) string {
	name := strings.ReplaceAll(filepath.Base(videoPath), ".", "_")
	return filepath.Join(root, name+"_frames")
}

// Run processes the whole video. A missing or unopenable video is returned as an
// error before anything is written. Per-frame failures are logged and counted.
func (e *Extractor) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	ctx = log.WithFields(ctx, logrus.Fields{
		fields.Path: e.path,
	})

	src, err := e.open(ctx, e.path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := src.Close(); err != nil {
			log.Warnf(ctx, "failed to release video: %v", err)
		}
	}()

	res := &Result{
		Path:    src.Path(),
		Backend: src.Name(),
		OutDir:  e.sink.Dir(),
	}
	defer res.finish(start)

	reported := src.FrameRate()
	fps, defaulted := sampling.ResolveFPS(reported, e.defaultFPS)
	if defaulted {
		log.Warnf(ctx, "couldn't read FPS from video (got %v); defaulting to %v", reported, fps)
	}
	policy := sampling.NewPolicy(sampling.Interval(fps, e.targetFPS))
	res.SourceFPS = fps
	res.FPSDefaulted = defaulted
	res.Interval = policy.Interval()
	e.recorder.Sampling(fps, policy.Interval())

	enhance := pipe.NewStage[gocv.Mat, gocv.Mat](e.enhancer, e.recorder.ObserveStage)
	sink := pipe.NewStage[processes.Selected, string](e.sink, e.recorder.ObserveStage)
	if err := sink.Init(); err != nil {
		return res, err
	}
	if err := enhance.Init(); err != nil {
		return res, errors.Wrap(err, "init enhancer")
	}

	ctx = log.WithFields(ctx, logrus.Fields{
		fields.Backend:   src.Name(),
		fields.SourceFPS: fps,
		fields.Interval:  policy.Interval(),
		fields.OutDir:    res.OutDir,
	})
	log.Infof(ctx, "reading %s @ %v FPS, saving every %d frames into %s", e.path, fps, policy.Interval(), res.OutDir)

	frame := gocv.NewMat()
	defer frame.Close()
	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			log.Warnf(ctx, "stopped after %d frames: %v", res.FramesRead, err)
			return res, err
		}
		if !src.Read(&frame) {
			break
		}
		res.FramesRead++
		e.recorder.FrameRead()
		if frame.Empty() {
			res.NullFrames++
			e.recorder.NullFrame()
			continue
		}
		if !policy.Selected(index) {
			continue
		}
		res.Selected++
		e.save(ctx, enhance, sink, frame, index, res)
	}

	log.Infof(ctx, "finished. saved %d frames to %s", res.Saved, res.OutDir)
	return res, nil
}

func (e *Extractor) save(ctx context.Context, enhance *pipe.Stage[gocv.Mat, gocv.Mat], sink *pipe.Stage[processes.Selected, string], frame gocv.Mat, index int, res *Result) {
	enhanced, err := enhance.Run(frame)
	defer enhanced.Close()
	if err != nil {
		res.WriteFailures++
		e.recorder.WriteFailed()
		log.Warnf(log.WithFields(ctx, logrus.Fields{fields.Index: index}), "failed to enhance frame: %v", err)
		return
	}

	path, err := sink.Run(processes.Selected{Frame: enhanced, Seq: res.Saved})
	if err != nil {
		res.WriteFailures++
		e.recorder.WriteFailed()
		log.Warnf(log.WithFields(ctx, logrus.Fields{
			fields.Index: index,
			fields.File:  path,
		}), "failed to write frame to %s: %v", path, err)
		return
	}
	res.Saved++
	e.recorder.FrameSaved()
	if res.Saved%e.progressEvery == 0 {
		log.Infof(log.WithFields(ctx, logrus.Fields{fields.Saved: res.Saved}), "saved %d frames...", res.Saved)
	}
}
