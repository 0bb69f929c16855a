package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FramesReadTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frameprep_frames_read_total",
		Help: "Frames returned by the video source, including undecodable ones",
	})

	NullFramesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frameprep_null_frames_total",
		Help: "Frames the source could not decode and that were skipped",
	})

	FramesSavedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frameprep_frames_saved_total",
		Help: "Enhanced frames written to disk",
	})

	WriteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frameprep_write_failures_total",
		Help: "Selected frames that could not be enhanced or written",
	})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "frameprep_stage_duration_seconds",
		Help:    "Time spent per frame in each pipeline stage",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"stage", "status"})

	SourceFPS = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "frameprep_source_fps",
		Help: "Frame rate used to derive the sampling interval",
	})

	SkipInterval = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "frameprep_skip_interval",
		Help: "Number of source frames advanced between kept frames",
	})
)

// Recorder is what the extractor reports to. Prometheus is the production one.
type Recorder interface {
	FrameRead()
	NullFrame()
	FrameSaved()
	WriteFailed()
	Sampling(fps float64, interval int)
	ObserveStage(stage string, elapsed time.Duration, err error)
}

type Prometheus struct{}

func (Prometheus) FrameRead()   { FramesReadTotal.Inc() }
func (Prometheus) NullFrame()   { NullFramesTotal.Inc() }
func (Prometheus) FrameSaved()  { FramesSavedTotal.Inc() }
func (Prometheus) WriteFailed() { WriteFailuresTotal.Inc() }

func (Prometheus) Sampling(fps float64, interval int) {
	SourceFPS.Set(fps)
	SkipInterval.Set(float64(interval))
}

func (Prometheus) ObserveStage(stage string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	StageDuration.WithLabelValues(stage, status).Observe(elapsed.Seconds())
}

// Nop discards everything.
type Nop struct{}

func (Nop) FrameRead()                                {}
func (Nop) NullFrame()                                {}
func (Nop) FrameSaved()                               {}
func (Nop) WriteFailed()                              {}
func (Nop) Sampling(float64, int)                     {}
func (Nop) ObserveStage(string, time.Duration, error) {}
