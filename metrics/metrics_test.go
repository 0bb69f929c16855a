package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusRecorder(t *testing.T) {
	var r Recorder = Prometheus{}

	read := testutil.ToFloat64(FramesReadTotal)
	saved := testutil.ToFloat64(FramesSavedTotal)
	failed := testutil.ToFloat64(WriteFailuresTotal)
	null := testutil.ToFloat64(NullFramesTotal)

	r.FrameRead()
	r.FrameRead()
	r.NullFrame()
	r.FrameSaved()
	r.WriteFailed()
	r.Sampling(29.97, 2)

	assert.Equal(t, read+2, testutil.ToFloat64(FramesReadTotal))
	assert.Equal(t, null+1, testutil.ToFloat64(NullFramesTotal))
	assert.Equal(t, saved+1, testutil.ToFloat64(FramesSavedTotal))
	assert.Equal(t, failed+1, testutil.ToFloat64(WriteFailuresTotal))
	assert.Equal(t, 29.97, testutil.ToFloat64(SourceFPS))
	assert.Equal(t, 2.0, testutil.ToFloat64(SkipInterval))
}

func TestObserveStage(t *testing.T) {
	r := Prometheus{}
	r.ObserveStage("enhance", 3*time.Millisecond, nil)
	r.ObserveStage("jpeg", time.Millisecond, errors.New("disk full"))

	assert.Equal(t, 2, testutil.CollectAndCount(StageDuration))
}
