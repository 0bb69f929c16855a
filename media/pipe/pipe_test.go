package pipe

import (
	"strconv"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type formatProcess struct {
	inits   int
	initErr error
}

func (f *formatProcess) Name() string { return "format" }

func (f *formatProcess) Init() error {
	f.inits++
	return f.initErr
}

func (f *formatProcess) Process(data int) (string, error) {
	if data < 0 {
		return "", errors.New("negative")
	}
	return strconv.Itoa(data), nil
}

func TestStageInitOnce(t *testing.T) {
	p := &formatProcess{}
	var observed []string
	stage := NewStage[int, string](p, func(name string, elapsed time.Duration, err error) {
		assert.GreaterOrEqual(t, elapsed, time.Duration(0))
		if err != nil {
			observed = append(observed, name+":error")
			return
		}
		observed = append(observed, name)
	})

	for i := 0; i < 3; i++ {
		out, err := stage.Run(i)
		require.NoError(t, err)
		assert.Equal(t, strconv.Itoa(i), out)
	}
	_, err := stage.Run(-1)
	assert.Error(t, err)

	assert.Equal(t, 1, p.inits)
	assert.Equal(t, "format", stage.Name())
	assert.Equal(t, []string{"format", "format", "format", "format:error"}, observed)
}

func TestStageInitErrorSticks(t *testing.T) {
	p := &formatProcess{initErr: errors.New("no codec")}
	stage := NewStage[int, string](p, nil)

	_, err := stage.Run(1)
	assert.EqualError(t, err, "no codec")
	_, err = stage.Run(2)
	assert.EqualError(t, err, "no codec")
	assert.Equal(t, 1, p.inits)
}
