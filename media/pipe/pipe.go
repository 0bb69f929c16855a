package pipe

import (
	"sync"
	"time"
)

type ProcessInterface[T any, U any] interface {
	Name() string
	Init() error
	Process(data T) (U, error)
}

// Observer is called after every Process with the time it took.
type Observer func(name string, elapsed time.Duration, err error)

// Stage runs a process synchronously, initializing it once on first use.
type Stage[T any, U any] struct {
	process  ProcessInterface[T, U]
	observer Observer
	initOnce sync.Once
	initErr  error
}

func NewStage[T any, U any](process ProcessInterface[T, U], observer Observer) *Stage[T, U] {
	return &Stage[T, U]{
		process:  process,
		observer: observer,
	}
}

func (s *Stage[T, U]) Name() string {
	return s.process.Name()
}

// Init initializes the process if it has not been yet. The first error sticks.
func (s *Stage[T, U]) Init() error {
	s.initOnce.Do(func() {
		s.initErr = s.process.Init() // Initialize only once
	})
	return s.initErr
}

func (s *Stage[T, U]) Run(data T) (U, error) {
	if err := s.Init(); err != nil {
		var zero U
		return zero, err
	}
	start := time.Now()
	result, err := s.process.Process(data)
	if s.observer != nil {
		s.observer(s.process.Name(), time.Since(start), err)
	}
	return result, err
}
