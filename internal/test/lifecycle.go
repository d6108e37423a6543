package test

import (
	"sync"

	"go.uber.org/fx"
)

// LifecycleRecorder collects fx hooks so tests can run OnStart and OnStop
// by hand instead of spinning up a full application.
type LifecycleRecorder struct {
	Hooks []fx.Hook
}

func (l *LifecycleRecorder) Append(h fx.Hook) {
	l.Hooks = append(l.Hooks, h)
}

// ShutdownerStub closes Called the first time Shutdown is invoked. Repeat
// invocations are no-ops, so components may request shutdown more than once.
type ShutdownerStub struct {
	Called chan struct{}

	once sync.Once
}

func (s *ShutdownerStub) Shutdown(...fx.ShutdownOption) error {
	if s.Called != nil {
		s.once.Do(func() { close(s.Called) })
	}
	return nil
}
