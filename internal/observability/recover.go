package observability

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Recover logs a panic in the calling goroutine and lets it continue. It must
// be deferred directly:
//
//	defer observability.Recover(logger, "update", onPanic)
//
// onPanic, if set, receives the recovered value as an error.
func Recover(logger *zap.Logger, where string, onPanic func(error)) {
	r := recover()
	if r == nil {
		return
	}
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("%v", r)
	}
	if logger == nil {
		logger = GetLogger()
	}
	logger.Error("recovered from panic", zap.String("where", where), zap.Error(err), zap.Stack("stack"))
	if onPanic != nil {
		onPanic(err)
	}
}

// LoadTimer logs, once, how long startup took until the first frame.
type LoadTimer struct {
	start  time.Time
	once   sync.Once
	logger *zap.Logger
}

// NewLoadTimer starts timing at start.
func NewLoadTimer(start time.Time, logger *zap.Logger) *LoadTimer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoadTimer{start: start, logger: logger}
}

// Mark records the first frame at now. Later calls are no-ops.
func (t *LoadTimer) Mark(now time.Time) {
	t.once.Do(func() {
		t.logger.Info("page loaded", zap.Duration("elapsed", now.Sub(t.start)))
	})
}
