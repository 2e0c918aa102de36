package view

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"EconDash/internal/collector"
	"EconDash/internal/model"
)

// Status is the phase of a view's load cycle.
type Status int

const (
	Idle Status = iota
	Loading
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// State is a snapshot of one view. Data is meaningful only when Status is
// Loaded; a failed load leaves it zero.
type State[T any] struct {
	Status    Status       `json:"status"`
	Data      T            `json:"data,omitzero"`
	Err       error        `json:"-"`
	Message   string       `json:"error,omitempty"`
	Period    model.Period `json:"period,omitempty"`
	UpdatedAt time.Time    `json:"updated_at,omitzero"`
	Seq       uint64       `json:"seq"`
}

// loader runs one view's load cycles. Each cycle takes a sequence number;
// a completion whose number is not the latest issued is dropped.
type loader[T any] struct {
	name   string
	logger *zap.Logger
	now    func() time.Time

	mu    sync.Mutex
	seq   uint64
	state State[T]
}

func newLoader[T any](name string, period model.Period, logger *zap.Logger) *loader[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &loader[T]{
		name:   name,
		logger: logger,
		now:    time.Now,
		state:  State[T]{Status: Idle, Period: period},
	}
}

func (l *loader[T]) snapshot() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *loader[T]) period() model.Period {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Period
}

// run moves the view to Loading for period, calls fetch, and applies the
// result unless a newer cycle started meanwhile.
func (l *loader[T]) run(ctx context.Context, period model.Period, fetch func(context.Context, model.Period) (T, error)) State[T] {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.state.Status = Loading
	l.state.Period = period
	l.state.Seq = seq
	l.mu.Unlock()

	data, err := fetch(ctx, period)

	l.mu.Lock()
	defer l.mu.Unlock()
	if seq != l.seq {
		l.logger.Debug("dropping stale response",
			zap.String("view", l.name),
			zap.Uint64("seq", seq),
			zap.Uint64("latest", l.seq))
		return l.state
	}
	if err != nil {
		var zero T
		l.state.Status = Failed
		l.state.Data = zero
		l.state.Err = err
		l.state.Message = err.Error()
		fields := []zap.Field{
			zap.String("view", l.name),
			zap.String("period", string(period)),
			zap.Error(err),
		}
		var fe *collector.FetchError
		if errors.As(err, &fe) {
			fields = append(fields, zap.String("detail", fe.Detail()))
		}
		l.logger.Warn("view load failed", fields...)
		return l.state
	}
	l.state.Status = Loaded
	l.state.Data = data
	l.state.Err = nil
	l.state.Message = ""
	l.state.UpdatedAt = l.now()
	l.logger.Debug("view loaded", zap.String("view", l.name), zap.String("period", string(period)))
	return l.state
}
