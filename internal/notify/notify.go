// Package notify holds the notification sinks the presenter emits rendered
// link fragments to.
package notify

import (
	"context"
	"errors"
	"fmt"

	"bankimport-workers/internal/common/config"
	"bankimport-workers/internal/common/logger"
	"bankimport-workers/internal/presenter"
)

// Deps carries the clients a configured sink may need.
type Deps struct {
	Redis  Publisher
	SNS    TextPublisher
	Logger logger.Logger
}

// FromConfig builds the sink named by cfg.Sink. "none" yields a nil sink, which
// the presenter treats as absent.
func FromConfig(cfg config.NotificationConfig, deps Deps) (presenter.Sink, error) {
	switch cfg.Sink {
	case config.SinkNone:
		return nil, nil
	case "", config.SinkLog:
		return NewLogSink(deps.Logger), nil
	case config.SinkRedis:
		if deps.Redis == nil {
			return nil, errors.New("redis sink requires a redis client")
		}
		return NewRedisSink(deps.Redis, cfg.Redis.Channel), nil
	case config.SinkSNS:
		if deps.SNS == nil {
			return nil, errors.New("sns sink requires an sns client")
		}
		return NewSNSSink(deps.SNS, cfg.SNS.TopicARN, WithSubject(cfg.SNS.Subject)), nil
	default:
		return nil, fmt.Errorf("unknown notification sink %q", cfg.Sink)
	}
}

// Fanout emits each fragment to every sink in order.
type Fanout struct {
	sinks []presenter.Sink
}

func NewFanout(sinks ...presenter.Sink) *Fanout {
	out := make([]presenter.Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return &Fanout{sinks: out}
}

// Emit returns the joined errors of the failing sinks; the rest still receive the fragment.
func (f *Fanout) Emit(ctx context.Context, fragment string) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Emit(ctx, fragment); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ presenter.Sink = (*Fanout)(nil)
	_ presenter.Sink = (*LogSink)(nil)
	_ presenter.Sink = (*RedisSink)(nil)
	_ presenter.Sink = (*SNSSink)(nil)
)
