package notify

import (
	"context"

	"bankimport-workers/internal/common/logger"
	"bankimport-workers/internal/common/metrics"
)

const sinkNameLog = "log"

// LogSink writes fragments to the structured log. It never fails.
type LogSink struct {
	logger logger.Logger
}

func NewLogSink(log logger.Logger) *LogSink {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &LogSink{logger: log.WithFields(map[string]interface{}{"sink": sinkNameLog})}
}

func (s *LogSink) Emit(_ context.Context, fragment string) error {
	s.logger.Info("notification", map[string]interface{}{"html": fragment})
	metrics.RecordEmit(sinkNameLog, nil)
	return nil
}
