// internal/presenter/presenter.go
package presenter

import (
	"context"
	"strings"

	"bankimport-workers/internal/common/logger"
	"bankimport-workers/internal/links"
)

// Mode selects how rendered anchors are delivered.
type Mode string

const (
	ModeNotification Mode = "notification"
	ModeHTML         Mode = "html"
)

// ParseMode maps a loosely typed mode string; anything unknown is notification.
func ParseMode(s string) Mode {
	if Mode(strings.ToLower(strings.TrimSpace(s))) == ModeHTML {
		return ModeHTML
	}
	return ModeNotification
}

// Sink receives rendered fragments for a UI notification channel.
type Sink interface {
	Emit(ctx context.Context, fragment string) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, fragment string) error

func (f SinkFunc) Emit(ctx context.Context, fragment string) error {
	return f(ctx, fragment)
}

// Result summarises one Render call.
type Result struct {
	HTML          string
	Anchors       []string
	Fallbacks     int
	Emitted       int
	EmitFailures  int
	SinkAvailable bool
}

// Presenter renders ordered links and optionally emits them to a sink.
type Presenter struct {
	sink   Sink
	logger logger.Logger
}

// New creates a Presenter. A nil sink degrades notification mode to
// returning the concatenated html only.
func New(sink Sink, log logger.Logger) *Presenter {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Presenter{sink: sink, logger: log}
}

// Render returns the newline-joined anchors for links.
func (p *Presenter) Render(ctx context.Context, ls []links.Link, mode Mode) string {
	return p.RenderResult(ctx, ls, mode).HTML
}

// RenderResult renders every link, falling back to an escaped anchor when the
// template path fails. In notification mode each anchor is emitted once, in
// order. Sink failures are logged and never returned.
func (p *Presenter) RenderResult(ctx context.Context, ls []links.Link, mode Mode) Result {
	res := Result{SinkAvailable: p.sink != nil}
	if len(ls) == 0 {
		return res
	}

	res.Anchors = make([]string, 0, len(ls))
	for _, l := range ls {
		anchor, err := RenderAnchor(l)
		if err != nil {
			p.logger.Debug("anchor render fell back to escaped markup", map[string]interface{}{
				"key":   l.Key,
				"error": err.Error(),
			})
			anchor = FallbackAnchor(l)
			res.Fallbacks++
		}
		res.Anchors = append(res.Anchors, anchor)
	}
	res.HTML = strings.Join(res.Anchors, "\n")

	if mode != ModeNotification || p.sink == nil {
		return res
	}

	for i, anchor := range res.Anchors {
		if err := p.sink.Emit(ctx, anchor); err != nil {
			res.EmitFailures++
			p.logger.Warn("notification emit failed", map[string]interface{}{
				"key":   ls[i].Key,
				"error": err.Error(),
			})
			continue
		}
		res.Emitted++
	}
	return res
}
