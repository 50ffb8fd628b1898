package notify

import (
	"context"
	"strings"

	"bankimport-workers/internal/common/metrics"

	"github.com/jaytaylor/html2text"
)

const sinkNameSNS = "sns"

// TextPublisher is satisfied by aws.SNSClient.
type TextPublisher interface {
	PublishMessage(ctx context.Context, topicARN, subject, message string) (string, error)
}

// SNSSink publishes a plain-text rendering of each fragment to an SNS topic.
type SNSSink struct {
	client   TextPublisher
	topicARN string
	subject  string
}

type SNSOption func(*SNSSink)

func WithSubject(subject string) SNSOption {
	return func(s *SNSSink) { s.subject = subject }
}

func NewSNSSink(client TextPublisher, topicARN string, opts ...SNSOption) *SNSSink {
	s := &SNSSink{client: client, topicARN: topicARN}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SNSSink) Emit(ctx context.Context, fragment string) error {
	_, err := s.client.PublishMessage(ctx, s.topicARN, s.subject, PlainText(fragment))
	metrics.RecordEmit(sinkNameSNS, err)
	return err
}

// PlainText converts an html fragment to text, returning the input unchanged
// when it cannot be parsed.
func PlainText(fragment string) string {
	text, err := html2text.FromString(fragment, html2text.Options{PrettyTables: true})
	if err != nil {
		return fragment
	}
	return strings.TrimSpace(text)
}
