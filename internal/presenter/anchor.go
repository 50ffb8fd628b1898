// internal/presenter/anchor.go
package presenter

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"net/url"
	"strings"

	"bankimport-workers/internal/links"
)

var anchorTemplate = template.Must(template.New("anchor").Parse(
	`<a href="{{.URL}}" target="_blank" rel="noopener noreferrer">{{.Label}}</a>`,
))

// RenderError reports why a link could not be rendered through the template.
type RenderError struct {
	URL    string
	Reason string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render anchor %q: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("render anchor %q: %s", e.URL, e.Reason)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// RenderAnchor renders one link as an anchor opening in a new browsing context.
func RenderAnchor(l links.Link) (string, error) {
	raw := strings.TrimSpace(l.URL)
	if raw == "" {
		return "", &RenderError{URL: l.URL, Reason: "empty url"}
	}
	if strings.ContainsAny(raw, "\x00\r\n\t<>\"") {
		return "", &RenderError{URL: l.URL, Reason: "illegal character in url"}
	}
	if _, err := url.Parse(raw); err != nil {
		return "", &RenderError{URL: l.URL, Reason: "malformed url", Err: err}
	}

	var buf bytes.Buffer
	err := anchorTemplate.Execute(&buf, struct {
		URL   string
		Label string
	}{URL: raw, Label: l.Label})
	if err != nil {
		return "", &RenderError{URL: l.URL, Reason: "template execution", Err: err}
	}
	return buf.String(), nil
}

// FallbackAnchor builds an anchor by entity-escaping url and label. URLs with a
// scheme other than http, https or mailto are replaced by "#".
func FallbackAnchor(l links.Link) string {
	return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`,
		html.EscapeString(fallbackURL(l.URL)), html.EscapeString(l.Label))
}

func fallbackURL(raw string) string {
	raw = strings.TrimSpace(raw)
	i := strings.IndexAny(raw, ":/?#")
	if i < 0 || raw[i] != ':' {
		return raw
	}
	switch strings.ToLower(raw[:i]) {
	case "http", "https", "mailto":
		return raw
	}
	return "#"
}
