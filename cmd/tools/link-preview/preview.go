// cmd/tools/link-preview/preview.go
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bankimport-workers/internal/common/logger"
	"bankimport-workers/internal/links"
	"bankimport-workers/internal/notify"
	"bankimport-workers/internal/presenter"
	"bankimport-workers/internal/routing"
)

type previewOptions struct {
	transType     string
	contextName   string
	partnerType   string
	kinds         []string
	contextPolicy []string
	typePolicy    []string
	derive        bool
	baseURL       string
	mode          string
	format        string
	verbose       bool
}

func previewCmd() *cobra.Command {
	opts := &previewOptions{}
	cmd := &cobra.Command{
		Use:   "link-preview [payload.json]",
		Short: "Preview the links built for a transaction result",
		Long: `Reads a transaction result payload (a file, or stdin when omitted or "-")
and prints the ordered links and rendered anchors the resolve-transaction-links
worker would produce for it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			in, closeFn, err := openInput(path, cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer closeFn()
			return runPreview(cmd.Context(), opts, in, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.transType, "trans-type", "", "Transaction type code (overrides the payload)")
	cmd.Flags().StringVar(&opts.contextName, "context", "", "Route context name")
	cmd.Flags().StringVar(&opts.partnerType, "partner-type", "", "Partner type, used as context when --context is empty")
	cmd.Flags().StringSliceVar(&opts.kinds, "kinds", nil, "Preferred link kinds for this call, highest first")
	cmd.Flags().StringArrayVar(&opts.contextPolicy, "context-policy", nil, "Context policy as name:kind,kind (repeatable)")
	cmd.Flags().StringArrayVar(&opts.typePolicy, "type-policy", nil, "Transaction type policy as code:kind,kind (repeatable)")
	cmd.Flags().BoolVar(&opts.derive, "derive", false, "Derive fallback links from trans_type and trans_no")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "Base URL prefixed to derived links")
	cmd.Flags().StringVar(&opts.mode, "mode", string(presenter.ModeHTML), "Output mode (html, notification)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format (text, json)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log pipeline details to stderr")

	return cmd
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open payload: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

type previewResult struct {
	Links     []links.Link `json:"links"`
	HTML      string       `json:"html"`
	PlainText string       `json:"plainText"`
	Emitted   []string     `json:"emitted,omitempty"`
}

func runPreview(ctx context.Context, opts *previewOptions, in io.Reader, out io.Writer) error {
	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload links.Payload
	if err := dec.Decode(&payload); err != nil {
		return fmt.Errorf("parse payload: %w", err)
	}

	policyCfg, err := parsePolicies(opts.contextPolicy, opts.typePolicy)
	if err != nil {
		return err
	}

	var transType *int
	if opts.transType != "" {
		t, ok := links.CoerceInt(opts.transType)
		if !ok {
			return fmt.Errorf("--trans-type %q is not an integer", opts.transType)
		}
		transType = &t
	}

	builder := links.NewBuilder(
		links.WithDeriveLinks(opts.derive),
		links.WithDeriver(links.NewDeriver(links.WithBaseURL(opts.baseURL))),
		links.WithPrioritizer(routing.NewPolicy(policyCfg)),
	)

	rc := links.RouteContext{ExplicitPreferredKinds: opts.kinds, ContextName: opts.contextName}
	if rc.ContextName == "" {
		rc.ContextName = strings.ToLower(opts.partnerType)
	}
	ordered := builder.Build(payload, transType, rc)

	log := logger.NewNoOpLogger()
	if opts.verbose {
		log = logger.NewStructured("debug", "console")
	}

	result := previewResult{Links: ordered}
	sink := presenter.SinkFunc(func(_ context.Context, fragment string) error {
		result.Emitted = append(result.Emitted, fragment)
		return nil
	})
	result.HTML = presenter.New(sink, log).Render(ctx, ordered, presenter.ParseMode(opts.mode))
	result.PlainText = notify.PlainText(result.HTML)

	if opts.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return writeText(out, result)
}

func writeText(out io.Writer, r previewResult) error {
	if len(r.Links) == 0 {
		_, err := fmt.Fprintln(out, "No links.")
		return err
	}
	for i, l := range r.Links {
		if _, err := fmt.Fprintf(out, "%d. [%s] %s -> %s (%s)\n", i+1, l.ResolvedKind(), l.Label, l.URL, l.Key); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(out, "\n%s\n", r.HTML); err != nil {
		return err
	}
	if len(r.Emitted) > 0 {
		_, err := fmt.Fprintf(out, "\nEmitted %d notification fragment(s).\n", len(r.Emitted))
		return err
	}
	return nil
}

// parsePolicies reads "name:kind,kind" entries.
func parsePolicies(byContext, byType []string) (routing.Config, error) {
	cfg := routing.Config{
		PolicyByContext:       map[string][]string{},
		PolicyByTransTypeCode: map[int][]string{},
	}
	for _, entry := range byContext {
		name, kinds, err := splitPolicy(entry)
		if err != nil {
			return cfg, fmt.Errorf("--context-policy: %w", err)
		}
		cfg.PolicyByContext[name] = kinds
	}
	for _, entry := range byType {
		code, kinds, err := splitPolicy(entry)
		if err != nil {
			return cfg, fmt.Errorf("--type-policy: %w", err)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			return cfg, fmt.Errorf("--type-policy: %q is not a type code", code)
		}
		cfg.PolicyByTransTypeCode[n] = kinds
	}
	return cfg, nil
}

func splitPolicy(entry string) (string, []string, error) {
	name, list, ok := strings.Cut(entry, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", nil, fmt.Errorf("%q must look like name:kind,kind", entry)
	}
	var kinds []string
	for _, k := range strings.Split(list, ",") {
		if k = strings.TrimSpace(k); k != "" {
			kinds = append(kinds, k)
		}
	}
	return name, kinds, nil
}
