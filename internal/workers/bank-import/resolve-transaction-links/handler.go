// internal/workers/bank-import/resolve-transaction-links/handler.go
package resolvetransactionlinks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "bankimport-workers/internal/common/errors"
	"bankimport-workers/internal/common/logger"
	"bankimport-workers/internal/common/metrics"
	"bankimport-workers/internal/common/observability"
	"bankimport-workers/internal/common/validation"
	"bankimport-workers/internal/links"
	"bankimport-workers/internal/presenter"
	"bankimport-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "resolve-transaction-links"

type Handler struct {
	config    *Config
	builder   *links.Builder
	presenter *presenter.Presenter
	schema    *validation.Schema
	obs       *observability.Observability
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

// NewHandler wires the worker. A nil builder or presenter gets the defaults.
func NewHandler(config *Config, builder *links.Builder, p *presenter.Presenter, obs *observability.Observability, log logger.Logger) (*Handler, error) {
	if config == nil {
		config = LoadConfig()
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	if builder == nil {
		builder = links.NewBuilder(
			links.WithDeriveLinks(config.DeriveLinks),
			links.WithDeriver(links.NewDeriver(links.WithBaseURL(config.BaseURL))),
		)
	}
	if p == nil {
		p = presenter.New(nil, log)
	}

	schema, err := validation.Compile(registry.Default().InputSchema(TaskType))
	if err != nil {
		return nil, fmt.Errorf("compile %s input schema: %w", TaskType, err)
	}

	return &Handler{
		config:    config,
		builder:   builder,
		presenter: p,
		schema:    schema,
		obs:       obs,
		errors:    apperrors.NewErrorHandler(log),
		logger:    log,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()
	ctx, span := h.obs.StartJobSpan(ctx, TaskType, job.Key)

	output, err := h.process(ctx, job.Variables)
	observability.EndJobSpan(span, err)
	if err != nil {
		stdErr := apperrors.AsStandardError(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		h.obs.RecordJobProcessed(ctx, TaskType, "failed")
		h.obs.RecordJobDuration(ctx, TaskType, time.Since(startTime), "failed")
		h.errors.HandleJobError(context.Background(), client, job, stdErr)
		return
	}

	h.completeJob(client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(startTime), "completed")
}

func (h *Handler) process(ctx context.Context, variables string) (*Output, error) {
	input, err := h.parse(variables)
	if err != nil {
		return nil, err
	}
	return h.Execute(ctx, input)
}

// parse validates the raw variables against the registry schema and decodes
// them with json.Number so integral floats survive coercion.
func (h *Handler) parse(variables string) (*Input, error) {
	res, err := h.schema.ValidateJSON(variables)
	if err != nil {
		return nil, apperrors.NewParseError(err)
	}
	if !res.Valid {
		return nil, apperrors.NewInputValidationFailedError(res.Summary())
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(variables)))
	dec.UseNumber()
	var input Input
	if err := dec.Decode(&input); err != nil {
		return nil, apperrors.NewParseError(fmt.Errorf("parse input: %w", err))
	}
	return &input, nil
}

// Execute builds, orders and renders the links for one transaction result.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewLinkResolutionFailedError(err)
	}
	if input.TransactionResult == nil {
		input.TransactionResult = links.Payload{}
	}

	derive := h.builder.DeriveLinks()
	if input.DeriveLinks != nil {
		derive = *input.DeriveLinks
	}

	rc := input.RouteContext.toRouteContext()
	built := h.builder.BuildWithStats(input.TransactionResult, input.explicitTransType(), rc, derive)
	for tier, n := range built.Admitted {
		metrics.LinksAdmitted.WithLabelValues(string(tier)).Add(float64(n))
	}
	metrics.LinksDuplicated.Add(float64(built.Duplicates))

	mode := presenter.ParseMode(input.OutputMode)
	rendered := h.presenter.RenderResult(ctx, built.Links, mode)
	metrics.AnchorFallbacks.Add(float64(rendered.Fallbacks))

	fields := map[string]interface{}{
		"linkCount":    len(built.Links),
		"explicit":     built.Admitted[links.TierExplicit],
		"keyed":        built.Admitted[links.TierKeyed],
		"derived":      built.Admitted[links.TierDerived],
		"duplicates":   built.Duplicates,
		"fallbacks":    rendered.Fallbacks,
		"outputMode":   string(mode),
		"context":      rc.ContextName,
		"emitted":      rendered.Emitted,
		"emitFailures": rendered.EmitFailures,
	}
	if built.TransType != nil {
		fields["transType"] = *built.TransType
	}
	h.logger.Info("transaction links resolved", fields)

	out := built.Links
	if out == nil {
		out = []links.Link{}
	}
	return &Output{
		Links:      out,
		HTML:       rendered.HTML,
		LinkCount:  len(out),
		OutputMode: string(mode),
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		h.errors.HandleJobError(context.Background(), client, job, apperrors.NewInternalError(err))
		return
	}

	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":    job.Key,
		"linkCount": output.LinkCount,
	})
}
