// internal/workers/bank-import/classify-transaction-match/handler.go
package classifytransactionmatch

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
	"bankimport-workers/internal/matching"
	"bankimport-workers/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "classify-transaction-match"

const outcomeNone = "none"

type Handler struct {
	config     *Config
	classifier *matching.Classifier
	schema     *validation.Schema
	obs        *observability.Observability
	errors     *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, obs *observability.Observability, log logger.Logger) (*Handler, error) {
	if config == nil {
		config = LoadConfig()
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	schema, err := validation.Compile(registry.Default().InputSchema(TaskType))
	if err != nil {
		return nil, fmt.Errorf("compile %s input schema: %w", TaskType, err)
	}

	return &Handler{
		config:     config,
		classifier: matching.NewClassifier(config.MinScore),
		schema:     schema,
		obs:        obs,
		errors:     apperrors.NewErrorHandler(log),
		logger:     log,
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

// Execute classifies the candidates in the order given. The caller is
// expected to have sorted them by descending relevance.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewClassificationFailedError(err)
	}

	// Larger sets are ambiguous and never classified, so their fields are not coerced.
	var outcome *matching.Outcome
	if len(input.Candidates) <= matching.MaxCandidates {
		candidates := make([]matching.CandidateMatch, 0, len(input.Candidates))
		for i, c := range input.Candidates {
			candidate, err := c.toCandidate(i)
			if err != nil {
				return nil, apperrors.NewInputValidationFailedError(err.Error())
			}
			candidates = append(candidates, candidate)
		}
		outcome = h.classifier.Classify(candidates)
	}

	out := newOutput(outcome)
	label := outcomeNone
	if out.Matched {
		label = out.PartnerType
	}
	metrics.ClassificationOutcomes.WithLabelValues(label).Inc()

	h.logger.Info("transaction match classified", map[string]interface{}{
		"candidates":  len(input.Candidates),
		"matched":     out.Matched,
		"partnerType": out.PartnerType,
		"minScore":    h.classifier.MinScore(),
	})
	return out, nil
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
		"jobKey":  job.Key,
		"matched": output.Matched,
	})
}
