package automation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/commercehub/backend/internal/domain/automation"
	"github.com/commercehub/backend/internal/domain/platform"
	"github.com/commercehub/backend/internal/domain/standard"
)

// Service is the automation execution core: it receives deduplicated webhook
// events and scheduler ticks, evaluates each enabled automation's trigger,
// and runs matched action chains. Definitions are loaded fresh per evaluation
// and never mutated by a run.
type Service struct {
	automations automation.Repository
	adapters    platform.Registry
	evaluator   *TriggerEvaluator
	executor    *ActionChainExecutor
	recorder    automation.RunRecorder
	logger      *zap.Logger
}

// NewService creates the automation service
func NewService(
	automations automation.Repository,
	adapters platform.Registry,
	evaluator *TriggerEvaluator,
	executor *ActionChainExecutor,
	logger *zap.Logger,
) *Service {
	return &Service{
		automations: automations,
		adapters:    adapters,
		evaluator:   evaluator,
		executor:    executor,
		logger:      logger,
	}
}

// SetRunRecorder wires the external run store. Without a recorder, runs
// still execute; only their logs go unrecorded.
func (s *Service) SetRunRecorder(recorder automation.RunRecorder) {
	s.recorder = recorder
}

// EventTypes subscribes the service to every webhook event type; per-trigger
// event type filtering happens during evaluation.
func (s *Service) EventTypes() []string {
	return []string{"*"}
}

// Handle receives one verified, deduplicated webhook event and evaluates the
// tenant's enabled automations against it. Evaluation failures of one
// automation never block the others.
func (s *Service) Handle(ctx context.Context, tenantID uuid.UUID, event *standard.StandardWebhookEvent) error {
	autos, err := s.automations.ListEnabled(ctx, tenantID)
	if err != nil {
		return err
	}

	eventCtx := event.Context()
	for i := range autos {
		auto := &autos[i]
		outcome, err := s.evaluator.EvaluateEvent(ctx, auto, event)
		if err != nil {
			s.logger.Warn("trigger evaluation failed",
				zap.String("automation_id", auto.ID.String()),
				zap.String("event_id", event.EventID),
				zap.Error(err),
			)
			continue
		}
		s.logger.Debug("event trigger evaluated",
			zap.String("automation_id", auto.ID.String()),
			zap.String("state", string(outcome.State())),
		)
		if outcome != automation.OutcomeFired {
			continue
		}
		s.run(ctx, tenantID, auto, eventCtx)
	}
	return nil
}

// HandleTick evaluates the tenant's schedule triggers at a scheduler tick.
// lastCheck is the previous tick time; fires due between the two instants
// are claimed and executed at most once across instances.
func (s *Service) HandleTick(ctx context.Context, tenantID uuid.UUID, lastCheck, now time.Time) error {
	autos, err := s.automations.ListEnabled(ctx, tenantID)
	if err != nil {
		return err
	}

	for i := range autos {
		auto := &autos[i]
		fireAt, outcome, err := s.evaluator.EvaluateTick(ctx, auto, lastCheck, now)
		if err != nil {
			s.logger.Warn("schedule evaluation failed",
				zap.String("automation_id", auto.ID.String()),
				zap.Error(err),
			)
			continue
		}
		s.logger.Debug("schedule trigger evaluated",
			zap.String("automation_id", auto.ID.String()),
			zap.String("state", string(outcome.State())),
		)
		if outcome != automation.OutcomeFired {
			continue
		}

		// Scheduled runs evaluate conditions against a minimal tick context.
		tickCtx := map[string]any{
			"trigger": "schedule",
			"fire_at": fireAt.UTC().Format(time.RFC3339),
		}
		s.run(ctx, tenantID, auto, tickCtx)
	}
	return nil
}

func (s *Service) run(ctx context.Context, tenantID uuid.UUID, auto *automation.Automation, eventCtx map[string]any) {
	exec := &ExecutionContext{
		TenantID:   tenantID,
		Automation: auto,
		EventCtx:   eventCtx,
		Adapters:   s.adapters,
	}
	result := s.executor.Execute(ctx, exec)

	s.logger.Info("automation run finished",
		zap.String("automation_id", auto.ID.String()),
		zap.String("run_id", result.RunID.String()),
		zap.Bool("succeeded", result.Succeeded()),
		zap.Int("actions", len(result.Entries)),
		zap.Duration("duration", result.FinishedAt.Sub(result.StartedAt)),
	)

	if s.recorder != nil {
		if err := s.recorder.RecordRun(ctx, result); err != nil {
			s.logger.Error("failed to record automation run",
				zap.String("run_id", result.RunID.String()),
				zap.Error(err),
			)
		}
	}
}
