package persistence

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/commercehub/backend/internal/domain/automation"
)

// ErrAutomationNotFound is returned when an automation id is unknown
var ErrAutomationNotFound = errors.New("persistence: automation not found")

// maxRunsPerAutomation bounds the retained run history per automation
const maxRunsPerAutomation = 100

// InMemoryAutomationStore holds automation definitions and run history in
// process memory. Definitions are owned by the external config UI; this store
// mirrors them for evaluation and keeps a bounded run log for monitoring.
// Safe for concurrent use.
type InMemoryAutomationStore struct {
	mu          sync.RWMutex
	automations map[uuid.UUID]automation.Automation
	runs        map[uuid.UUID][]automation.RunResult
}

// NewInMemoryAutomationStore creates an empty store
func NewInMemoryAutomationStore() *InMemoryAutomationStore {
	return &InMemoryAutomationStore{
		automations: make(map[uuid.UUID]automation.Automation),
		runs:        make(map[uuid.UUID][]automation.RunResult),
	}
}

// Put validates and stores an automation definition, replacing any previous
// version under the same id
func (s *InMemoryAutomationStore) Put(auto automation.Automation) error {
	if err := auto.ValidateConfig(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.automations[auto.ID]; ok {
		// Statistics survive definition edits.
		auto.Statistics = existing.Statistics
	}
	s.automations[auto.ID] = auto
	return nil
}

// Delete removes an automation and its run history
func (s *InMemoryAutomationStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.automations, id)
	delete(s.runs, id)
}

// ListEnabled returns the enabled automations of a tenant
func (s *InMemoryAutomationStore) ListEnabled(ctx context.Context, tenantID uuid.UUID) ([]automation.Automation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]automation.Automation, 0)
	for _, auto := range s.automations {
		if auto.TenantID == tenantID && auto.Enabled {
			list = append(list, auto)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID.String() < list[j].ID.String()
	})
	return list, nil
}

// Get returns one automation by id
func (s *InMemoryAutomationStore) Get(ctx context.Context, id uuid.UUID) (*automation.Automation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	auto, ok := s.automations[id]
	if !ok {
		return nil, ErrAutomationNotFound
	}
	return &auto, nil
}

// RecordRun stores a finished run and folds it into the automation's
// statistics. Run history is bounded; the oldest runs fall off.
func (s *InMemoryAutomationStore) RecordRun(ctx context.Context, run *automation.RunResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.runs[run.AutomationID], *run)
	if len(history) > maxRunsPerAutomation {
		history = history[len(history)-maxRunsPerAutomation:]
	}
	s.runs[run.AutomationID] = history

	auto, ok := s.automations[run.AutomationID]
	if !ok {
		return nil
	}
	auto.Statistics.TotalRuns++
	if run.Succeeded() {
		auto.Statistics.SucceededRuns++
	} else {
		auto.Statistics.FailedRuns++
	}
	finished := run.FinishedAt
	auto.Statistics.LastRunAt = &finished
	started := run.StartedAt
	auto.Statistics.LastFiredAt = &started
	s.automations[run.AutomationID] = auto
	return nil
}

// ListRuns returns the most recent runs of an automation, newest first
func (s *InMemoryAutomationStore) ListRuns(automationID uuid.UUID, limit int) []automation.RunResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.runs[automationID]
	if limit <= 0 || limit > len(history) {
		limit = len(history)
	}
	out := make([]automation.RunResult, limit)
	for i := 0; i < limit; i++ {
		out[i] = history[len(history)-1-i]
	}
	return out
}

// GetAllActiveTenantIDs lists the tenants owning at least one enabled
// automation. The tick scheduler uses it to scope schedule evaluation.
func (s *InMemoryAutomationStore) GetAllActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[uuid.UUID]struct{})
	for _, auto := range s.automations {
		if auto.Enabled {
			seen[auto.TenantID] = struct{}{}
		}
	}
	ids := make([]uuid.UUID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

var (
	_ automation.Repository  = (*InMemoryAutomationStore)(nil)
	_ automation.RunRecorder = (*InMemoryAutomationStore)(nil)
)
