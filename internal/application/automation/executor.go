package automation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/commercehub/backend/internal/domain/automation"
	"github.com/commercehub/backend/internal/domain/platform"
)

const (
	// DefaultActionTimeout bounds a single attempt when the action does not
	// set its own timeout
	DefaultActionTimeout = 30 * time.Second
	// defaultRetryDelay is the pause between retry attempts
	defaultRetryDelay = 500 * time.Millisecond
)

// ActionChainExecutor runs an automation's action chain: actions execute in
// ascending order, parallel actions of one order group run concurrently, and
// conditional_branch actions route the chain. Every run produces a flat
// execution log.
type ActionChainExecutor struct {
	handlers      *HandlerRegistry
	logger        *zap.Logger
	actionTimeout time.Duration
	retryDelay    time.Duration
}

// ExecutorOption is a functional option for the executor
type ExecutorOption func(*ActionChainExecutor)

// WithActionTimeout overrides the default per-attempt timeout
func WithActionTimeout(d time.Duration) ExecutorOption {
	return func(e *ActionChainExecutor) {
		e.actionTimeout = d
	}
}

// WithRetryDelay overrides the pause between retry attempts
func WithRetryDelay(d time.Duration) ExecutorOption {
	return func(e *ActionChainExecutor) {
		e.retryDelay = d
	}
}

// NewActionChainExecutor creates an executor backed by the handler registry
func NewActionChainExecutor(handlers *HandlerRegistry, logger *zap.Logger, opts ...ExecutorOption) *ActionChainExecutor {
	e := &ActionChainExecutor{
		handlers:      handlers,
		logger:        logger,
		actionTimeout: DefaultActionTimeout,
		retryDelay:    defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the automation's action chain to completion. The returned
// RunResult always covers every chain action: executed actions carry their
// terminal status, actions the run never reached are logged as skipped.
func (e *ActionChainExecutor) Execute(ctx context.Context, exec *ExecutionContext) *automation.RunResult {
	run := &automation.RunResult{
		RunID:        uuid.New(),
		AutomationID: exec.Automation.ID,
		TenantID:     exec.TenantID,
		StartedAt:    time.Now(),
	}
	defer func() { run.FinishedAt = time.Now() }()

	ordered := sortedChain(exec.Automation.ActionChain)
	position := make(map[string]int, len(ordered))
	for i, a := range ordered {
		position[a.ActionID] = i
	}
	executed := make(map[string]bool, len(ordered))
	// batched holds actions already run as later members of a parallel
	// batch; the walk passes over each of them exactly once.
	batched := make(map[string]bool)

	i := 0
	for i < len(ordered) {
		if err := ctx.Err(); err != nil {
			e.halt(run, ordered, executed, automation.ErrRunCancelled)
			return run
		}

		action := ordered[i]

		if batched[action.ActionID] {
			delete(batched, action.ActionID)
			i++
			continue
		}

		// An action id seen twice within one run means the branch graph
		// loops. Fatal: halt the run rather than spin.
		if executed[action.ActionID] {
			e.halt(run, ordered, executed, fmt.Errorf("%w: %q", automation.ErrCycleDetected, action.ActionID))
			return run
		}

		if action.ActionType == automation.ActionTypeConditionalBranch {
			next, halted := e.runBranch(run, exec, ordered, position, executed, i)
			if halted {
				return run
			}
			i = next
			continue
		}

		if action.RunParallel {
			group := parallelGroup(ordered, i, executed)
			if halted := e.runParallelGroup(ctx, run, exec, group, executed); halted {
				e.halt(run, ordered, executed, nil)
				return run
			}
			for _, member := range group[1:] {
				batched[member.ActionID] = true
			}
			i++
			continue
		}

		entry := e.runAction(ctx, exec, action)
		executed[action.ActionID] = true
		run.Entries = append(run.Entries, entry)
		if entry.Status == automation.ActionStatusFailed && !action.ContinueOnFailure {
			e.halt(run, ordered, executed, nil)
			return run
		}
		i++
	}
	return run
}

// runBranch evaluates a conditional_branch action and returns the position
// execution continues from. The branch itself is logged like any action.
func (e *ActionChainExecutor) runBranch(
	run *automation.RunResult,
	exec *ExecutionContext,
	ordered []automation.Action,
	position map[string]int,
	executed map[string]bool,
	i int,
) (int, bool) {
	action := ordered[i]
	started := time.Now()
	executed[action.ActionID] = true

	branch, err := exec.Automation.BranchFor(action.ActionID)
	var target string
	var taken bool
	if err == nil {
		target, taken, err = automation.EvaluateBranch(*branch, exec.EventCtx)
	}
	if err != nil {
		run.Entries = append(run.Entries, automation.ActionLogEntry{
			ActionID: action.ActionID,
			Status:   automation.ActionStatusFailed,
			Attempts: 1,
			Duration: time.Since(started),
			Error:    err.Error(),
		})
		if action.ContinueOnFailure {
			return i + 1, false
		}
		e.halt(run, ordered, executed, nil)
		return 0, true
	}

	run.Entries = append(run.Entries, automation.ActionLogEntry{
		ActionID: action.ActionID,
		Status:   automation.ActionStatusSucceeded,
		Attempts: 1,
		Duration: time.Since(started),
	})

	if !taken {
		// Empty false side: fall through to the next action.
		return i + 1, false
	}

	next, ok := position[target]
	if !ok {
		e.halt(run, ordered, executed, fmt.Errorf("%w: %q", automation.ErrBranchTargetMissing, target))
		return 0, true
	}

	// A forward jump routes around the actions in between; log them as
	// skipped so the run log stays complete.
	for j := i + 1; j < next; j++ {
		if executed[ordered[j].ActionID] {
			continue
		}
		executed[ordered[j].ActionID] = true
		run.Entries = append(run.Entries, automation.ActionLogEntry{
			ActionID: ordered[j].ActionID,
			Status:   automation.ActionStatusSkipped,
		})
	}
	return next, false
}

// runParallelGroup runs a batch of same-order parallel actions concurrently
// and reports whether a failure without continue_on_failure halts the chain.
// All actions of the group run to completion before the verdict.
func (e *ActionChainExecutor) runParallelGroup(
	ctx context.Context,
	run *automation.RunResult,
	exec *ExecutionContext,
	group []automation.Action,
	executed map[string]bool,
) bool {
	entries := make([]automation.ActionLogEntry, len(group))

	var g errgroup.Group
	for i, action := range group {
		g.Go(func() error {
			entries[i] = e.runAction(ctx, exec, action)
			return nil
		})
	}
	_ = g.Wait()

	halt := false
	for i, action := range group {
		executed[action.ActionID] = true
		run.Entries = append(run.Entries, entries[i])
		if entries[i].Status == automation.ActionStatusFailed && !action.ContinueOnFailure {
			halt = true
		}
	}
	return halt
}

// runAction executes one action with retries and a per-attempt deadline
func (e *ActionChainExecutor) runAction(ctx context.Context, exec *ExecutionContext, action automation.Action) automation.ActionLogEntry {
	started := time.Now()
	entry := automation.ActionLogEntry{ActionID: action.ActionID}

	handler, err := e.handlers.Get(action.ActionType)
	if err != nil {
		entry.Status = automation.ActionStatusFailed
		entry.Attempts = 1
		entry.Duration = time.Since(started)
		entry.Error = err.Error()
		return entry
	}

	maxAttempts := 1
	if action.RetryOnFailure && action.MaxRetries > 0 {
		maxAttempts = 1 + action.MaxRetries
	}
	timeout := e.actionTimeout
	if action.TimeoutSeconds > 0 {
		timeout = time.Duration(action.TimeoutSeconds) * time.Second
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		entry.Attempts = attempt

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = handler.Execute(attemptCtx, exec, action)
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && lastErr != nil {
			lastErr = fmt.Errorf("%w: %v", automation.ErrActionTimeout, lastErr)
		}
		cancel()

		if lastErr == nil {
			break
		}

		// A cancelled run must not keep retrying, and neither must errors
		// the taxonomy marks terminal.
		if !retryable(lastErr) || ctx.Err() != nil {
			break
		}
		if attempt < maxAttempts {
			e.logger.Debug("retrying action",
				zap.String("action_id", action.ActionID),
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
			select {
			case <-time.After(e.retryDelay):
			case <-ctx.Done():
			}
		}
	}

	entry.Duration = time.Since(started)
	if lastErr != nil {
		entry.Status = automation.ActionStatusFailed
		entry.Error = lastErr.Error()
	} else {
		entry.Status = automation.ActionStatusSucceeded
	}
	return entry
}

// retryable reports whether a failed attempt is worth another try. Config
// errors cannot succeed on retry, and platform rejections follow the adapter
// error taxonomy: only rate limits and server-side failures are retryable.
// Transport failures, timeouts, and unclassified handler errors get the
// retry budget.
func retryable(err error) bool {
	if errors.Is(err, automation.ErrConfigInvalid) {
		return false
	}
	var apiErr *platform.APIError
	if errors.As(err, &apiErr) {
		return platform.IsRetryable(err)
	}
	return true
}

// halt marks every not-yet-executed action skipped and finalizes the run.
// fatal, when set, becomes the run's first error; otherwise the first failed
// entry's error is promoted.
func (e *ActionChainExecutor) halt(run *automation.RunResult, ordered []automation.Action, executed map[string]bool, fatal error) {
	for _, action := range ordered {
		if executed[action.ActionID] {
			continue
		}
		executed[action.ActionID] = true
		run.Entries = append(run.Entries, automation.ActionLogEntry{
			ActionID: action.ActionID,
			Status:   automation.ActionStatusSkipped,
		})
	}
	run.Halted = true
	if fatal != nil {
		run.FirstError = fatal.Error()
		return
	}
	for _, entry := range run.Entries {
		if entry.Status == automation.ActionStatusFailed {
			run.FirstError = entry.Error
			return
		}
	}
}

// parallelGroup collects every not-yet-executed parallel action sharing the
// order group of ordered[i], starting with ordered[i] itself. Sequential
// actions interleaved in the declaration do not split the batch.
func parallelGroup(ordered []automation.Action, i int, executed map[string]bool) []automation.Action {
	group := make([]automation.Action, 0, 2)
	for j := i; j < len(ordered); j++ {
		a := ordered[j]
		if a.Order != ordered[i].Order {
			break
		}
		if !a.RunParallel || a.ActionType == automation.ActionTypeConditionalBranch || executed[a.ActionID] {
			continue
		}
		group = append(group, a)
	}
	return group
}

// sortedChain returns the chain stably sorted by ascending order group,
// preserving declared order within a group
func sortedChain(chain []automation.Action) []automation.Action {
	ordered := make([]automation.Action, len(chain))
	copy(ordered, chain)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})
	return ordered
}
