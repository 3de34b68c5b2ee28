package workflow

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Notifier receives an advisory notification after a successful
// transition. Delivery is not part of the transition's atomicity: a
// panicking or slow notifier must not be able to roll back a transition,
// so implementations should return quickly and never block.
type Notifier interface {
	TransitionApplied(shipment *Shipment, entry HistoryEntry)
}

// Engine validates and applies workflow transitions. Each shipment is
// serialized on its own mutex so the check-then-mutate-then-append
// sequence is a critical section even with concurrent callers.
type Engine struct {
	notifier Notifier

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewEngine creates a transition engine. notifier may be nil.
func NewEngine(notifier Notifier) *Engine {
	return &Engine{
		notifier: notifier,
		locks:    make(map[uuid.UUID]*sync.Mutex),
	}
}

func (e *Engine) lockFor(id uuid.UUID) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[id]
	if !ok {
		l = &sync.Mutex{}
		e.locks[id] = l
	}
	return l
}

// ApplyTransition moves shipment to targetState if actingRole is
// permitted to act at the shipment's current step and targetState is
// declared for the shipment's kind. On success the status is updated
// and a history entry appended in one critical section; on failure the
// shipment is left untouched.
//
// Any declared state is a legal target. Roles own the step they are at
// and decide where it goes next, including back to an earlier state;
// a regression is recorded as a forward transition like any other.
func (e *Engine) ApplyTransition(shipment *Shipment, targetState, actor string, actingRole Role, actionLabel string) error {
	l := e.lockFor(shipment.ID)
	l.Lock()
	defer l.Unlock()

	kind, err := shipment.ResolveKind()
	if err != nil {
		return fmt.Errorf("shipment %s status %q: %w", shipment.ID, shipment.Status, err)
	}

	current, _ := StepFor(kind, shipment.Status)
	if !current.AllowedRoles.Contains(actingRole) {
		return fmt.Errorf("role %s at step %s: %w", actingRole, current.ID, ErrUnauthorized)
	}

	if StepIndex(kind, targetState) < 0 {
		return fmt.Errorf("target %q for %s shipment: %w", targetState, kind, ErrInvalidState)
	}

	entry := HistoryEntry{
		State:     targetState,
		Timestamp: time.Now().UTC(),
		Actor:     actor,
		Role:      actingRole,
		Action:    actionLabel,
	}
	shipment.Status = targetState
	shipment.History = append(shipment.History, entry)
	shipment.UpdatedAt = entry.Timestamp

	if e.notifier != nil {
		e.notifier.TransitionApplied(shipment, entry)
	}
	return nil
}

// PermittedRoles returns the roles allowed to act at the shipment's
// current step
func (e *Engine) PermittedRoles(shipment *Shipment) (RoleSet, error) {
	step, err := shipment.CurrentStep()
	if err != nil {
		return nil, err
	}
	return step.AllowedRoles, nil
}
