package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
)

// Route guard states
const (
	GuardChecking     = "checking"
	GuardAuthorized   = "authorized"
	GuardUnauthorized = "unauthorized"
)

// Route guard events
const (
	EventGrant = "grant"
	EventDeny  = "deny"
)

// GuardFSM is the checking → authorized | unauthorized state machine of a
// route guard. Both outcomes are terminal; each check uses a fresh machine.
type GuardFSM struct {
	fsm *fsm.FSM
}

// NewGuardFSM creates a guard state machine in the checking state
func NewGuardFSM() *GuardFSM {
	return &GuardFSM{
		fsm: fsm.NewFSM(
			GuardChecking,
			fsm.Events{
				{Name: EventGrant, Src: []string{GuardChecking}, Dst: GuardAuthorized},
				{Name: EventDeny, Src: []string{GuardChecking}, Dst: GuardUnauthorized},
			},
			fsm.Callbacks{},
		),
	}
}

// Grant moves checking → authorized
func (g *GuardFSM) Grant(ctx context.Context) error {
	if err := g.fsm.Event(ctx, EventGrant); err != nil {
		return fmt.Errorf("guard cannot authorize from %s: %w", g.fsm.Current(), err)
	}
	return nil
}

// Deny moves checking → unauthorized
func (g *GuardFSM) Deny(ctx context.Context) error {
	if err := g.fsm.Event(ctx, EventDeny); err != nil {
		return fmt.Errorf("guard cannot deny from %s: %w", g.fsm.Current(), err)
	}
	return nil
}

// Current returns the current state
func (g *GuardFSM) Current() string {
	return g.fsm.Current()
}
