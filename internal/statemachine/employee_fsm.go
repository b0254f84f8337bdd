package statemachine

import (
	"context"
	"fmt"
	"time"

	"github.com/looplab/fsm"
	"github.com/mitrahse/vendorhr-api/internal/models"
)

// Employee lifecycle events
const (
	EventDeactivate = "deactivate"
	EventReactivate = "reactivate"
)

// EmployeeFSM wraps an employee with its active/non-active state machine
type EmployeeFSM struct {
	employee *models.Employee
	fsm      *fsm.FSM
}

// NewEmployeeFSM creates a new employee state machine
func NewEmployeeFSM(employee *models.Employee) *EmployeeFSM {
	efsm := &EmployeeFSM{
		employee: employee,
	}

	status := employee.Status
	if status == "" {
		status = models.EmployeeStatusActive
	}

	efsm.fsm = fsm.NewFSM(
		status,
		fsm.Events{
			// active → na
			{Name: EventDeactivate, Src: []string{models.EmployeeStatusActive}, Dst: models.EmployeeStatusNA},

			// na → active
			{Name: EventReactivate, Src: []string{models.EmployeeStatusNA}, Dst: models.EmployeeStatusActive},
		},
		fsm.Callbacks{
			"enter_" + models.EmployeeStatusNA: func(_ context.Context, e *fsm.Event) {
				now := time.Now()
				efsm.employee.DeactivatedAt = &now
			},
			"enter_" + models.EmployeeStatusActive: func(_ context.Context, e *fsm.Event) {
				efsm.employee.DeactivatedAt = nil
			},
		},
	)

	return efsm
}

// Deactivate marks the employee non-active
func (e *EmployeeFSM) Deactivate(ctx context.Context) error {
	if err := e.fsm.Event(ctx, EventDeactivate); err != nil {
		return fmt.Errorf("employee cannot be deactivated in current state %s: %w", e.employee.Status, err)
	}
	e.employee.Status = e.fsm.Current()
	return nil
}

// Reactivate returns a non-active employee to the active list
func (e *EmployeeFSM) Reactivate(ctx context.Context) error {
	if err := e.fsm.Event(ctx, EventReactivate); err != nil {
		return fmt.Errorf("employee cannot be reactivated in current state %s: %w", e.employee.Status, err)
	}
	e.employee.Status = e.fsm.Current()
	return nil
}

// Current returns the current state
func (e *EmployeeFSM) Current() string {
	return e.fsm.Current()
}

// Can checks if a transition is possible
func (e *EmployeeFSM) Can(event string) bool {
	return e.fsm.Can(event)
}
