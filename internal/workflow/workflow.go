// Package workflow drives the multi-step tab creation: customer info, location, submission.
package workflow

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"comanda-dashboard-backend/internal/model"
)

// Step is a state of the creation workflow.
type Step string

const (
	StepCustomerInfo Step = "collecting-customer-info"
	StepLocation     Step = "collecting-location"
	StepSubmitting   Step = "submitting"
	StepDone         Step = "done"
	StepFailed       Step = "failed"
)

// Tables is the part of the table store the workflow needs.
type Tables interface {
	Tables() []model.Table
	FetchAll(ctx context.Context) model.Lifecycle
}

// Tabs is the part of the tab store the workflow needs.
type Tabs interface {
	Tabs() []model.Tab
	CreateOne(ctx context.Context, in model.NewTab) (model.Tab, error)
}

// Snapshot is the observable state of a workflow.
type Snapshot struct {
	Step        Step         `json:"step"`
	Customer    CustomerInfo `json:"customer"`
	TableNumber string       `json:"tableNumber"`
	Preselected string       `json:"preselectedTable,omitempty"`
	Created     *model.Tab   `json:"created,omitempty"`
	Error       string       `json:"error,omitempty"`
	ErrorField  string       `json:"errorField,omitempty"`
}

// Workflow is one tab-creation session. It is safe for concurrent use; a submission in flight
// holds no lock, so a cancel can land while it runs and its result is then ignored.
type Workflow struct {
	tables Tables
	tabs   Tabs
	logger *zap.Logger

	mu          sync.Mutex
	step        Step
	customer    CustomerInfo
	table       string
	preselected string
	created     *model.Tab
	errMsg      string
	errField    string
	gen         uint64
}

// New starts a workflow. preselectedTable is kept across resets when the workflow was launched
// from a specific table.
func New(tables Tables, tabs Tabs, preselectedTable string, logger *zap.Logger) *Workflow {
	w := &Workflow{
		tables:      tables,
		tabs:        tabs,
		logger:      logger,
		preselected: strings.TrimSpace(preselectedTable),
	}
	w.reset()
	return w
}

// reset must be called with w.mu held.
func (w *Workflow) reset() {
	w.step = StepCustomerInfo
	w.customer = CustomerInfo{}
	w.table = w.preselected
	w.errMsg = ""
	w.errField = ""
	w.gen++
}

// Snapshot returns the current state.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Snapshot{
		Step:        w.step,
		Customer:    w.customer,
		TableNumber: w.table,
		Preselected: w.preselected,
		Created:     w.created,
		Error:       w.errMsg,
		ErrorField:  w.errField,
	}
}

// SubmitCustomer records the customer info and moves to the location step. An attendant name
// shorter than MinAttendantLength keeps the workflow where it is.
func (w *Workflow) SubmitCustomer(info CustomerInfo) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step == StepSubmitting {
		return ErrWrongStep
	}
	if w.step == StepDone || w.step == StepFailed {
		w.reset()
	}

	w.customer = info
	if err := fromValidation(info.Validate()); err != nil {
		w.step = StepCustomerInfo
		w.setError(err)
		return err
	}
	w.clearError()
	w.step = StepLocation
	return nil
}

// SelectLocation records the table selection.
func (w *Workflow) SelectLocation(loc Location) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepLocation {
		return ErrWrongStep
	}
	loc.TableNumber = strings.TrimSpace(loc.TableNumber)
	w.table = loc.TableNumber
	if err := fromValidation(loc.Validate()); err != nil {
		w.setError(err)
		return err
	}
	w.clearError()
	return nil
}

// Submit validates the target table against the current collections and, when it passes, creates
// the tab and refreshes the table collection. Rejections return the workflow to the location step
// without any remote call.
func (w *Workflow) Submit(ctx context.Context) (model.Tab, error) {
	w.mu.Lock()
	if w.step != StepLocation {
		w.mu.Unlock()
		return model.Tab{}, ErrWrongStep
	}
	loc := Location{TableNumber: w.table}
	if err := fromValidation(loc.Validate()); err != nil {
		w.setError(err)
		w.mu.Unlock()
		return model.Tab{}, err
	}

	w.step = StepSubmitting
	if err := CheckTarget(w.tables.Tables(), w.tabs.Tabs(), w.table); err != nil {
		w.step = StepLocation
		w.setError(err)
		w.mu.Unlock()
		return model.Tab{}, err
	}

	in := model.NewTab{
		DisplayID:     strings.TrimSpace(w.customer.DisplayID),
		CustomerName:  strings.TrimSpace(w.customer.CustomerName),
		Phone:         strings.TrimSpace(w.customer.Phone),
		TableNumber:   w.table,
		CustomerCount: w.customer.CustomerCount,
		Attendant:     strings.TrimSpace(w.customer.Attendant),
	}
	gen := w.gen
	w.mu.Unlock()

	tab, err := w.tabs.CreateOne(ctx, in)
	if err != nil {
		w.logger.Warn("tab creation failed", zap.String("table", in.TableNumber), zap.Error(err))
		w.finish(gen, func() {
			w.step = StepFailed
			w.errMsg = "could not create tab"
			w.errField = ""
		})
		return model.Tab{}, err
	}

	w.tables.FetchAll(ctx)

	w.finish(gen, func() {
		w.reset()
		w.step = StepDone
		w.created = &tab
	})
	return tab, nil
}

// finish applies a submission result unless the workflow was cancelled or reset meanwhile.
func (w *Workflow) finish(gen uint64, apply func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.gen {
		w.logger.Debug("ignoring stale submission result")
		return
	}
	apply()
}

// Cancel discards all local input. Nothing is sent to the remote boundary; a submission already in
// flight completes remotely but its result is ignored.
func (w *Workflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reset()
	w.created = nil
}

func (w *Workflow) setError(err error) {
	w.errField = ""
	switch e := err.(type) {
	case *ValidationError:
		w.errField = e.Field
		w.errMsg = e.Message
	case *RejectionError:
		w.errMsg = e.Message
	default:
		w.errMsg = err.Error()
	}
}

func (w *Workflow) clearError() {
	w.errMsg = ""
	w.errField = ""
}
