// Package dialog is the per-user conversational state machine.
// Transition and Resolve are pure: all I/O stays with the caller.
package dialog

import (
	"time"

	"github.com/chucky-1/expenses/internal/model"
)

type State int

const (
	Idle State = iota
	CollectName
	CollectDate
	CollectAmount
	CollectRange
	CollectDeleteID
	CollectUpdateID
	CollectNewName
	CollectNewAmount
)

// Form accumulates the fields of the flow in progress.
// A terminal transition back to Idle resets it to the zero value.
type Form struct {
	Name       string
	Date       time.Time
	Amount     float64
	RangeStart time.Time
	RangeEnd   time.Time
	TargetID   int64
	NewName    string
	NewAmount  float64
}

type Session struct {
	State State
	Form  Form
}

type EffectKind int

const (
	EffectCreate EffectKind = iota + 1
	EffectFetchRange
	EffectListForDelete
	EffectListForUpdate
	EffectFetchByID
	EffectDelete
	EffectUpdate
)

// Effect describes the single API call a completed form asks for
type Effect struct {
	Kind EffectKind
	Form Form
}

// Outcome is what the caller observed while executing an Effect
type Outcome struct {
	Failed   bool
	NotFound bool
	Expense  *model.Expense
	Expenses []model.Expense
}

// Report asks the caller to render and deliver a spreadsheet document
type Report struct {
	Rows       []model.Expense
	WithID     bool
	RangeStart time.Time
	RangeEnd   time.Time
}

// Step is everything the caller must do after a transition
type Step struct {
	Reply      string
	ShowMenu   bool
	RemoveMenu bool
	Effect     *Effect
	Report     *Report
}
