// Package tracker implements the presentation loop of the opportunity
// tracker. Render is called once per user interaction with the current State
// and the Action the user took; it applies the action through a types.Store,
// re-reads the whole table, and returns a fresh View together with the State
// to pass on the next call. Nothing is cached between calls.
package tracker

import "github.com/mesh-intelligence/presales/pkg/types"

// Mode is one of the two observable states of the loop.
type Mode int

const (
	// ModeListing shows the table and the creation form.
	ModeListing Mode = iota
	// ModeEditing additionally shows the edit/delete form for one row.
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeListing:
		return "listing"
	case ModeEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// State is the selection carried between renders.
type State struct {
	Mode       Mode
	SelectedID int64
}

// Listing returns the default state.
func Listing() State {
	return State{Mode: ModeListing}
}

// Editing returns the state with row id selected.
func Editing(id int64) State {
	return State{Mode: ModeEditing, SelectedID: id}
}

// ActionKind names a user interaction.
type ActionKind int

const (
	ActionView ActionKind = iota
	ActionSelect
	ActionAdd
	ActionUpdate
	ActionDelete
)

func (k ActionKind) String() string {
	switch k {
	case ActionView:
		return "view"
	case ActionSelect:
		return "select"
	case ActionAdd:
		return "add"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Action is one user interaction. ID is the target row for select, update,
// and delete; Draft carries the submitted fields for add and update.
//
// InputErr records a decoding failure upstream of Render (for example an
// unparsable price). Render treats it like a failed Draft validation.
type Action struct {
	Kind     ActionKind
	ID       int64
	Draft    types.Draft
	InputErr error
}

// Refresh re-renders without mutating anything.
func Refresh() Action { return Action{Kind: ActionView} }

// Select enters editing mode for id.
func Select(id int64) Action { return Action{Kind: ActionSelect, ID: id} }

// Add submits the creation form.
func Add(d types.Draft) Action { return Action{Kind: ActionAdd, Draft: d} }

// Update submits the edit form for id.
func Update(id int64, d types.Draft) Action { return Action{Kind: ActionUpdate, ID: id, Draft: d} }

// Delete submits the delete button for id.
func Delete(id int64) Action { return Action{Kind: ActionDelete, ID: id} }
