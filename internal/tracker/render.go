package tracker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/presales/pkg/types"
)

// User-facing messages.
const (
	msgAdded        = "Added opportunity for %s!"
	msgUpdated      = "Updated successfully!"
	msgDeleted      = "Deleted successfully!"
	msgEmpty        = "No opportunities found. Add one using the sidebar."
	msgNotFound     = "Opportunity #%d no longer exists."
	msgClientNeeded = "Client Name is required."
)

// FlashKind classifies the one-line message shown after an interaction.
type FlashKind int

const (
	FlashNone FlashKind = iota
	FlashSuccess
	FlashError
	FlashWarning
	FlashInfo
)

func (k FlashKind) String() string {
	switch k {
	case FlashSuccess:
		return "success"
	case FlashError:
		return "error"
	case FlashWarning:
		return "warning"
	case FlashInfo:
		return "info"
	default:
		return ""
	}
}

// Flash is the message produced by the last interaction.
type Flash struct {
	Kind FlashKind
	Text string
}

// Row is one opportunity as the listing table shows it.
type Row struct {
	ID          int64
	Scope       string
	Client      string
	Description string
	Price       string
	Status      string
}

// Form holds the values a form is pre-filled with. Price is formatted for a
// numeric input with two decimals.
type Form struct {
	ID          int64
	Scope       string
	Client      string
	Description string
	Price       string
	Status      string
}

// View is everything needed to draw one page.
type View struct {
	// State is the state to pass to the next Render call.
	State State
	Flash Flash

	Rows  []Row
	IDs   []int64
	Empty bool

	// Create pre-fills the sidebar creation form.
	Create Form
	// Edit pre-fills the edit/delete form; nil unless State is editing.
	Edit *Form

	ScopeOptions  []string
	StatusOptions []string
}

// Render applies action to store, then re-reads every row and rebuilds the
// view from scratch. A storage error from any call aborts the render and is
// returned as is; validation failures become an error flash and leave the
// store untouched.
func Render(store types.Store, state State, action Action) (View, error) {
	var (
		next   = state
		flash  Flash
		create = blankForm()
		echo   *Form
	)

	switch action.Kind {
	case ActionView:
	case ActionSelect:
		next = Editing(action.ID)
	case ActionAdd:
		if err := checkInput(action); err != nil {
			flash = errorFlash(err)
			create = draftForm(0, action.Draft)
			break
		}
		if _, err := store.Create(action.Draft); err != nil {
			return View{}, err
		}
		flash = Confirmation(ActionAdd, action.Draft.Client)
	case ActionUpdate:
		// The edit form has no required fields; only undecodable input is
		// refused.
		if action.InputErr != nil {
			flash = errorFlash(action.InputErr)
			next = Editing(action.ID)
			f := draftForm(action.ID, action.Draft)
			echo = &f
			break
		}
		if err := store.Update(action.ID, action.Draft); err != nil {
			return View{}, err
		}
		flash = Confirmation(ActionUpdate, "")
		next = Listing()
	case ActionDelete:
		if action.InputErr != nil {
			flash = errorFlash(action.InputErr)
			next = Listing()
			break
		}
		if err := store.Delete(action.ID); err != nil {
			return View{}, err
		}
		flash = Confirmation(ActionDelete, "")
		next = Listing()
	default:
		return View{}, fmt.Errorf("render: unknown action %d", action.Kind)
	}

	opps, err := store.ListAll()
	if err != nil {
		return View{}, err
	}

	view := View{
		Flash:         flash,
		Rows:          make([]Row, 0, len(opps)),
		IDs:           make([]int64, 0, len(opps)),
		Empty:         len(opps) == 0,
		Create:        create,
		ScopeOptions:  types.ScopeOptions,
		StatusOptions: types.StatusOptions,
	}
	var selected *types.Opportunity
	for i, o := range opps {
		view.Rows = append(view.Rows, Row{
			ID:          o.ID,
			Scope:       o.Scope,
			Client:      o.Client,
			Description: o.Description,
			Price:       FormatPrice(o.Price),
			Status:      o.Status,
		})
		view.IDs = append(view.IDs, o.ID)
		if next.Mode == ModeEditing && o.ID == next.SelectedID {
			selected = &opps[i]
		}
	}

	switch {
	case next.Mode != ModeEditing:
	case selected == nil:
		if view.Flash.Kind == FlashNone {
			view.Flash = Flash{Kind: FlashInfo, Text: fmt.Sprintf(msgNotFound, next.SelectedID)}
		}
		next = Listing()
	case echo != nil:
		view.Edit = echo
	default:
		f := editForm(*selected)
		view.Edit = &f
	}
	if view.Empty && view.Flash.Kind == FlashNone {
		view.Flash = Flash{Kind: FlashInfo, Text: msgEmpty}
	}

	view.State = next
	return view, nil
}

// Confirmation returns the flash shown after a successful mutation of the
// given kind. client names the created opportunity for ActionAdd. Other kinds
// yield the zero Flash.
func Confirmation(kind ActionKind, client string) Flash {
	switch kind {
	case ActionAdd:
		return Flash{Kind: FlashSuccess, Text: fmt.Sprintf(msgAdded, client)}
	case ActionUpdate:
		return Flash{Kind: FlashSuccess, Text: msgUpdated}
	case ActionDelete:
		return Flash{Kind: FlashWarning, Text: msgDeleted}
	default:
		return Flash{}
	}
}

// checkInput returns the decoding error carried by action, or the result of
// validating its draft.
func checkInput(action Action) error {
	if action.InputErr != nil {
		return action.InputErr
	}
	return action.Draft.Validate()
}

func errorFlash(err error) Flash {
	return Flash{Kind: FlashError, Text: Message(err)}
}

// Message turns a validation error into the text shown next to the form.
func Message(err error) string {
	switch {
	case errors.Is(err, types.ErrClientRequired):
		return msgClientNeeded
	case errors.Is(err, types.ErrInvalidScope):
		return "Scope must be one of " + strings.Join(types.ScopeOptions, ", ") + "."
	case errors.Is(err, types.ErrInvalidStatus):
		return "Status must be one of " + strings.Join(types.StatusOptions, ", ") + "."
	case errors.Is(err, types.ErrNegativePrice):
		return "Price must not be negative."
	case errors.Is(err, types.ErrInvalidPrice):
		return "Price must be a number."
	case errors.Is(err, types.ErrInvalidID):
		return "Select a valid opportunity ID."
	default:
		return err.Error()
	}
}

func blankForm() Form {
	return Form{
		Scope:  types.ScopeOptions[0],
		Status: types.StatusOptions[0],
		Price:  "0.00",
	}
}

func draftForm(id int64, d types.Draft) Form {
	return Form{
		ID:          id,
		Scope:       d.Scope,
		Client:      d.Client,
		Description: d.Description,
		Price:       inputPrice(d.Price),
		Status:      d.Status,
	}
}

// editForm pre-fills the edit form from a stored row. Values outside the
// option sets fall back to the first option, as a select widget would.
func editForm(o types.Opportunity) Form {
	f := draftForm(o.ID, o.Draft())
	if !types.ValidScope(f.Scope) {
		f.Scope = types.ScopeOptions[0]
	}
	if !types.ValidStatus(f.Status) {
		f.Status = types.StatusOptions[0]
	}
	return f
}
