// Package web serves the opportunity tracker as server-rendered HTML. Every
// request is decoded into a tracker.Action and rendered from scratch against
// the store. Successful form posts redirect back to the page (303) so a reload
// never submits twice; rejected input is answered with the page directly.
package web

import (
	"bytes"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/presales/internal/tracker"
	"github.com/mesh-intelligence/presales/internal/web/httpx"
	"github.com/mesh-intelligence/presales/pkg/types"
)

// Form field names shared with templates/page.html.
const (
	fieldSelected    = "selected"
	fieldClient      = "client"
	fieldScope       = "scope"
	fieldStatus      = "status"
	fieldPrice       = "price"
	fieldDescription = "description"
	fieldOp          = "op"

	// paramDone names the mutation that preceded a redirect.
	paramDone = "done"
)

// Edit form operations.
const (
	opUpdate = "update"
	opDelete = "delete"
)

type handler struct {
	store  types.Store
	logger *log.Logger
}

// NewHandler returns the web surface for store wrapped in the request ID,
// logging, and panic recovery middleware. A nil logger uses log.Default.
func NewHandler(store types.Store, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	h := &handler{store: store, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("POST /opportunities", h.add)
	mux.HandleFunc("POST /opportunities/{id}", h.modify)

	return httpx.Chain(mux,
		httpx.RequestID(),
		httpx.RequestLogger(logger),
		httpx.RecoverPanic(logger),
	)
}

// index renders the page, entering editing mode when ?selected names an ID.
// After a redirect, ?done (and ?client for adds) restores the confirmation.
func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	action := tracker.Refresh()
	if id, ok := selectedID(q.Get(fieldSelected)); ok {
		action = tracker.Select(id)
	}
	view, ok := h.render(w, r, tracker.Listing(), action)
	if !ok {
		return
	}
	if kind, ok := doneKind(q.Get(paramDone)); ok {
		view.Flash = tracker.Confirmation(kind, q.Get(fieldClient))
	}
	h.writePage(w, r, view)
}

func (h *handler) add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid form")
		return
	}
	state := tracker.Listing()
	if id, ok := selectedID(r.PostForm.Get(fieldSelected)); ok {
		state = tracker.Editing(id)
	}
	draft, err := decodeDraft(r)
	action := tracker.Add(draft)
	action.InputErr = err
	h.mutate(w, r, state, action)
}

func (h *handler) modify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid form")
		return
	}
	id, idErr := parseID(r.PathValue("id"))

	var action tracker.Action
	switch r.PostForm.Get(fieldOp) {
	case opUpdate:
		draft, err := decodeDraft(r)
		action = tracker.Update(id, draft)
		action.InputErr = firstErr(idErr, err)
	case opDelete:
		action = tracker.Delete(id)
		action.InputErr = idErr
	default:
		httpx.WriteError(w, http.StatusBadRequest, "unknown operation")
		return
	}
	h.mutate(w, r, tracker.Editing(id), action)
}

// mutate applies a form action. Rejected input is rendered in place so the
// submitted values can be echoed; anything else redirects to the page.
func (h *handler) mutate(w http.ResponseWriter, r *http.Request, state tracker.State, action tracker.Action) {
	view, ok := h.render(w, r, state, action)
	if !ok {
		return
	}
	if view.Flash.Kind == tracker.FlashError {
		h.writePage(w, r, view)
		return
	}
	http.Redirect(w, r, doneLocation(action, view.State), http.StatusSeeOther)
}

// render runs one pass of the presentation loop. On a storage error it logs,
// answers 500, and reports false.
func (h *handler) render(w http.ResponseWriter, r *http.Request, state tracker.State, action tracker.Action) (tracker.View, bool) {
	view, err := tracker.Render(h.store, state, action)
	if err != nil {
		h.logger.Printf("render failed action=%s request_id=%s err=%v",
			action.Kind, r.Header.Get(httpx.HeaderRequestID), err)
		httpx.WriteError(w, http.StatusInternalServerError, "")
		return tracker.View{}, false
	}
	return view, true
}

func (h *handler) writePage(w http.ResponseWriter, r *http.Request, view tracker.View) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, pageTemplate, view); err != nil {
		h.logger.Printf("template failed request_id=%s err=%v", r.Header.Get(httpx.HeaderRequestID), err)
		httpx.WriteError(w, http.StatusInternalServerError, "")
		return
	}
	if err := httpx.WriteHTML(w, http.StatusOK, buf.String()); err != nil {
		h.logger.Printf("write response failed request_id=%s err=%v", r.Header.Get(httpx.HeaderRequestID), err)
	}
}

// doneLocation is the page URL shown after action succeeded, keeping the
// selection of the next state.
func doneLocation(action tracker.Action, next tracker.State) string {
	q := url.Values{}
	q.Set(paramDone, action.Kind.String())
	if action.Kind == tracker.ActionAdd {
		q.Set(fieldClient, action.Draft.Client)
	}
	if next.Mode == tracker.ModeEditing {
		q.Set(fieldSelected, strconv.FormatInt(next.SelectedID, 10))
	}
	return "/?" + q.Encode()
}

// doneKind maps a ?done value back to the mutation it names.
func doneKind(s string) (tracker.ActionKind, bool) {
	for _, k := range []tracker.ActionKind{tracker.ActionAdd, tracker.ActionUpdate, tracker.ActionDelete} {
		if s == k.String() {
			return k, true
		}
	}
	return 0, false
}

// decodeDraft reads the opportunity fields of a submitted form. Text fields
// are kept verbatim; an unparsable price yields a zero price and an error.
func decodeDraft(r *http.Request) (types.Draft, error) {
	price, err := types.ParsePrice(r.PostForm.Get(fieldPrice))
	return types.Draft{
		Scope:       r.PostForm.Get(fieldScope),
		Client:      r.PostForm.Get(fieldClient),
		Description: r.PostForm.Get(fieldDescription),
		Price:       price,
		Status:      r.PostForm.Get(fieldStatus),
	}, err
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, types.NewValidationError("id", types.ErrInvalidID)
	}
	return id, nil
}

// selectedID reports the ID named by a picker value; empty or malformed
// values select nothing.
func selectedID(s string) (int64, bool) {
	id, err := parseID(s)
	return id, err == nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
