package web

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/presales/internal/sqlite"
	"github.com/mesh-intelligence/presales/pkg/types"
)

func setupStore(t *testing.T) *sqlite.Backend {
	t.Helper()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { _ = b.Detach() })
	return b
}

func seedStore(t *testing.T, b *sqlite.Backend, clients ...string) {
	t.Helper()
	for _, c := range clients {
		_, err := b.Create(types.Draft{
			Scope:  types.ScopePaper,
			Client: c,
			Price:  decimal.RequireFromString("1234.5"),
			Status: types.StatusDrafting,
		})
		require.NoError(t, err)
	}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func post(t *testing.T, h http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func quietLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.New(&buf, "", 0), &buf
}

func TestIndex(t *testing.T) {
	tests := []struct {
		name    string
		clients []string
		target  string
		want    []string
		notWant []string
	}{
		{
			name:    "empty table shows the info message",
			target:  "/",
			want:    []string{"No opportunities found. Add one using the sidebar.", "Add New Opportunity"},
			notWant: []string{"Current Opportunities"},
		},
		{
			name:    "rows are listed with formatted prices",
			clients: []string{"Acme", "Globex"},
			target:  "/",
			want:    []string{"Current Opportunities", "Acme", "Globex", "€ 1,234.50"},
			notWant: []string{`action="/opportunities/1"`},
		},
		{
			name:    "selected ID shows the edit form",
			clients: []string{"Acme"},
			target:  "/?selected=1",
			want:    []string{`action="/opportunities/1"`, `value="1234.50"`, `<option value="1" selected>`, "Editing Opportunity #1 - Acme"},
		},
		{
			name:    "malformed selection is ignored",
			clients: []string{"Acme"},
			target:  "/?selected=abc",
			notWant: []string{`action="/opportunities/1"`},
		},
		{
			name:    "vanished selection falls back to listing",
			clients: []string{"Acme"},
			target:  "/?selected=9",
			want:    []string{"Opportunity #9 no longer exists."},
			notWant: []string{`action="/opportunities/9"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := setupStore(t)
			seedStore(t, b, tt.clients...)
			logger, _ := quietLogger()

			rec := get(t, NewHandler(b, logger), tt.target)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
			body := rec.Body.String()
			for _, s := range tt.want {
				assert.Contains(t, body, s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, body, s)
			}
		})
	}
}

// page is the outcome of one form submission: the status of the POST, the
// redirect target if any, and the page finally shown.
type page struct {
	code     int
	location string
	body     string
}

// submit posts form and follows a 303 the way a browser would.
func submit(t *testing.T, h http.Handler, target string, form url.Values) page {
	t.Helper()
	rec := post(t, h, target, form)
	p := page{code: rec.Code, location: rec.Header().Get("Location"), body: rec.Body.String()}
	if rec.Code == http.StatusSeeOther {
		next := get(t, h, p.location)
		require.Equal(t, http.StatusOK, next.Code)
		p.body = next.Body.String()
	}
	return p
}

func TestAdd(t *testing.T) {
	tests := []struct {
		name  string
		seed  []string
		form  url.Values
		check func(t *testing.T, b *sqlite.Backend, p page)
	}{
		{
			name: "valid form creates a row and redirects",
			form: url.Values{
				"client":      {"Acme"},
				"scope":       {"IT Advisory"},
				"status":      {"Won"},
				"price":       {"99.90"},
				"description": {"audit"},
			},
			check: func(t *testing.T, b *sqlite.Backend, p page) {
				assert.Equal(t, http.StatusSeeOther, p.code)
				assert.Equal(t, "/?client=Acme&done=add", p.location)
				assert.Contains(t, p.body, "Added opportunity for Acme!")
				opps, err := b.ListAll()
				require.NoError(t, err)
				require.Len(t, opps, 1)
				assert.Equal(t, "audit", opps[0].Description)
				assert.True(t, decimal.RequireFromString("99.9").Equal(opps[0].Price))
			},
		},
		{
			name: "whitespace client is accepted",
			form: url.Values{"client": {"  "}, "scope": {"Paper"}, "status": {"Won"}},
			check: func(t *testing.T, b *sqlite.Backend, p page) {
				assert.Equal(t, http.StatusSeeOther, p.code)
				opps, err := b.ListAll()
				require.NoError(t, err)
				require.Len(t, opps, 1)
				assert.Equal(t, "  ", opps[0].Client)
			},
		},
		{
			name: "missing client is rejected inline",
			form: url.Values{"client": {""}, "scope": {"Paper"}, "status": {"Won"}, "description": {"keep me"}},
			check: func(t *testing.T, b *sqlite.Backend, p page) {
				assert.Equal(t, http.StatusOK, p.code)
				assert.Contains(t, p.body, "Client Name is required.")
				assert.Contains(t, p.body, "keep me", "submitted values are echoed")
				opps, err := b.ListAll()
				require.NoError(t, err)
				assert.Empty(t, opps)
			},
		},
		{
			name: "unparsable price is rejected inline",
			form: url.Values{"client": {"Acme"}, "scope": {"Paper"}, "status": {"Won"}, "price": {"lots"}},
			check: func(t *testing.T, b *sqlite.Backend, p page) {
				assert.Equal(t, http.StatusOK, p.code)
				assert.Contains(t, p.body, "Price must be a number.")
				assert.Contains(t, p.body, `value="Acme"`, "submitted values are echoed")
				opps, err := b.ListAll()
				require.NoError(t, err)
				assert.Empty(t, opps)
			},
		},
		{
			name: "selection survives an add",
			seed: []string{"Acme"},
			form: url.Values{"client": {"Initech"}, "scope": {"Paper"}, "status": {"Won"}, "selected": {"1"}},
			check: func(t *testing.T, b *sqlite.Backend, p page) {
				assert.Equal(t, "/?client=Initech&done=add&selected=1", p.location)
				assert.Contains(t, p.body, "Added opportunity for Initech!")
				assert.Contains(t, p.body, `action="/opportunities/1"`)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := setupStore(t)
			seedStore(t, b, tt.seed...)
			logger, _ := quietLogger()

			tt.check(t, b, submit(t, NewHandler(b, logger), "/opportunities", tt.form))
		})
	}
}

func TestModify(t *testing.T) {
	tests := []struct {
		name   string
		target string
		form   url.Values
		check  func(t *testing.T, b *sqlite.Backend, p page)
	}{
		{
			name:   "update changes exactly one row",
			target: "/opportunities/2",
			form:   url.Values{"op": {"update"}, "client": {"Globex Corp"}, "scope": {"Proposal"}, "status": {"Won"}, "price": {"10"}},
			check: func(t *testing.T, b *sqlite.Backend, p page) {
				assert.Equal(t, http.StatusSeeOther, p.code)
				assert.Equal(t, "/?done=update", p.location)
				assert.Contains(t, p.body, "Updated successfully!")
				assert.NotContains(t, p.body, `action="/opportunities/2"`)
				got, err := b.Get(2)
				require.NoError(t, err)
				assert.Equal(t, "Globex Corp", got.Client)
				other, err := b.Get(1)
				require.NoError(t, err)
				assert.Equal(t, "Acme", other.Client)
			},
		},
		{
			name:   "update may clear the client",
			target: "/opportunities/2",
			form:   url.Values{"op": {"update"}, "client": {""}, "scope": {"Proposal"}, "status": {"Won"}},
			check: func(t *testing.T, b *sqlite.Backend, p page) {
				assert.Equal(t, http.StatusSeeOther, p.code)
				assert.Contains(t, p.body, "Updated successfully!")
				got, err := b.Get(2)
				require.NoError(t, err)
				assert.Empty(t, got.Client)
			},
		},
		{
			name:   "unparsable price keeps the edit form",
			target: "/opportunities/2",
			form:   url.Values{"op": {"update"}, "client": {"Globex Ltd"}, "scope": {"Proposal"}, "status": {"Won"}, "price": {"abc"}},
			check: func(t *testing.T, b *sqlite.Backend, p page) {
				assert.Equal(t, http.StatusOK, p.code)
				assert.Contains(t, p.body, "Price must be a number.")
				assert.Contains(t, p.body, `action="/opportunities/2"`)
				assert.Contains(t, p.body, "Editing Opportunity #2 - Globex Ltd")
				got, err := b.Get(2)
				require.NoError(t, err)
				assert.Equal(t, "Globex", got.Client)
			},
		},
		{
			name:   "delete removes the row",
			target: "/opportunities/1",
			form:   url.Values{"op": {"delete"}},
			check: func(t *testing.T, b *sqlite.Backend, p page) {
				assert.Equal(t, http.StatusSeeOther, p.code)
				assert.Equal(t, "/?done=delete", p.location)
				assert.Contains(t, p.body, "Deleted successfully!")
				_, err := b.Get(1)
				assert.ErrorIs(t, err, types.ErrNotFound)
			},
		},
		{
			name:   "malformed ID is a validation error",
			target: "/opportunities/zero",
			form:   url.Values{"op": {"delete"}},
			check: func(t *testing.T, b *sqlite.Backend, p page) {
				assert.Equal(t, http.StatusOK, p.code)
				assert.Contains(t, p.body, "Select a valid opportunity ID.")
				opps, err := b.ListAll()
				require.NoError(t, err)
				assert.Len(t, opps, 2)
			},
		},
		{
			name:   "unknown operation is a bad request",
			target: "/opportunities/1",
			form:   url.Values{"op": {"archive"}},
			check: func(t *testing.T, b *sqlite.Backend, p page) {
				assert.Equal(t, http.StatusBadRequest, p.code)
				opps, err := b.ListAll()
				require.NoError(t, err)
				assert.Len(t, opps, 2)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := setupStore(t)
			seedStore(t, b, "Acme", "Globex")
			logger, _ := quietLogger()

			tt.check(t, b, submit(t, NewHandler(b, logger), tt.target, tt.form))
		})
	}
}

func TestReloadAfterAddDoesNotResubmit(t *testing.T) {
	b := setupStore(t)
	logger, _ := quietLogger()
	h := NewHandler(b, logger)

	p := submit(t, h, "/opportunities", url.Values{"client": {"Acme"}, "scope": {"Paper"}, "status": {"Won"}})
	require.Equal(t, http.StatusSeeOther, p.code)

	// Reloading the page the browser landed on issues the GET again.
	again := get(t, h, p.location)
	assert.Equal(t, http.StatusOK, again.Code)

	opps, err := b.ListAll()
	require.NoError(t, err)
	assert.Len(t, opps, 1)
}

func TestIndexIgnoresUnknownDone(t *testing.T) {
	b := setupStore(t)
	seedStore(t, b, "Acme")
	logger, _ := quietLogger()

	body := get(t, NewHandler(b, logger), "/?done=select").Body.String()
	assert.NotContains(t, body, "successfully")
	assert.NotContains(t, body, `class="flash`)
}

func TestUnknownRoutes(t *testing.T) {
	b := setupStore(t)
	logger, _ := quietLogger()
	h := NewHandler(b, logger)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/missing").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, get(t, h, "/opportunities").Code)
}

// brokenStore fails every call with a storage error.
type brokenStore struct{}

var errBroken = &types.StorageError{Op: "open", Err: errors.New("disk gone")}

func (brokenStore) Initialize() error                     { return errBroken }
func (brokenStore) Create(types.Draft) (int64, error)     { return 0, errBroken }
func (brokenStore) ListAll() ([]types.Opportunity, error) { return nil, errBroken }
func (brokenStore) Get(int64) (types.Opportunity, error)  { return types.Opportunity{}, errBroken }
func (brokenStore) Update(int64, types.Draft) error       { return errBroken }
func (brokenStore) Delete(int64) error                    { return errBroken }

func TestStorageFailureIsServerError(t *testing.T) {
	logger, buf := quietLogger()
	rec := get(t, NewHandler(brokenStore{}, logger), "/")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "render failed action=view")
	assert.Contains(t, buf.String(), "disk gone")
	assert.Contains(t, buf.String(), "status=500")
}
