package types

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Scope values. The set is closed; the UI and CLI only offer these.
const (
	ScopeProposal   = "Proposal"
	ScopePaper      = "Paper"
	ScopeITAdvisory = "IT Advisory"
)

// Status values, in pipeline order.
const (
	StatusQualifying  = "Qualifying"
	StatusDrafting    = "Drafting"
	StatusDelivered   = "Delivered"
	StatusNegotiating = "Negotiating"
	StatusWon         = "Won"
	StatusLost        = "Lost"
	StatusNotPursued  = "Not Pursued"
)

// ScopeOptions lists the scope values in display order.
var ScopeOptions = []string{
	ScopeProposal,
	ScopePaper,
	ScopeITAdvisory,
}

// StatusOptions lists the status values in display order.
var StatusOptions = []string{
	StatusQualifying,
	StatusDrafting,
	StatusDelivered,
	StatusNegotiating,
	StatusWon,
	StatusLost,
	StatusNotPursued,
}

// Opportunity is one tracked pre-sales record.
type Opportunity struct {
	ID          int64           `json:"id"`
	Scope       string          `json:"scope"`
	Client      string          `json:"client"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Status      string          `json:"status"`
}

// Draft returns the mutable fields of o.
func (o Opportunity) Draft() Draft {
	return Draft{
		Scope:       o.Scope,
		Client:      o.Client,
		Description: o.Description,
		Price:       o.Price,
		Status:      o.Status,
	}
}

// Draft holds the mutable fields of an opportunity about to be created or
// updated. Stores persist drafts verbatim; Validate is the caller's job.
type Draft struct {
	Scope       string
	Client      string
	Description string
	Price       decimal.Decimal
	Status      string
}

// Validate reports the first field that the creation form would reject.
// The client must be non-empty; whitespace counts as a value.
// The returned error is a *ValidationError.
func (d Draft) Validate() error {
	if d.Client == "" {
		return NewValidationError("client", ErrClientRequired)
	}
	return d.ValidateChoices()
}

// ValidateChoices checks the fields a form widget constrains: scope and
// status against their option sets and a non-negative price. It does not
// require a client, so it also serves edits of existing rows.
func (d Draft) ValidateChoices() error {
	if !ValidScope(d.Scope) {
		return NewValidationError("scope", ErrInvalidScope)
	}
	if !ValidStatus(d.Status) {
		return NewValidationError("status", ErrInvalidStatus)
	}
	if d.Price.IsNegative() {
		return NewValidationError("price", ErrNegativePrice)
	}
	return nil
}

// ValidScope reports whether s is one of ScopeOptions.
func ValidScope(s string) bool {
	return slices.Contains(ScopeOptions, s)
}

// ValidStatus reports whether s is one of StatusOptions.
func ValidStatus(s string) bool {
	return slices.Contains(StatusOptions, s)
}

// ParsePrice parses a user-entered price. An empty string is zero, matching a
// numeric input left at its default.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	p, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, NewValidationError("price", ErrInvalidPrice)
	}
	if p.IsNegative() {
		return decimal.Zero, NewValidationError("price", ErrNegativePrice)
	}
	return p, nil
}
