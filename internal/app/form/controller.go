package form

import (
	"fmt"
	"sync"
	"time"

	"github.com/mrops-br/bank-products/internal/domain"
)

// Controller tracks edits to the product form. Setting the release date
// rewrites the revision date to one year later without marking it dirty;
// the revision field itself cannot be edited.
type Controller struct {
	mu       sync.Mutex
	values   Values
	initial  Values
	dirty    map[Field]bool
	disabled map[Field]bool
}

// NewController starts a form at the given values.
func NewController(initial Values) *Controller {
	c := &Controller{}
	c.Reset(initial)
	return c
}

// Reset replaces the values and clears dirty flags. The id field is locked
// when the initial values already carry one (edit mode).
func (c *Controller) Reset(initial Values) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values = initial
	c.initial = initial
	c.dirty = make(map[Field]bool)
	c.disabled = map[Field]bool{FieldDateRevision: true}
	if initial.ID != "" {
		c.disabled[FieldID] = true
	}
}

// Values returns the current form values.
func (c *Controller) Values() Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values
}

// SetText sets one of the text fields.
func (c *Controller) SetText(field Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disabled[field] {
		return fmt.Errorf("%s: %w", field, ErrReadOnlyField)
	}

	switch field {
	case FieldID:
		c.values.ID = value
	case FieldName:
		c.values.Name = value
	case FieldDescription:
		c.values.Description = value
	case FieldLogo:
		c.values.Logo = value
	default:
		return fmt.Errorf("%s: %w", field, ErrUnknownField)
	}
	c.dirty[field] = true
	return nil
}

// SetReleaseDate sets the release date and derives the revision date. A nil
// date clears the release field and leaves the revision as it was.
func (c *Controller) SetReleaseDate(release *time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dirty[FieldDateRelease] = true
	if release == nil {
		c.values.DateRelease = nil
		return
	}

	r := *release
	revision := domain.RevisionFor(r)
	c.values.DateRelease = &r
	c.values.DateRevision = &revision
	c.dirty[FieldDateRevision] = false
}

// SetRevisionDate always fails: the revision date is derived.
func (c *Controller) SetRevisionDate(*time.Time) error {
	return fmt.Errorf("%s: %w", FieldDateRevision, ErrReadOnlyField)
}

// IsDirty reports whether the user edited the field.
func (c *Controller) IsDirty(field Field) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty[field]
}

// IsDisabled reports whether the field rejects edits.
func (c *Controller) IsDisabled(field Field) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabled[field]
}

// Restore returns the values to the last Reset.
func (c *Controller) Restore() {
	c.mu.Lock()
	initial := c.initial
	c.mu.Unlock()

	c.Reset(initial)
}
