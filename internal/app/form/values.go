// Package form holds the product form: its values, the release to revision
// date derivation and the validation schema.
package form

import (
	"errors"
	"strings"
	"time"

	"github.com/mrops-br/bank-products/internal/domain"
)

// DefaultLogo prefills the logo field of a new product.
const DefaultLogo = "https://www.visa.com.ec/dam/VCOM/regional/lac/SPA/Default/Pay%20With%20Visa/Tarjetas/visa-signature-400x225.jpg"

// Field names a form input.
type Field string

const (
	FieldID           Field = "id"
	FieldName         Field = "name"
	FieldDescription  Field = "description"
	FieldLogo         Field = "logo"
	FieldDateRelease  Field = "date_release"
	FieldDateRevision Field = "date_revision"
)

var (
	ErrReadOnlyField = errors.New("field is read-only")
	ErrUnknownField  = errors.New("unknown form field")
)

// Values is the shape of the product form. Nil dates are unset.
type Values struct {
	ID           string
	Name         string
	Description  string
	Logo         string
	DateRelease  *time.Time
	DateRevision *time.Time
}

// Defaults returns the values of an empty create form.
func Defaults() Values {
	return Values{Logo: DefaultLogo}
}

// FromProduct maps a product into form values. Zero dates become nil and the
// returned dates never alias the product's.
func FromProduct(p domain.Product) Values {
	return Values{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Logo:         p.Logo,
		DateRelease:  datePtr(p.DateRelease),
		DateRevision: datePtr(p.DateRevision),
	}
}

// Product converts the values into a domain product. Text fields are trimmed.
func (v Values) Product() domain.Product {
	p := domain.Product{
		ID:          strings.TrimSpace(v.ID),
		Name:        strings.TrimSpace(v.Name),
		Description: strings.TrimSpace(v.Description),
		Logo:        strings.TrimSpace(v.Logo),
	}
	if v.DateRelease != nil {
		p.DateRelease = *v.DateRelease
	}
	if v.DateRevision != nil {
		p.DateRevision = *v.DateRevision
	}
	return p
}

func datePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	c := t
	return &c
}
