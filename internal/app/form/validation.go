package form

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mrops-br/bank-products/internal/domain"
)

// User-facing validation messages.
const (
	MsgRequired         = "Requerido"
	MsgInvalidDate      = "Fecha inválida"
	MsgReleaseInPast    = "Debe ser igual o mayor a la fecha actual"
	MsgRevisionMismatch = "Debe ser exactamente un año posterior a la fecha de liberación"
	MsgIDTaken          = "El ID ya existe, ingresa un ID único"
)

// Errors maps each invalid field to its first message.
type Errors map[Field]string

// Valid reports whether no field failed.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Error lists the failing fields in a stable order.
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%s: %s", f, e[Field(f)])
	}
	return strings.Join(parts, "; ")
}

// Validate checks values against the product form schema. The release date
// must not be before midnight of now's day in now's location.
func Validate(v Values, now time.Time) Errors {
	errs := Errors{}

	checkLength(errs, FieldID, v.ID, domain.MinIDLength, domain.MaxIDLength)
	checkLength(errs, FieldName, v.Name, domain.MinNameLength, domain.MaxNameLength)
	checkLength(errs, FieldDescription, v.Description, domain.MinDescriptionLength, domain.MaxDescriptionLength)

	if utf8.RuneCountInString(v.Logo) < 1 {
		errs[FieldLogo] = MsgRequired
	}

	if v.DateRelease == nil || v.DateRelease.IsZero() {
		errs[FieldDateRelease] = MsgInvalidDate
	} else if v.DateRelease.Before(midnight(now)) {
		errs[FieldDateRelease] = MsgReleaseInPast
	}

	if v.DateRevision == nil || v.DateRevision.IsZero() {
		errs[FieldDateRevision] = MsgInvalidDate
	} else if v.DateRelease != nil && !v.DateRelease.IsZero() &&
		!domain.RevisionMatches(*v.DateRelease, *v.DateRevision) {
		errs[FieldDateRevision] = MsgRevisionMismatch
	}

	return errs
}

func checkLength(errs Errors, field Field, value string, min, max int) {
	n := utf8.RuneCountInString(value)
	switch {
	case n < min:
		errs[field] = fmt.Sprintf("Mínimo %d caracteres", min)
	case n > max:
		errs[field] = fmt.Sprintf("Máximo %d caracteres", max)
	}
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
