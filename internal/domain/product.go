package domain

import (
	"errors"
	"time"
	"unicode/utf8"
)

var (
	ErrInvalidProductID          = errors.New("product id must be between 3 and 10 characters")
	ErrInvalidProductName        = errors.New("product name must be between 5 and 100 characters")
	ErrInvalidProductDescription = errors.New("product description must be between 10 and 200 characters")
	ErrInvalidProductLogo        = errors.New("product logo is required")
	ErrInvalidReleaseDate        = errors.New("product release date is required")
	ErrInvalidRevisionDate       = errors.New("product revision date must be one year after the release date")
)

// Field limits shared by entity validation and the form schema.
const (
	MinIDLength          = 3
	MaxIDLength          = 10
	MinNameLength        = 5
	MaxNameLength        = 100
	MinDescriptionLength = 10
	MaxDescriptionLength = 200

	// RevisionTolerance absorbs timezone rounding between release and revision dates.
	RevisionTolerance = 24 * time.Hour
)

// Product represents a bank product. Identity is the ID alone.
type Product struct {
	ID           string
	Name         string
	Description  string
	Logo         string
	DateRelease  time.Time
	DateRevision time.Time
}

// Validate performs business validation on the product
func (p Product) Validate() error {
	if !lengthBetween(p.ID, MinIDLength, MaxIDLength) {
		return ErrInvalidProductID
	}
	if !lengthBetween(p.Name, MinNameLength, MaxNameLength) {
		return ErrInvalidProductName
	}
	if !lengthBetween(p.Description, MinDescriptionLength, MaxDescriptionLength) {
		return ErrInvalidProductDescription
	}
	if p.Logo == "" {
		return ErrInvalidProductLogo
	}
	if p.DateRelease.IsZero() {
		return ErrInvalidReleaseDate
	}
	if !RevisionMatches(p.DateRelease, p.DateRevision) {
		return ErrInvalidRevisionDate
	}
	return nil
}

// RevisionFor returns the revision date for a release: same month and day,
// one year later.
func RevisionFor(release time.Time) time.Time {
	return release.AddDate(1, 0, 0)
}

// RevisionMatches reports whether revision is one calendar year after
// release, within RevisionTolerance.
func RevisionMatches(release, revision time.Time) bool {
	if release.IsZero() || revision.IsZero() {
		return false
	}
	diff := revision.Sub(RevisionFor(release))
	if diff < 0 {
		diff = -diff
	}
	return diff <= RevisionTolerance
}

func lengthBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

// IsValidationError reports whether err is one of the product validation errors.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidProductID,
		ErrInvalidProductName,
		ErrInvalidProductDescription,
		ErrInvalidProductLogo,
		ErrInvalidReleaseDate,
		ErrInvalidRevisionDate,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
