package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProduct() Product {
	release := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	return Product{
		ID:           "trj-crd",
		Name:         "Tarjeta de Credito",
		Description:  "Tarjeta de consumo bajo la modalidad de credito",
		Logo:         "https://example.com/logo.png",
		DateRelease:  release,
		DateRevision: release.AddDate(1, 0, 0),
	}
}

func TestProduct_Validate(t *testing.T) {
	t.Run("valid product", func(t *testing.T) {
		require.NoError(t, validProduct().Validate())
	})

	cases := []struct {
		name   string
		mutate func(p *Product)
		want   error
	}{
		{"short id", func(p *Product) { p.ID = "ab" }, ErrInvalidProductID},
		{"long id", func(p *Product) { p.ID = "abcdefghijk" }, ErrInvalidProductID},
		{"short name", func(p *Product) { p.Name = "Tarj" }, ErrInvalidProductName},
		{"short description", func(p *Product) { p.Description = "corta" }, ErrInvalidProductDescription},
		{"long description", func(p *Product) { p.Description = strings.Repeat("x", 201) }, ErrInvalidProductDescription},
		{"missing logo", func(p *Product) { p.Logo = "" }, ErrInvalidProductLogo},
		{"missing release", func(p *Product) { p.DateRelease = time.Time{} }, ErrInvalidReleaseDate},
		{"revision too late", func(p *Product) { p.DateRevision = p.DateRevision.AddDate(0, 0, 2) }, ErrInvalidRevisionDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validProduct()
			tc.mutate(&p)
			assert.ErrorIs(t, p.Validate(), tc.want)
		})
	}
}

func TestRevisionFor(t *testing.T) {
	release := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2027, 2, 14, 0, 0, 0, 0, time.UTC), RevisionFor(release))

	leap := time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2029, 3, 1, 0, 0, 0, 0, time.UTC), RevisionFor(leap))
}

func TestRevisionMatches(t *testing.T) {
	release := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	expected := RevisionFor(release)

	assert.True(t, RevisionMatches(release, expected))
	assert.True(t, RevisionMatches(release, expected.Add(23*time.Hour)))
	assert.True(t, RevisionMatches(release, expected.Add(-24*time.Hour)))
	assert.False(t, RevisionMatches(release, expected.Add(25*time.Hour)))
	assert.False(t, RevisionMatches(release, time.Time{}))
	assert.False(t, RevisionMatches(time.Time{}, expected))
}

func TestNormalize(t *testing.T) {
	t.Run("plain error keeps its message", func(t *testing.T) {
		e := Normalize(errors.New("boom"))
		assert.Equal(t, "boom", e.Message)
		assert.Equal(t, KindUnknown, e.Kind)
	})

	t.Run("wrapped not found", func(t *testing.T) {
		e := Normalize(fmt.Errorf("lookup: %w", ErrProductNotFound))
		assert.Equal(t, KindNotFound, e.Kind)
	})

	t.Run("normalized error in chain is reused", func(t *testing.T) {
		inner := &Error{Kind: KindTransport, Message: "No response from server"}
		e := Normalize(fmt.Errorf("list: %w", inner))
		assert.Same(t, inner, e)
	})

	t.Run("arbitrary values are formatted", func(t *testing.T) {
		assert.Equal(t, "42", Message(42))
		assert.Equal(t, "unknown error", Message(nil))
		assert.Equal(t, "unknown error", Message(""))
	})
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrProductNotFound))
	assert.True(t, IsNotFound(&Error{Kind: KindNotFound, Message: "missing"}))
	assert.False(t, IsNotFound(&Error{Kind: KindTransport, Message: "down"}))
	assert.False(t, IsNotFound(nil))
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(ErrInvalidProductName))
	assert.True(t, IsValidationError(fmt.Errorf("create: %w", ErrInvalidRevisionDate)))
	assert.False(t, IsValidationError(ErrProductNotFound))
	assert.False(t, IsValidationError(nil))
}
