package dto

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/mrops-br/bank-products/internal/domain"
)

// DateLayout is the wire format for product dates.
const DateLayout = "2006-01-02"

// ProductPayload is the JSON shape of a product on /bp/products.
type ProductPayload struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Logo         string `json:"logo"`
	DateRelease  Date   `json:"date_release"`
	DateRevision Date   `json:"date_revision"`
}

// MessageResponse is returned by mutations that carry no product.
type MessageResponse struct {
	Message string `json:"message"`
}

// Date decodes any date-like JSON value. Unparseable input yields the zero
// date rather than an error so one bad field does not drop the whole record.
type Date struct {
	time.Time
}

// MarshalJSON encodes the date as YYYY-MM-DD, or null when zero.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON accepts YYYY-MM-DD, RFC 3339 strings, epoch milliseconds and null.
func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	d.Time = time.Time{}

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		d.Time = ParseDate(s)
		return nil
	}

	var ms json.Number
	if err := json.Unmarshal(data, &ms); err != nil {
		return nil
	}
	if n, err := ms.Int64(); err == nil {
		d.Time = time.UnixMilli(n).UTC()
	} else if f, err := ms.Float64(); err == nil {
		d.Time = time.UnixMilli(int64(f)).UTC()
	}
	return nil
}

var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// ParseDate parses s against the accepted layouts and returns the zero time
// when none match.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ToDomain converts the payload to a domain Product.
func (p ProductPayload) ToDomain() domain.Product {
	return domain.Product{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Logo:         p.Logo,
		DateRelease:  p.DateRelease.Time,
		DateRevision: p.DateRevision.Time,
	}
}

// ToProductPayload converts a domain Product to its wire shape.
func ToProductPayload(p domain.Product) ProductPayload {
	return ProductPayload{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Logo:         p.Logo,
		DateRelease:  Date{p.DateRelease},
		DateRevision: Date{p.DateRevision},
	}
}

// ToProductPayloadList converts a list of domain Products.
func ToProductPayloadList(products []domain.Product) []ProductPayload {
	payloads := make([]ProductPayload, len(products))
	for i, p := range products {
		payloads[i] = ToProductPayload(p)
	}
	return payloads
}

// ToDomainList converts a list of payloads.
func ToDomainList(payloads []ProductPayload) []domain.Product {
	products := make([]domain.Product, len(payloads))
	for i, p := range payloads {
		products[i] = p.ToDomain()
	}
	return products
}
