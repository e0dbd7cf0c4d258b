package memory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mrops-br/bank-products/internal/app/dto"
	"github.com/mrops-br/bank-products/internal/domain"
)

type seedFile struct {
	Products []seedProduct `yaml:"products"`
}

type seedProduct struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	Logo         string `yaml:"logo"`
	DateRelease  string `yaml:"date_release"`
	DateRevision string `yaml:"date_revision"`
}

// LoadSeed reads products from a YAML file. A missing date_revision is
// derived from date_release.
func LoadSeed(path string) ([]domain.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes seed YAML and validates every product.
func ParseSeed(data []byte) ([]domain.Product, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Products))
	products := make([]domain.Product, 0, len(file.Products))
	for i, sp := range file.Products {
		p := domain.Product{
			ID:          sp.ID,
			Name:        sp.Name,
			Description: sp.Description,
			Logo:        sp.Logo,
			DateRelease: dto.ParseDate(sp.DateRelease),
		}
		if sp.DateRevision != "" {
			p.DateRevision = dto.ParseDate(sp.DateRevision)
		} else if !p.DateRelease.IsZero() {
			p.DateRevision = domain.RevisionFor(p.DateRelease)
		}

		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("seed product %d (%q): %w", i, sp.ID, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("seed product %d (%q): %w", i, sp.ID, domain.ErrProductAlreadyExists)
		}
		seen[p.ID] = struct{}{}
		products = append(products, p)
	}
	return products, nil
}
