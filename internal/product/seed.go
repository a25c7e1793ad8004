package product

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var ErrInvalidCatalog = errors.New("invalid catalog")

type catalogFile struct {
	Products []catalogEntry `yaml:"products"`
}

// catalogEntry keeps price as text so YAML floats never round-trip through
// float64 before reaching decimal.
type catalogEntry struct {
	Product `yaml:",inline"`
	Price   string `yaml:"price"`
}

// DefaultCatalog returns the built-in sauce catalog.
func DefaultCatalog() ([]Product, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadCatalogFile reads a YAML catalog from disk.
func LoadCatalogFile(path string) ([]Product, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return ParseCatalog(b)
}

// ParseCatalog decodes and validates a YAML catalog document.
func ParseCatalog(data []byte) ([]Product, error) {
	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	seen := make(map[string]struct{}, len(doc.Products))
	out := make([]Product, 0, len(doc.Products))
	for i, e := range doc.Products {
		p := e.Product
		if p.ID == "" {
			return nil, fmt.Errorf("%w: entry %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidCatalog, p.ID)
		}
		seen[p.ID] = struct{}{}

		price, err := decimal.NewFromString(e.Price)
		if err != nil || price.IsNegative() {
			return nil, fmt.Errorf("%w: product %s has invalid price %q", ErrInvalidCatalog, p.ID, e.Price)
		}
		p.Price = price
		if p.SpicyLevel < 0 || p.SpicyLevel > MaxSpicyLevel {
			return nil, fmt.Errorf("%w: product %s spicyLevel %d out of range", ErrInvalidCatalog, p.ID, p.SpicyLevel)
		}
		if p.Pairings == nil {
			p.Pairings = []string{}
		}
		out = append(out, p)
	}
	return out, nil
}
