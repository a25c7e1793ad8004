package product

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDefaultCatalog(t *testing.T) {
	products, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	if len(products) != 20 {
		t.Fatalf("expected 20 products, got %d", len(products))
	}

	first := products[0]
	if first.ID != "1" || first.Name != "MEXICAN FURY" {
		t.Fatalf("unexpected first product %+v", first)
	}
	if !first.Price.Equal(decimal.RequireFromString("9.99")) {
		t.Fatalf("expected price 9.99, got %s", first.Price)
	}
	if first.SpicyLevel != 4 || len(first.Pairings) != 3 || first.Pairings[0] != "Tacos" {
		t.Fatalf("unexpected attributes %+v", first)
	}

	for _, p := range products {
		if p.Category == nil {
			t.Fatalf("product %s has no category", p.ID)
		}
		known := false
		for _, c := range Categories {
			if c == *p.Category {
				known = true
			}
		}
		if !known {
			t.Fatalf("product %s has unknown category %q", p.ID, *p.Category)
		}
	}
}

func TestParseCatalog_Invalid(t *testing.T) {
	cases := map[string]string{
		"missing id":     "products:\n  - name: X\n    price: \"1\"\n",
		"duplicate id":   "products:\n  - id: a\n    price: \"1\"\n  - id: a\n    price: \"2\"\n",
		"bad price":      "products:\n  - id: a\n    price: cheap\n",
		"negative price": "products:\n  - id: a\n    price: \"-1\"\n",
		"spice too high": "products:\n  - id: a\n    price: \"1\"\n    spicyLevel: 9\n",
		"not yaml":       "products: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(doc))
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("expected ErrInvalidCatalog, got %v", err)
			}
		})
	}
}

func TestParseCatalog_NoCategoryNoPairings(t *testing.T) {
	products, err := ParseCatalog([]byte("products:\n  - id: x\n    name: Plain\n    price: \"3.50\"\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if products[0].Category != nil {
		t.Fatalf("expected nil category")
	}
	if products[0].Pairings == nil || len(products[0].Pairings) != 0 {
		t.Fatalf("expected empty pairings, got %#v", products[0].Pairings)
	}
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("products:\n  - id: f1\n    name: File Sauce\n    price: \"4.00\"\n    spicyLevel: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	products, err := LoadCatalogFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(products) != 1 || products[0].Name != "File Sauce" {
		t.Fatalf("unexpected products %+v", products)
	}

	if _, err := LoadCatalogFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
