package recommendation

import (
	"fmt"
	"strings"

	"github.com/wichananm65/hot-sauce-storefront/internal/filter"
	"github.com/wichananm65/hot-sauce-storefront/internal/product"
)

const (
	StrategyFilterSet = "filter-set"
	StrategyDirect    = "direct"
)

// Result is what a completed quiz yields. Criteria is only set by strategies
// that derive a filter set.
type Result struct {
	Strategy string            `json:"strategy"`
	Answers  Answers           `json:"answers"`
	Criteria *filter.Criteria  `json:"criteria,omitempty"`
	Products []product.Product `json:"products"`
}

type Strategy interface {
	Name() string
	Recommend(catalog []product.Product, answers Answers) Result
}

// NewStrategy returns the strategy registered under name.
func NewStrategy(name string) (Strategy, error) {
	switch name {
	case "", StrategyFilterSet:
		return FilterSetStrategy{}, nil
	case StrategyDirect:
		return DirectFilterStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown recommendation strategy %q", name)
	}
}

var spicinessLevels = map[string]int{
	"Mild":      1,
	"Medium":    3,
	"Hot":       4,
	"Extra Hot": 5,
}

var pairingCategories = map[string]string{
	"Mexican":    "Hot Sauce",
	"Asian":      "Chilli Oil",
	"BBQ":        "BBQ Sauce",
	"Seafood":    "Seasoning",
	"Vegetarian": "Seasoning",
}

// FilterSetStrategy turns answers into filter criteria and runs them through
// the filter engine. The purpose answer does not influence the criteria.
type FilterSetStrategy struct{}

func (FilterSetStrategy) Name() string { return StrategyFilterSet }

func (FilterSetStrategy) Criteria(answers Answers) filter.Criteria {
	var c filter.Criteria
	if lvl, ok := spicinessLevels[answers[Spiciness]]; ok {
		c.SpicyLevel = &lvl
	}
	if cat, ok := pairingCategories[answers[Pairing]]; ok {
		c.Category = &cat
	}
	return c
}

func (s FilterSetStrategy) Recommend(catalog []product.Product, answers Answers) Result {
	c := s.Criteria(answers)
	return Result{
		Strategy: s.Name(),
		Answers:  answers,
		Criteria: &c,
		Products: filter.Apply(catalog, "", c),
	}
}

// DirectFilterStrategy filters the catalog straight from the answers: Mild
// means level 2 or below, other spice answers are exact, and the pairing
// answer must appear in one of the product's pairings.
type DirectFilterStrategy struct{}

func (DirectFilterStrategy) Name() string { return StrategyDirect }

func (s DirectFilterStrategy) Recommend(catalog []product.Product, answers Answers) Result {
	spice := answers[Spiciness]
	pairing := strings.ToLower(answers[Pairing])

	out := make([]product.Product, 0)
	for _, p := range catalog {
		if !spiceMatches(spice, p.SpicyLevel) {
			continue
		}
		if pairing != "" && !pairsWith(p, pairing) {
			continue
		}
		out = append(out, p)
	}
	return Result{Strategy: s.Name(), Answers: answers, Products: out}
}

func spiceMatches(answer string, level int) bool {
	switch answer {
	case "Mild":
		return level <= 2
	case "Medium":
		return level == 3
	case "Hot":
		return level == 4
	case "Extra Hot":
		return level == 5
	default:
		return true
	}
}

func pairsWith(p product.Product, needle string) bool {
	for _, pairing := range p.Pairings {
		if strings.Contains(strings.ToLower(pairing), needle) {
			return true
		}
	}
	return false
}
