package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wichananm65/hot-sauce-storefront/internal/money"
	"github.com/wichananm65/hot-sauce-storefront/internal/product"
)

var ErrInvalidCriteria = errors.New("invalid filter criteria")

// Bracket is a preset price range offered to shoppers. Range is nil for "Any".
type Bracket struct {
	Label string      `json:"label"`
	Range *PriceRange `json:"range"`
}

var bracketBounds = []struct{ min, max int64 }{
	{0, 5},
	{5, 10},
	{10, 15},
	{15, -1},
}

// PriceBrackets returns the preset brackets with labels rendered by f.
func PriceBrackets(f money.Formatter) []Bracket {
	out := []Bracket{{Label: "Any"}}
	for _, b := range bracketBounds {
		r := PriceRange{Min: decimal.NewFromInt(b.min)}
		if b.max >= 0 {
			max := decimal.NewFromInt(b.max)
			r.Max = &max
		}
		out = append(out, Bracket{Label: f.Range(r.Min, r.Max), Range: &r})
	}
	return out
}

// SpiceLevels returns the selectable spice options; the leading nil is "Any".
func SpiceLevels() []*int {
	out := []*int{nil}
	for i := 1; i <= product.MaxSpicyLevel; i++ {
		lvl := i
		out = append(out, &lvl)
	}
	return out
}

// ParseQuery builds Criteria from request parameters spicyLevel, minPrice,
// maxPrice and category. Empty values and "any" leave a dimension open.
func ParseQuery(get func(key string) string) (Criteria, error) {
	var c Criteria

	if v := normalize(get("spicyLevel")); v != "" {
		lvl, err := strconv.Atoi(v)
		if err != nil || lvl < 1 || lvl > product.MaxSpicyLevel {
			return Criteria{}, fmt.Errorf("%w: spicyLevel must be between 1 and %d", ErrInvalidCriteria, product.MaxSpicyLevel)
		}
		c.SpicyLevel = &lvl
	}

	minRaw, maxRaw := normalize(get("minPrice")), normalize(get("maxPrice"))
	if minRaw != "" || maxRaw != "" {
		r := PriceRange{Min: decimal.Zero}
		if minRaw != "" {
			min, err := decimal.NewFromString(minRaw)
			if err != nil || min.IsNegative() {
				return Criteria{}, fmt.Errorf("%w: minPrice must be a non-negative number", ErrInvalidCriteria)
			}
			r.Min = min
		}
		if maxRaw != "" {
			max, err := decimal.NewFromString(maxRaw)
			if err != nil || max.LessThan(r.Min) {
				return Criteria{}, fmt.Errorf("%w: maxPrice must be a number >= minPrice", ErrInvalidCriteria)
			}
			r.Max = &max
		}
		c.PriceRange = &r
	}

	if v := strings.TrimSpace(get("category")); v != "" && !strings.EqualFold(v, "any") {
		c.Category = &v
	}
	return c, nil
}

func normalize(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "any") {
		return ""
	}
	return v
}
