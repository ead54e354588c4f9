package recipe

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Record is the loosely-typed boundary shape recipes arrive in (files, database rows, RPC).
// Several yield fields may be present at once; YieldType, when set, selects which one
// applies. Otherwise outcomes win over a range, and a range wins over a fixed yield.
type Record struct {
	Name                string             `json:"name" yaml:"name" validate:"required"`
	FocusCost           float64            `json:"focusCost" yaml:"focusCost" validate:"gte=0"`
	TimePerCraftSeconds float64            `json:"timePerCraftSeconds" yaml:"timePerCraftSeconds" validate:"gte=0"`
	IsMineable          bool               `json:"isMineable" yaml:"isMineable"`
	YieldType           string             `json:"yieldType,omitempty" yaml:"yieldType,omitempty" validate:"omitempty,oneof=fixed range outcomes FIXED RANGE OUTCOMES"`
	Yield               *float64           `json:"yield,omitempty" yaml:"yield,omitempty" validate:"omitempty,gt=0"`
	YieldMin            *float64           `json:"yieldMin,omitempty" yaml:"yieldMin,omitempty" validate:"omitempty,gte=0"`
	YieldMax            *float64           `json:"yieldMax,omitempty" yaml:"yieldMax,omitempty" validate:"omitempty,gte=0"`
	MinChance           *float64           `json:"minChance,omitempty" yaml:"minChance,omitempty" validate:"omitempty,gte=0,lte=100"`
	MaxChance           *float64           `json:"maxChance,omitempty" yaml:"maxChance,omitempty" validate:"omitempty,gte=0,lte=100"`
	YieldOutcomes       map[string]float64 `json:"yieldOutcomes,omitempty" yaml:"yieldOutcomes,omitempty" validate:"omitempty,dive,gte=0"`
	Ingredients         map[string]float64 `json:"ingredients,omitempty" yaml:"ingredients,omitempty" validate:"omitempty,dive,keys,required,endkeys,gt=0"`
}

var recordValidator = validator.New()

// ValidateRecord applies the strict checks used by interactive edits.
// Bulk loads use Normalize instead, which coerces rather than rejects.
func ValidateRecord(rec Record) error {
	if err := recordValidator.Struct(rec); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok && len(validationErrs) > 0 {
			e := validationErrs[0]
			return &ErrInvalidRecipe{
				Name:   rec.Name,
				Reason: fmt.Sprintf("field '%s' failed validation: %s (value: '%v')", e.Namespace(), e.Tag(), e.Value()),
			}
		}
		return &ErrInvalidRecipe{Name: rec.Name, Reason: err.Error()}
	}
	if strings.TrimSpace(rec.Name) == "" {
		return &ErrInvalidRecipe{Reason: "name is required"}
	}
	for key := range rec.YieldOutcomes {
		if _, err := parseOutcomeQuantity(key); err != nil {
			return &ErrInvalidRecipe{Name: rec.Name, Reason: err.Error()}
		}
	}
	return nil
}

// Normalize converts a boundary record into a Recipe, resolving the yield variant once.
// Only a missing name is fatal; everything else is coerced into range.
func Normalize(rec Record) (*Recipe, error) {
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		return nil, &ErrInvalidRecipe{Reason: "name is required"}
	}

	r := &Recipe{
		Name:                name,
		FocusCost:           clampNonNegative(rec.FocusCost),
		TimePerCraftSeconds: clampNonNegative(rec.TimePerCraftSeconds),
		IsMineable:          rec.IsMineable,
		Yield:               normalizeYield(rec),
		Ingredients:         make(map[string]float64, len(rec.Ingredients)),
	}

	for ingredient, qty := range rec.Ingredients {
		ingredient = strings.TrimSpace(ingredient)
		if ingredient == "" || math.IsNaN(qty) || qty <= 0 {
			continue
		}
		r.Ingredients[ingredient] += qty
	}

	return r, nil
}

func normalizeYield(rec Record) YieldSpec {
	hasOutcomes := len(rec.YieldOutcomes) > 0
	hasRange := (rec.YieldMin != nil && *rec.YieldMin >= 0) || (rec.YieldMax != nil && *rec.YieldMax >= 0)

	switch strings.ToLower(rec.YieldType) {
	case "outcomes":
		if hasOutcomes {
			return outcomesFromRecord(rec.YieldOutcomes)
		}
		return DefaultYield()
	case "range":
		if hasRange {
			return rangeFromRecord(rec)
		}
		return DefaultYield()
	case "fixed":
		return fixedFromRecord(rec.Yield)
	}

	switch {
	case hasOutcomes:
		return outcomesFromRecord(rec.YieldOutcomes)
	case hasRange:
		return rangeFromRecord(rec)
	default:
		return fixedFromRecord(rec.Yield)
	}
}

func outcomesFromRecord(raw map[string]float64) YieldSpec {
	weights := make(map[float64]float64, len(raw))
	for key, w := range raw {
		qty, err := parseOutcomeQuantity(key)
		if err != nil {
			continue
		}
		weights[qty] += w
	}
	return OutcomeYield(weights)
}

// rangeFromRecord mirrors a missing side so an average is always defined
func rangeFromRecord(rec Record) YieldSpec {
	var min, max float64
	switch {
	case rec.YieldMin != nil && rec.YieldMax != nil:
		min, max = *rec.YieldMin, *rec.YieldMax
	case rec.YieldMin != nil:
		min, max = *rec.YieldMin, *rec.YieldMin
	default:
		min, max = *rec.YieldMax, *rec.YieldMax
	}
	return WeightedRangeYield(min, max, rec.MinChance, rec.MaxChance)
}

func fixedFromRecord(qty *float64) YieldSpec {
	if qty == nil {
		return DefaultYield()
	}
	return FixedYield(*qty)
}

func parseOutcomeQuantity(key string) (float64, error) {
	qty, err := strconv.ParseFloat(strings.TrimSpace(key), 64)
	if err != nil || math.IsNaN(qty) || qty < 0 {
		return 0, fmt.Errorf("outcome quantity %q must be a number >= 0", key)
	}
	return qty, nil
}

// ToRecord converts a recipe back into its boundary shape with exactly one yield field set
func ToRecord(r *Recipe) Record {
	rec := Record{
		Name:                r.Name,
		FocusCost:           r.FocusCost,
		TimePerCraftSeconds: r.TimePerCraftSeconds,
		IsMineable:          r.IsMineable,
		YieldType:           strings.ToLower(string(r.Yield.Kind())),
	}

	switch r.Yield.Kind() {
	case YieldKindOutcomes:
		rec.YieldOutcomes = make(map[string]float64)
		for _, o := range r.Yield.Outcomes() {
			rec.YieldOutcomes[strconv.FormatFloat(o.Quantity, 'f', -1, 64)] = o.Weight
		}
	case YieldKindRange:
		min, max := r.Yield.Range()
		rec.YieldMin = &min
		rec.YieldMax = &max
		rec.MinChance, rec.MaxChance = r.Yield.Chances()
	default:
		qty := r.Yield.Fixed()
		rec.Yield = &qty
	}

	if len(r.Ingredients) > 0 {
		rec.Ingredients = make(map[string]float64, len(r.Ingredients))
		for name, qty := range r.Ingredients {
			rec.Ingredients[name] = qty
		}
	}

	return rec
}

// SortRecords orders records by name for stable exports
func SortRecords(records []Record) {
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
}
