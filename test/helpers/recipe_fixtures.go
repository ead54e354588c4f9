package helpers

import (
	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// Float returns a pointer to v, for optional record fields
func Float(v float64) *float64 {
	return &v
}

// BurningPowderRecords is the fixed-yield chain
// Burning Powder (20 focus, yield 15) <- 1 Charcoal (yield 10) <- 28 Logs (yield 1)
func BurningPowderRecords() []recipe.Record {
	return []recipe.Record{
		{
			Name:        "Burning Powder",
			FocusCost:   20,
			Yield:       Float(15),
			Ingredients: map[string]float64{"Charcoal": 1},
		},
		{
			Name:                "Charcoal",
			FocusCost:           0,
			TimePerCraftSeconds: 30,
			Yield:               Float(10),
			Ingredients:         map[string]float64{"Logs": 28},
		},
		{
			Name:                "Logs",
			FocusCost:           0,
			TimePerCraftSeconds: 5,
			IsMineable:          true,
			Yield:               Float(1),
		},
	}
}

// BurningPowderGraph loads BurningPowderRecords into a fresh graph
func BurningPowderGraph() *recipe.Graph {
	g := recipe.NewGraph()
	g.Load(BurningPowderRecords())
	return g
}

// LuckyOreRecord is a Focus-costing leaf with a discrete yield distribution {1:70%, 2:20%, 3:10%}
func LuckyOreRecord() recipe.Record {
	return recipe.Record{
		Name:       "Lucky Ore",
		FocusCost:  10,
		IsMineable: true,
		YieldOutcomes: map[string]float64{
			"1": 0.7,
			"2": 0.2,
			"3": 0.1,
		},
	}
}

// DiamondRecords builds a diamond: Lantern needs Frame and Wick, both need Resin
func DiamondRecords() []recipe.Record {
	return []recipe.Record{
		{Name: "Lantern", FocusCost: 15, Ingredients: map[string]float64{"Frame": 1, "Wick": 2}},
		{Name: "Frame", FocusCost: 5, Ingredients: map[string]float64{"Resin": 3}},
		{Name: "Wick", FocusCost: 2, Yield: Float(2), Ingredients: map[string]float64{"Resin": 1}},
		{Name: "Resin", FocusCost: 1, IsMineable: true, Yield: Float(4)},
	}
}

// CycleRecords builds A -> B -> A
func CycleRecords() []recipe.Record {
	return []recipe.Record{
		{Name: "A", FocusCost: 1, Ingredients: map[string]float64{"B": 1}},
		{Name: "B", FocusCost: 1, Ingredients: map[string]float64{"A": 1}},
	}
}

// GraphOf loads records into a fresh graph
func GraphOf(records ...recipe.Record) *recipe.Graph {
	g := recipe.NewGraph()
	g.Load(records)
	return g
}
