package game

import (
	"golang.org/x/exp/rand"
)

// Nutrition classifies a consumable
type Nutrition uint8

const (
	Neutral Nutrition = iota
	Healthy
	Unhealthy
)

func (n Nutrition) String() string {
	switch n {
	case Healthy:
		return "healthy"
	case Unhealthy:
		return "unhealthy"
	default:
		return "neutral"
	}
}

// Calories is the score an eater gains from n
func (n Nutrition) Calories() int {
	switch n {
	case Healthy:
		return CaloriesHealthy
	case Unhealthy:
		return CaloriesUnhealthy
	default:
		return CaloriesNeutral
	}
}

// RandomNutrition picks Neutral half of the time, Healthy and Unhealthy a
// quarter each
func RandomNutrition(rng *rand.Rand) Nutrition {
	switch rng.Intn(4) {
	case 2:
		return Healthy
	case 3:
		return Unhealthy
	default:
		return Neutral
	}
}

// NutritionEffect is what an eater gets from one consumable
type NutritionEffect struct {
	Nutrition Nutrition
	Calories  int
	// ScaresChasers is set for healthy items
	ScaresChasers bool
}

// Consumable is a static item sitting on an Item tile
type Consumable struct {
	id        string
	col, row  int
	nutrition Nutrition
	radius    float64
	consumed  bool
}

func NewConsumable(id string, col, row int, n Nutrition, radius float64) *Consumable {
	return &Consumable{id: id, col: col, row: row, nutrition: n, radius: radius}
}

func (c *Consumable) ID() string           { return c.id }
func (c *Consumable) Kind() Kind           { return KindConsumable }
func (c *Consumable) Position() Vec        { return tileCenter(c.col, c.row) }
func (c *Consumable) Radius() float64      { return c.radius }
func (c *Consumable) Nutrition() Nutrition { return c.nutrition }
func (c *Consumable) Tile() (col, row int) { return c.col, c.row }
func (c *Consumable) Consumed() bool       { return c.consumed }

func (c *Consumable) OccupantID() string { return c.id }
func (c *Consumable) Item() bool         { return true }

// ConsumedBy marks the item eaten. Only the first call succeeds.
func (c *Consumable) ConsumedBy(e *Eater) (NutritionEffect, bool) {
	if c.consumed || e == nil {
		return NutritionEffect{}, false
	}
	c.consumed = true
	return NutritionEffect{
		Nutrition:     c.nutrition,
		Calories:      c.nutrition.Calories(),
		ScaresChasers: c.nutrition == Healthy,
	}, true
}
