package core

import (
	"strconv"
	"strings"
)

// ObjectCategory tags a world object with its kind. The set is closed; any
// unrecognized value still round-trips through JSON but renders with the
// generic label.
type ObjectCategory string

const (
	CategoryPal         ObjectCategory = "pal"
	CategoryAlphaPal    ObjectCategory = "alpha_pal"
	CategoryPredatorPal ObjectCategory = "predator_pal"
	CategoryDungeon     ObjectCategory = "dungeon"
	CategoryFastTravel  ObjectCategory = "fast_travel"
)

// Categories lists every known category in display order.
func Categories() []ObjectCategory {
	return []ObjectCategory{
		CategoryPal,
		CategoryAlphaPal,
		CategoryPredatorPal,
		CategoryDungeon,
		CategoryFastTravel,
	}
}

// Known reports whether the category is one of the closed set.
func (c ObjectCategory) Known() bool {
	switch c {
	case CategoryPal, CategoryAlphaPal, CategoryPredatorPal, CategoryDungeon, CategoryFastTravel:
		return true
	}
	return false
}

// Label returns the human-readable name for the category. Unknown categories
// fall back to the generic label instead of failing.
func (c ObjectCategory) Label() string {
	switch c {
	case CategoryPal:
		return "Pal"
	case CategoryAlphaPal:
		return "Alpha Pal"
	case CategoryPredatorPal:
		return "Predator Pal"
	case CategoryDungeon:
		return "Dungeon"
	case CategoryFastTravel:
		return "Fast Travel"
	default:
		return "Object"
	}
}

// MapObject represents one static world object from the map data file.
// Objects carry no server-assigned id; identity is the composite Key.
type MapObject struct {
	Category ObjectCategory `json:"type"`
	Location Position2D     `json:"location"`
	Name     string         `json:"name,omitempty"`
	SubType  string         `json:"subType,omitempty"`
}

// Key derives the composite identity for an object. Two objects with the same
// category, position, sub-type and name are indistinguishable and collapse to
// one. An object that moves produces a different key, so reconciliation
// treats it as deleted plus created.
func (o MapObject) Key() string {
	var b strings.Builder
	b.WriteString(string(o.Category))
	b.WriteByte('|')
	b.WriteString(strconv.FormatFloat(o.Location.X, 'f', -1, 64))
	b.WriteByte('|')
	b.WriteString(strconv.FormatFloat(o.Location.Y, 'f', -1, 64))
	b.WriteByte('|')
	b.WriteString(o.SubType)
	b.WriteByte('|')
	b.WriteString(o.Name)
	return b.String()
}
