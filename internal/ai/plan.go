package ai

import (
	"fmt"
	"strings"
)

// Section names, in the fixed order every description follows.
const (
	SectionIntro    = "intro"
	SectionInterior = "interior"
	SectionExterior = "exterior"
	SectionArea     = "area"
	SectionTerms    = "terms"
)

var planTables = map[Length][5]int{
	LengthShort:  {40, 50, 40, 40, 30},
	LengthMedium: {60, 80, 70, 60, 50},
	LengthLong:   {90, 120, 100, 90, 70},
}

// ComputeContentPlan maps the requested length to per-section word targets.
// The tables are fixed; facts never change the shape of the plan.
func ComputeContentPlan(length Length) ContentPlan {
	words, ok := planTables[length]
	if !ok {
		words = planTables[LengthMedium]
	}
	names := [5]string{SectionIntro, SectionInterior, SectionExterior, SectionArea, SectionTerms}
	var plan ContentPlan
	for i := range names {
		plan.Sections[i] = PlanSection{Name: names[i], Words: words[i]}
	}
	return plan
}

// ComputeMustCover derives the fact phrases a draft has to mention from the
// listing's populated fields. A field that is absent produces no phrase;
// zero values (floor 0, fees 0) are still facts and do produce one.
func ComputeMustCover(facts ListingFacts, lang language) MustCover {
	var mc MustCover
	f := facts.Fields

	if city, ok := presentString(f, "city"); ok {
		if district, ok := presentString(f, "district"); ok {
			mc.Required = append(mc.Required, T(lang, "cover.city_district", city, district))
		} else {
			mc.Required = append(mc.Required, T(lang, "cover.city", city))
		}
	}
	if v, ok := presentValue(f, "squareMeters"); ok {
		mc.Required = append(mc.Required, T(lang, "cover.area", v))
	}
	// Rooms, bedrooms and bathrooms form one layout item.
	var layout []string
	if v, ok := presentValue(f, "rooms"); ok {
		layout = append(layout, T(lang, "cover.rooms", v))
	}
	if v, ok := presentValue(f, "bedrooms"); ok {
		layout = append(layout, T(lang, "cover.bedrooms", v))
	}
	if v, ok := presentValue(f, "bathrooms"); ok {
		layout = append(layout, T(lang, "cover.bathrooms", v))
	}
	if len(layout) > 0 {
		mc.Required = append(mc.Required, strings.Join(layout, ", "))
	}
	// Floor and elevator travel together; the elevator flag alone says
	// nothing without knowing which floor it serves.
	if v, ok := presentValue(f, "floor"); ok {
		item := T(lang, "cover.floor", v)
		if e, ok := presentBool(f, "elevator"); ok {
			if e {
				item += ", " + T(lang, "cover.elevator_yes")
			} else {
				item += ", " + T(lang, "cover.elevator_no")
			}
		}
		mc.Required = append(mc.Required, item)
	}

	var outdoor []string
	if v, ok := presentBool(f, "balcony"); ok && v {
		outdoor = append(outdoor, T(lang, "cover.balcony"))
	}
	if v, ok := presentBool(f, "terrace"); ok && v {
		outdoor = append(outdoor, T(lang, "cover.terrace"))
	}
	if v, ok := presentBool(f, "garden"); ok && v {
		outdoor = append(outdoor, T(lang, "cover.garden"))
	}
	if len(outdoor) > 0 {
		mc.Optional = append(mc.Optional, strings.Join(outdoor, ", "))
	}
	if v, ok := presentString(f, "heating"); ok {
		mc.Optional = append(mc.Optional, T(lang, "cover.heating", v))
	}
	if v, ok := presentString(f, "energyClass"); ok {
		mc.Optional = append(mc.Optional, T(lang, "cover.energy_class", v))
	}
	var distances []string
	if v, ok := presentValue(f, "metroDistanceMin"); ok {
		distances = append(distances, T(lang, "cover.dist_metro", v))
	}
	if v, ok := presentValue(f, "parkDistanceMin"); ok {
		distances = append(distances, T(lang, "cover.dist_park", v))
	}
	if v, ok := presentValue(f, "shopsDistanceMin"); ok {
		distances = append(distances, T(lang, "cover.dist_shops", v))
	}
	if len(distances) > 0 {
		mc.Optional = append(mc.Optional, strings.Join(distances, ", "))
	}
	if v, ok := presentValue(f, "condoFees"); ok {
		mc.Optional = append(mc.Optional, T(lang, "cover.condo_fees", v))
	}
	return mc
}

func presentString(fields map[string]any, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok || raw == nil {
		return "", false
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// presentValue normalizes JSON numbers so "3" and 3.0 both render as "3".
func presentValue(fields map[string]any, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok || raw == nil {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		if v == "" {
			return "", false
		}
		return v, true
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v)), true
		}
		return fmt.Sprintf("%g", v), true
	case int:
		return fmt.Sprintf("%d", v), true
	case int64:
		return fmt.Sprintf("%d", v), true
	default:
		return fmt.Sprintf("%v", v), true
	}
}

func presentBool(fields map[string]any, key string) (bool, bool) {
	raw, ok := fields[key]
	if !ok || raw == nil {
		return false, false
	}
	b, ok := raw.(bool)
	return b, ok
}
