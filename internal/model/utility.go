package model

// UtilityCategory is the closed set of metered utilities. Photo storage and
// invoice lines dispatch on it with a switch, never on a raw column name.
type UtilityCategory string

const (
	UtilityColdWater UtilityCategory = "COLD_WATER"
	UtilityHotWater  UtilityCategory = "HOT_WATER"
	UtilityGas       UtilityCategory = "GAS"
	UtilityEnergy    UtilityCategory = "ENERGY"
	UtilityHeat      UtilityCategory = "HEAT"
)

// AllUtilities lists categories in the order invoice lines are rendered.
var AllUtilities = []UtilityCategory{
	UtilityColdWater,
	UtilityHotWater,
	UtilityGas,
	UtilityEnergy,
	UtilityHeat,
}

// Valid reports whether c is one of the known categories.
func (c UtilityCategory) Valid() bool {
	switch c {
	case UtilityColdWater, UtilityHotWater, UtilityGas, UtilityEnergy, UtilityHeat:
		return true
	}
	return false
}
