package quantity

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Unit families
const (
	FamilyMass   = "mass"
	FamilyVolume = "volume"
	FamilyCount  = "count"
)

type unit struct {
	canonical string
	family    string
	// toBase is the size of one unit in grams (mass) or millilitres (volume)
	toBase decimal.Decimal
}

var units = map[string]unit{
	"g":      {"g", FamilyMass, decimal.NewFromInt(1)},
	"kg":     {"kg", FamilyMass, decimal.NewFromInt(1000)},
	"mg":     {"mg", FamilyMass, decimal.RequireFromString("0.001")},
	"µg":     {"µg", FamilyMass, decimal.RequireFromString("0.000001")},
	"lb":     {"lb", FamilyMass, decimal.RequireFromString("453.59237")},
	"oz":     {"oz", FamilyMass, decimal.RequireFromString("28.349523125")},
	"mL":     {"mL", FamilyVolume, decimal.NewFromInt(1)},
	"L":      {"L", FamilyVolume, decimal.NewFromInt(1000)},
	"µL":     {"µL", FamilyVolume, decimal.RequireFromString("0.001")},
	"gal":    {"gal", FamilyVolume, decimal.RequireFromString("3785.411784")},
	"qt":     {"qt", FamilyVolume, decimal.RequireFromString("946.352946")},
	"pt":     {"pt", FamilyVolume, decimal.RequireFromString("473.176473")},
	"fl oz":  {"fl oz", FamilyVolume, decimal.RequireFromString("29.5735295625")},
	"pieces": {"pieces", FamilyCount, decimal.Zero},
}

// aliases maps lowercased spellings to canonical unit names
var aliases = map[string]string{
	"g": "g", "gm": "g", "gr": "g", "gram": "g", "grams": "g",
	"kg": "kg", "kgs": "kg", "kilo": "kg", "kilos": "kg", "kilogram": "kg", "kilograms": "kg",
	"mg": "mg", "milligram": "mg", "milligrams": "mg",
	"µg": "µg", "μg": "µg", "ug": "µg", "mcg": "µg", "microgram": "µg", "micrograms": "µg",
	"lb": "lb", "lbs": "lb", "pound": "lb", "pounds": "lb",
	"oz": "oz", "ounce": "oz", "ounces": "oz",
	"ml": "mL", "milliliter": "mL", "milliliters": "mL", "millilitre": "mL", "millilitres": "mL", "cc": "mL",
	"l": "L", "ltr": "L", "liter": "L", "liters": "L", "litre": "L", "litres": "L",
	"µl": "µL", "μl": "µL", "ul": "µL", "microliter": "µL", "microliters": "µL", "microlitre": "µL", "microlitres": "µL",
	"gal": "gal", "gallon": "gal", "gallons": "gal",
	"qt": "qt", "quart": "qt", "quarts": "qt",
	"pt": "pt", "pint": "pt", "pints": "pt",
	"fl oz": "fl oz", "fl. oz": "fl oz", "fl.oz": "fl oz", "floz": "fl oz", "fluid ounce": "fl oz", "fluid ounces": "fl oz",
	"pieces": "pieces", "piece": "pieces", "pcs": "pieces", "pc": "pieces", "ea": "pieces", "each": "pieces",
	"unit": "pieces", "units": "pieces", "count": "pieces", "ct": "pieces",
}

// aliasesByLength lists aliases longest first, for building the parse pattern
func aliasesByLength() []string {
	list := make([]string, 0, len(aliases))
	for alias := range aliases {
		list = append(list, alias)
	}
	sort.Slice(list, func(i, j int) bool {
		if len(list[i]) != len(list[j]) {
			return len(list[i]) > len(list[j])
		}
		return list[i] < list[j]
	})
	return list
}

// Normalize returns the canonical spelling of a unit
func Normalize(uom string) (string, bool) {
	key := strings.ToLower(strings.Join(strings.Fields(uom), " "))
	canonical, ok := aliases[key]
	return canonical, ok
}

// Family returns "mass", "volume", "count" or "" for an unknown unit
func Family(uom string) string {
	canonical, ok := Normalize(uom)
	if !ok {
		return ""
	}
	return units[canonical].family
}

// ToBase converts amount to grams (mass) or millilitres (volume). Count and
// unknown units are not convertible.
func ToBase(amount float64, uom string) (float64, bool) {
	canonical, ok := Normalize(uom)
	if !ok {
		return 0, false
	}

	u := units[canonical]
	if u.family == FamilyCount {
		return 0, false
	}

	return decimal.NewFromFloat(amount).Mul(u.toBase).InexactFloat64(), true
}
