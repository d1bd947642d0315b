package quantity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Parsed
	}{
		{"grams without space", "500g", Parsed{500, "g"}},
		{"litres with space", "2.5 L", Parsed{2.5, "L"}},
		{"millilitres lowercase", "100 ml", Parsed{100, "mL"}},
		{"decimal comma", "2,5 kg", Parsed{2.5, "kg"}},
		{"comma thousands", "1,000 g", Parsed{1000, "g"}},
		{"embedded in title", "Sodium Chloride, ACS, 500 g bottle", Parsed{500, "g"}},
		{"fluid ounces", "16 fl oz", Parsed{16, "fl oz"}},
		{"micrograms", "250 mcg", Parsed{250, "µg"}},
		{"pieces", "Pack of 10 pcs", Parsed{10, "pieces"}},
		{"longest alias wins", "1 gallon", Parsed{1, "gal"}},
		{"skips numbers without units", "2 x 500mg", Parsed{500, "mg"}},
		{"uppercase unit", "5 KG", Parsed{5, "kg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_NotFound(t *testing.T) {
	for _, input := range []string{"", "abc", "500", "grade A", "10 lots"} {
		t.Run(input, func(t *testing.T) {
			_, ok := Parse(input)
			assert.False(t, ok)
		})
	}
}

func TestToBase(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		uom    string
		want   float64
		wantOK bool
	}{
		{"grams unchanged", 500, "g", 500, true},
		{"kilograms", 2.5, "kg", 2500, true},
		{"milligrams", 500, "mg", 0.5, true},
		{"pounds", 1, "lb", 453.59237, true},
		{"litres", 1.5, "L", 1500, true},
		{"millilitres alias", 250, "ml", 250, true},
		{"gallon", 1, "gal", 3785.411784, true},
		{"pieces not convertible", 10, "pieces", 0, false},
		{"unknown unit", 3, "bags", 0, false},
		{"empty unit", 3, "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToBase(tt.amount, tt.uom)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestFamily(t *testing.T) {
	assert.Equal(t, FamilyMass, Family("kg"))
	assert.Equal(t, FamilyVolume, Family("fl oz"))
	assert.Equal(t, FamilyCount, Family("pcs"))
	assert.Equal(t, "", Family("bags"))
}

func TestNormalize(t *testing.T) {
	got, ok := Normalize("  Fl  Oz ")
	assert.True(t, ok)
	assert.Equal(t, "fl oz", got)

	got, ok = Normalize("μL")
	assert.True(t, ok)
	assert.Equal(t, "µL", got)

	_, ok = Normalize("furlongs")
	assert.False(t, ok)
}
