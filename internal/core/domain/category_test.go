package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCategories_Order tests the fixed presentation order
func TestCategories_Order(t *testing.T) {
	assert.Equal(t, []Category{CategoryInscription, CategoryHerostone, CategoryTemple}, Categories())
	for i, c := range Categories() {
		assert.Equal(t, i, c.Order())
	}
	assert.Equal(t, -1, Category("fort").Order())
}

// TestParseCategory tests category parsing from user input
func TestParseCategory(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Category
		wantErr  bool
	}{
		{name: "singular", input: "temple", expected: CategoryTemple},
		{name: "plural", input: "Herostones", expected: CategoryHerostone},
		{name: "padded", input: "  inscription ", expected: CategoryInscription},
		{name: "unknown", input: "fort", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnknownCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// TestCategory_Label tests display labels
func TestCategory_Label(t *testing.T) {
	assert.Equal(t, "Inscriptions", CategoryInscription.Label())
	assert.Equal(t, "Herostones", CategoryHerostone.Label())
	assert.Equal(t, "Temples", CategoryTemple.Label())
	assert.Equal(t, "Unknown", Category("x").Label())
}

// TestCategory_AttributeFields tests per-category field lists
func TestCategory_AttributeFields(t *testing.T) {
	assert.Equal(t, []string{
		AttrVillage, AttrCentury, AttrMainDeity, AttrArchitecturalStyle, AttrTempleStatus,
	}, CategoryTemple.AttributeFields())
	assert.Contains(t, CategoryInscription.AttributeFields(), AttrLanguage)
	assert.Contains(t, CategoryHerostone.AttributeFields(), AttrPeriod)
	assert.Nil(t, Category("x").AttributeFields())
}
