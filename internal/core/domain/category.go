package domain

import (
	"fmt"
	"strings"
)

const unknownDescription = "Unknown"

// Category is one of the three heritage classifications.
type Category string

// Heritage categories.
const (
	// CategoryInscription is an epigraphic record (stone or copper-plate inscription).
	CategoryInscription Category = "inscription"

	// CategoryHerostone is a memorial stone commemorating a hero's death.
	CategoryHerostone Category = "herostone"

	// CategoryTemple is a temple or shrine.
	CategoryTemple Category = "temple"
)

// Categories returns every category in presentation order.
// The order is fixed and used for result grouping, layer panels and
// cluster composition rings.
func Categories() []Category {
	return []Category{CategoryInscription, CategoryHerostone, CategoryTemple}
}

// ParseCategory converts a user-supplied name to a Category.
// Plural forms ("temples") are accepted.
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimSuffix(name, "s")
	c := Category(name)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// IsValid returns true if the category is recognised.
func (c Category) IsValid() bool {
	switch c {
	case CategoryInscription, CategoryHerostone, CategoryTemple:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c Category) String() string {
	return string(c)
}

// Label returns the plural display name used for layers and result groups.
func (c Category) Label() string {
	switch c {
	case CategoryInscription:
		return "Inscriptions"
	case CategoryHerostone:
		return "Herostones"
	case CategoryTemple:
		return "Temples"
	default:
		return unknownDescription
	}
}

// Order returns the position of the category in presentation order,
// or -1 for an unknown category.
func (c Category) Order() int {
	for i, cat := range Categories() {
		if cat == c {
			return i
		}
	}
	return -1
}

// AttributeFields returns the category-specific attribute keys.
// Every SiteRecord of the category carries exactly these keys.
func (c Category) AttributeFields() []string {
	switch c {
	case CategoryInscription:
		return []string{
			AttrVillage, AttrTaluk, AttrDistrict, AttrLanguage,
			AttrScript, AttrDynasty, AttrCentury, AttrCurrentStatus,
		}
	case CategoryHerostone:
		return []string{
			AttrVillage, AttrTaluk, AttrDistrict, AttrPeriod,
			AttrHerostoneType, AttrCurrentStatus,
		}
	case CategoryTemple:
		return []string{
			AttrVillage, AttrCentury, AttrMainDeity,
			AttrArchitecturalStyle, AttrTempleStatus,
		}
	default:
		return nil
	}
}

// Attribute keys.
const (
	AttrVillage            = "village"
	AttrTaluk              = "taluk"
	AttrDistrict           = "district"
	AttrLanguage           = "language"
	AttrScript             = "script"
	AttrDynasty            = "dynasty"
	AttrCentury            = "century"
	AttrCurrentStatus      = "currentStatus"
	AttrPeriod             = "period"
	AttrHerostoneType      = "herostoneType"
	AttrMainDeity          = "mainDeity"
	AttrArchitecturalStyle = "architecturalStyle"
	AttrTempleStatus       = "templeStatus"
)

// AttributeLabel returns the display label for an attribute key.
func AttributeLabel(key string) string {
	switch key {
	case AttrVillage:
		return "Village"
	case AttrTaluk:
		return "Taluk"
	case AttrDistrict:
		return "District"
	case AttrLanguage:
		return "Language"
	case AttrScript:
		return "Script"
	case AttrDynasty:
		return "Dynasty"
	case AttrCentury:
		return "Century"
	case AttrCurrentStatus:
		return "Current status"
	case AttrPeriod:
		return "Period"
	case AttrHerostoneType:
		return "Type"
	case AttrMainDeity:
		return "Main deity"
	case AttrArchitecturalStyle:
		return "Architectural style"
	case AttrTempleStatus:
		return "Status"
	default:
		return key
	}
}
