package view

import "github.com/jmylchreest/themeflex/internal/theme"

// Variant is the bundle of presentation choices a theme makes. Components
// never branch on the theme directly; they read the fields of the Variant
// selected for the active theme.
type Variant struct {
	// Key is the stylesheet modifier, e.g. "creative" for "card--creative".
	Key string

	// Heading is the font class used for titles.
	Heading string

	// Grid is the column arrangement of product grids.
	Grid string

	// HomeProducts is how many products the home page shows collapsed.
	HomeProducts int

	// Features enables the feature cards section on the home page.
	Features bool

	// SecondaryCTA is an extra hero button label. Empty means none.
	SecondaryCTA string

	// SurfaceSections tints alternating page sections.
	SurfaceSections bool
}

var minimalistVariant = Variant{
	Key:          "minimal",
	Heading:      "font-sans",
	Grid:         "grid grid--minimal",
	HomeProducts: 6,
}

var variants = map[theme.ID]Variant{
	theme.Minimalist: minimalistVariant,
	theme.Professional: {
		Key:             "professional",
		Heading:         "font-serif",
		Grid:            "grid grid--professional",
		HomeProducts:    6,
		SurfaceSections: true,
	},
	theme.Creative: {
		Key:          "creative",
		Heading:      "font-display",
		Grid:         "grid grid--creative",
		HomeProducts: 8,
		Features:     true,
		SecondaryCTA: "Get Creative",
	},
}

// VariantFor returns the presentation bundle for id. Unknown ids get the
// Minimalist bundle.
func VariantFor(id theme.ID) Variant {
	if v, ok := variants[id]; ok {
		return v
	}
	return minimalistVariant
}

// Class joins a component base class with the variant modifier, e.g.
// Class("card") is "card card--creative" under the Creative theme.
func (v Variant) Class(base string) string {
	return base + " " + base + "--" + v.Key
}
