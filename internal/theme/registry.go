// Package theme holds the fixed registry of site themes and the per-visitor
// store that tracks which one is active.
package theme

import (
	"strconv"
	"time"
)

// ID identifies one of the registered themes.
type ID int

// Registered themes.
const (
	Minimalist   ID = 1
	Professional ID = 2
	Creative     ID = 3
)

// Default is the theme used when no valid preference is stored.
const Default = Professional

// TransitionWindow is how long the fade-in marker stays active after a change.
const TransitionWindow = 400 * time.Millisecond

// Layout is the page arrangement a theme selects.
type Layout string

// Layout kinds.
const (
	LayoutDefault Layout = "default" // top navigation, centered content
	LayoutSidebar Layout = "sidebar" // persistent side navigation
	LayoutGrid    Layout = "grid"    // top navigation, card grid
)

// Descriptor describes a registered theme. Descriptors are immutable.
type Descriptor struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Layout      Layout `json:"layout"`
}

var registry = [...]Descriptor{
	{ID: Minimalist, Name: "Minimalist", Description: "Clean and simple design", Layout: LayoutDefault},
	{ID: Professional, Name: "Professional", Description: "Dark mode with sidebar", Layout: LayoutSidebar},
	{ID: Creative, Name: "Creative", Description: "Colorful and playful", Layout: LayoutGrid},
}

// All returns every registered theme in ID order.
func All() []Descriptor {
	out := make([]Descriptor, len(registry))
	copy(out, registry[:])
	return out
}

// Lookup returns the descriptor for id.
func Lookup(id ID) (Descriptor, bool) {
	if !id.Valid() {
		return Descriptor{}, false
	}
	return registry[id-1], true
}

// Parse converts the persisted/wire form ("1", "2", "3") into an ID.
// Anything else, including surrounding whitespace, is rejected.
func Parse(s string) (ID, bool) {
	if len(s) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	id := ID(n)
	return id, id.Valid()
}

// Valid reports whether id is a registered theme.
func (id ID) Valid() bool {
	return id >= Minimalist && id <= Creative
}

// String returns the wire form of id.
func (id ID) String() string {
	return strconv.Itoa(int(id))
}

// ClassName is the body class applied for id, e.g. "theme-2".
func (id ID) ClassName() string {
	return "theme-" + id.String()
}
