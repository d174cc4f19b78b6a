package models

// Theme is the API representation of a registered theme.
type Theme struct {
	// ID is the wire form of the theme id ("1", "2" or "3").
	ID string `json:"id" doc:"Theme identifier" example:"2"`

	// Name is the human-readable display name.
	Name string `json:"name" doc:"Display name" example:"Professional"`

	// Description is the one-line summary shown in the picker.
	Description string `json:"description" doc:"Short description"`

	// Layout is the page arrangement the theme selects.
	Layout string `json:"layout" doc:"Page layout" enum:"default,sidebar,grid"`

	// Active is true for the visitor's current theme.
	Active bool `json:"active" doc:"Whether this is the visitor's current theme"`

	// Colors is a preview palette taken from the theme stylesheet.
	Colors *ThemePalette `json:"colors,omitempty"`
}

// ThemePalette holds the main colors of a theme for previews.
type ThemePalette struct {
	Background string `json:"background,omitempty"`
	Foreground string `json:"foreground,omitempty"`
	Surface    string `json:"surface,omitempty"`
	Primary    string `json:"primary,omitempty"`
	Secondary  string `json:"secondary,omitempty"`
	Accent     string `json:"accent,omitempty"`
	Muted      string `json:"muted,omitempty"`
	Border     string `json:"border,omitempty"`
}

// ThemeListResponse is the API response for listing themes.
type ThemeListResponse struct {
	Themes  []Theme `json:"themes"`
	Default string  `json:"default" doc:"Theme used when no preference is stored"`
	Current string  `json:"current" doc:"The visitor's current theme"`
}

// ThemeSelection is the visitor's current theme as returned by the API.
type ThemeSelection struct {
	Theme         Theme `json:"theme"`
	Transitioning bool  `json:"transitioning" doc:"True while the change fade-in is active"`
}
