package assets

import (
	"fmt"
	"io/fs"
)

// GetThemesFS returns a sub-filesystem rooted at the theme stylesheets.
func GetThemesFS() (fs.FS, error) {
	staticFS, err := GetStaticFS()
	if err != nil {
		return nil, err
	}
	return fs.Sub(staticFS, "themes")
}

// ThemeFile is the stylesheet name for a theme wire id, e.g. "theme-2.css".
func ThemeFile(id string) string {
	return fmt.Sprintf("theme-%s.css", id)
}
