// Package service holds application services shared by the HTTP handlers
// and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/jmylchreest/themeflex/internal/assets"
	"github.com/jmylchreest/themeflex/internal/models"
	"github.com/jmylchreest/themeflex/internal/theme"
)

// Theme lookup errors.
var (
	ErrInvalidThemeID = errors.New("invalid theme ID")
	ErrThemeNotFound  = errors.New("theme not found")
)

var (
	// themeBlockPattern extracts the body of the first rule block.
	themeBlockPattern = regexp.MustCompile(`(?s)\{([^}]+)\}`)
	// varValuePattern extracts CSS variable name and value.
	varValuePattern = regexp.MustCompile(`(--[\w-]+)\s*:\s*([^;]+);`)
)

// ThemeService exposes the theme registry together with each theme's
// stylesheet and preview palette.
type ThemeService struct {
	themesFS  fs.FS
	logger    *slog.Logger
	defaultID theme.ID
}

// NewThemeService creates a theme service reading stylesheets from the
// embedded assets.
func NewThemeService() *ThemeService {
	themesFS, err := assets.GetThemesFS()
	if err != nil {
		// Only possible if the embed directive is broken.
		panic(fmt.Sprintf("embedded theme stylesheets: %v", err))
	}
	return &ThemeService{themesFS: themesFS, logger: slog.Default(), defaultID: theme.Default}
}

// WithLogger sets the logger for the service.
func (s *ThemeService) WithLogger(logger *slog.Logger) *ThemeService {
	s.logger = logger
	return s
}

// WithDefault sets the theme reported as the default. Unknown ids are ignored.
func (s *ThemeService) WithDefault(id theme.ID) *ThemeService {
	if id.Valid() {
		s.defaultID = id
	}
	return s
}

// WithFS overrides where stylesheets are read from.
func (s *ThemeService) WithFS(themesFS fs.FS) *ThemeService {
	s.themesFS = themesFS
	return s
}

// ListThemes returns every registered theme with current marked active.
func (s *ThemeService) ListThemes(ctx context.Context, current theme.ID) *models.ThemeListResponse {
	all := theme.All()
	themes := make([]models.Theme, 0, len(all))
	for _, d := range all {
		t := ThemeModel(d, d.ID == current)
		palette, err := s.Palette(d.ID)
		if err != nil {
			s.logger.WarnContext(ctx, "theme palette unavailable",
				slog.String("theme", d.ID.String()),
				slog.String("error", err.Error()),
			)
		} else {
			t.Colors = &palette
		}
		themes = append(themes, t)
	}

	return &models.ThemeListResponse{
		Themes:  themes,
		Default: s.defaultID.String(),
		Current: current.String(),
	}
}

// ThemeModel converts a registry descriptor to its API form.
func ThemeModel(d theme.Descriptor, active bool) models.Theme {
	return models.Theme{
		ID:          d.ID.String(),
		Name:        d.Name,
		Description: d.Description,
		Layout:      string(d.Layout),
		Active:      active,
	}
}

// GetThemeCSS returns the stylesheet of the theme with wire id themeID.
func (s *ThemeService) GetThemeCSS(_ context.Context, themeID string) ([]byte, error) {
	id, ok := theme.Parse(themeID)
	if !ok {
		if _, err := strconv.Atoi(themeID); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidThemeID, themeID)
		}
		return nil, fmt.Errorf("%w: %s", ErrThemeNotFound, themeID)
	}

	css, err := fs.ReadFile(s.themesFS, assets.ThemeFile(id.String()))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrThemeNotFound, themeID)
	}
	return css, nil
}

// Palette returns the preview colors declared by a theme's stylesheet.
func (s *ThemeService) Palette(id theme.ID) (models.ThemePalette, error) {
	css, err := s.GetThemeCSS(context.Background(), id.String())
	if err != nil {
		return models.ThemePalette{}, err
	}
	return extractPalette(css), nil
}

// extractPalette reads the color variables of the first rule block.
func extractPalette(css []byte) models.ThemePalette {
	palette := models.ThemePalette{}

	block := themeBlockPattern.FindSubmatch(css)
	if block == nil {
		return palette
	}

	for _, match := range varValuePattern.FindAllStringSubmatch(string(block[1]), -1) {
		value := strings.TrimSpace(match[2])
		switch match[1] {
		case "--background":
			palette.Background = value
		case "--foreground":
			palette.Foreground = value
		case "--surface":
			palette.Surface = value
		case "--primary":
			palette.Primary = value
		case "--secondary":
			palette.Secondary = value
		case "--accent":
			palette.Accent = value
		case "--muted-foreground":
			palette.Muted = value
		case "--border":
			palette.Border = value
		}
	}

	return palette
}
