package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/themeflex/internal/catalog"
	"github.com/jmylchreest/themeflex/internal/models"
	"github.com/jmylchreest/themeflex/internal/observability"
	"github.com/jmylchreest/themeflex/internal/service"
	"github.com/jmylchreest/themeflex/internal/theme"
	"github.com/jmylchreest/themeflex/internal/view"
)

var (
	productsTheme string
	productsLimit int
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Fetch the catalog and print it in the terminal",
	Long: `Fetch the product catalog once and print it styled after a theme.

  themeflex products --theme 3 --limit 5`,
	RunE: runProducts,
}

func init() {
	productsCmd.Flags().StringVar(&productsTheme, "theme", "", "theme to style the output with (1, 2 or 3; default from config)")
	productsCmd.Flags().IntVar(&productsLimit, "limit", 0, "maximum number of products to print (0 for all)")
	rootCmd.AddCommand(productsCmd)
}

func runProducts(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	id := cfg.Theme.DefaultTheme()
	if productsTheme != "" {
		parsed, ok := theme.Parse(productsTheme)
		if !ok {
			return fmt.Errorf("unknown theme %q: must be 1, 2 or 3", productsTheme)
		}
		id = parsed
	}
	d, _ := theme.Lookup(id)

	logger := observability.WithComponent(slog.Default(), "catalog")
	client := catalog.NewClient(cfg.Catalog, catalog.WithClientLogger(logger))

	products, err := client.Fetch(cmd.Context())
	if err != nil {
		logger.Error("product fetch failed", slog.String("error", err.Error()))
		return errors.New(catalog.MessageFor(err))
	}
	if productsLimit > 0 {
		products = models.FirstN(products, productsLimit)
	}

	palette, err := service.NewThemeService().Palette(id)
	if err != nil {
		logger.Warn("theme palette unavailable", slog.String("error", err.Error()))
	}

	return view.RenderTerminal(cmd.OutOrStdout(), d, view.NewTerminalStyles(d, palette), products)
}
