package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/themeflex/internal/catalog"
	"github.com/jmylchreest/themeflex/internal/config"
	"github.com/jmylchreest/themeflex/internal/contact"
	"github.com/jmylchreest/themeflex/internal/content"
	internalhttp "github.com/jmylchreest/themeflex/internal/http"
	"github.com/jmylchreest/themeflex/internal/http/handlers"
	"github.com/jmylchreest/themeflex/internal/http/middleware"
	"github.com/jmylchreest/themeflex/internal/observability"
	"github.com/jmylchreest/themeflex/internal/service"
	"github.com/jmylchreest/themeflex/internal/version"
	"github.com/jmylchreest/themeflex/internal/view"
	"github.com/jmylchreest/themeflex/pkg/httpclient"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the themeflex server",
	Long: `Start the themeflex HTTP server.

The server provides:
- The showcase pages: /, /about and /contact
- Theme selection persisted in a cookie
- A JSON API under /api/v1 with OpenAPI documentation at /docs
- Health probes (/health, /livez, /readyz) and Prometheus metrics

The product catalog is fetched once in the background at startup.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("catalog-endpoint", "", "Product catalog URL")
	serveCmd.Flags().String("default-theme", "2", "Theme for visitors without a preference (1, 2 or 3)")

	mustBindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	mustBindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	mustBindPFlag("catalog.endpoint", serveCmd.Flags().Lookup("catalog-endpoint"))
	mustBindPFlag("theme.default", serveCmd.Flags().Lookup("default-theme"))
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.Default()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, logger)
}

// serve wires the application and blocks until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
	}

	clients := httpclient.NewRegistry()
	catalogClient := catalog.NewClient(cfg.Catalog,
		catalog.WithClientLogger(observability.WithComponent(logger, "catalog")),
	)
	clients.Register(catalog.ClientName, catalogClient.HTTPClient())

	source := catalog.NewSource(catalogClient,
		catalog.WithLogger(observability.WithComponent(logger, "catalog")),
		catalog.WithMetrics(metrics),
	)

	renderer, err := view.NewRenderer()
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	about, err := content.About()
	if err != nil {
		return fmt.Errorf("loading about page: %w", err)
	}

	defaultTheme := cfg.Theme.DefaultTheme()
	themeService := service.NewThemeService().
		WithLogger(observability.WithComponent(logger, "theme")).
		WithDefault(defaultTheme)
	contactService := contact.NewService(logger, metrics)

	server := internalhttp.NewServer(internalhttp.ServerConfigFrom(cfg.Server), logger, version.Version,
		internalhttp.WithMetrics(metrics),
		internalhttp.WithTheme(middleware.ThemeConfig{
			Default:          defaultTheme,
			CookieMaxAge:     cfg.Theme.CookieMaxAge,
			TransitionWindow: cfg.Theme.TransitionWindow,
		}),
	)

	handlers.NewHealthHandler(version.Version).
		WithClientRegistry(clients).
		WithProductSource(source).
		Register(server.API())
	handlers.NewSettingsHandler().Register(server.API())
	if journal != nil {
		handlers.NewLogsHandler(journal).Register(server.API())
	}
	handlers.NewProductsHandler(source).Register(server.API())
	handlers.NewContactHandler(contactService).Register(server.API())

	themeHandler := handlers.NewThemeHandler(themeService).WithMetrics(metrics)
	themeHandler.Register(server.API())
	themeHandler.RegisterChiRoutes(server.Router())

	staticHandler, err := handlers.NewStaticHandler()
	if err != nil {
		return fmt.Errorf("loading static assets: %w", err)
	}
	staticHandler.RegisterChiRoutes(server.Router())

	if metrics != nil {
		server.MountMetrics(cfg.Metrics.Path, metrics)
	}

	handlers.NewPagesHandler(renderer, source, contactService, about).
		WithMetrics(metrics).
		RegisterChiRoutes(server.Router())

	ctx, cancel := context.WithCancel(ctx)
	source.Start(ctx)
	defer source.Close()
	defer cancel()

	logger.Info("starting themeflex server",
		slog.String("address", server.Addr()),
		slog.String("catalog", catalogClient.Endpoint()),
		slog.String("default_theme", defaultTheme.String()),
		slog.String("version", version.Version),
	)

	err = server.ListenAndServe(ctx)
	if ctx.Err() != nil {
		logger.Info("received shutdown signal")
	}
	return err
}
