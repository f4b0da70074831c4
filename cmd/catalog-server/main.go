package main

import (
	"flag"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humafiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/config"
	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/handlers"
	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/logging"
	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/metrics"
	"github.com/abdo643-HULK/workshop-graphql-netflix/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	memory := flag.Bool("memory", false, "Serve an empty in-memory catalog instead of connecting to Scylla")
	flag.Parse()

	// Konfiguration laden
	cfg, err := config.Load(*configPath)
	if err != nil {
		boot := logging.New(config.LogConfig{}, "catalog-server")
		boot.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logging.New(cfg.Log, "catalog-server")

	tables := storage.TableNames{Movies: cfg.Catalog.MoviesTable, ByGenre: cfg.Catalog.GenreTable}
	// Storage initialisieren
	var catalog storage.Catalog
	if *memory {
		catalog = storage.NewMemoryStorage(cfg.Catalog.Keyspace, cfg.Catalog.MetadataType, tables)
	} else {
		session, err := storage.NewScyllaSession(cfg.Scylla)
		if err != nil {
			log.Fatal().Err(err).Msg("scylla connection failed")
		}
		defer session.Close()
		catalog = storage.NewScyllaStorage(session, cfg.Catalog.Keyspace, tables)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	app := newApp(catalog, cfg.Server, reg)

	// Server starten
	log.Info().Str("port", cfg.Server.Port).Bool("memory", *memory).Msg("catalog server listening")
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// newApp baut die Fiber App mit Huma API, Metriken und Health Check
func newApp(catalog storage.Catalog, server config.ServerConfig, reg *prometheus.Registry) *fiber.App {
	httpMetrics := metrics.NewHTTP(reg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// Middleware hinzufügen
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		route := c.Route().Path
		httpMetrics.Requests.WithLabelValues(route, strconv.Itoa(c.Response().StatusCode())).Inc()
		httpMetrics.Duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		return err
	})

	// Huma API konfigurieren
	humaConfig := huma.DefaultConfig("Movie Catalog API", "1.0.0")
	humaConfig.OpenAPI.Info.Description = "Lesezugriff auf den denormalisierten Filmkatalog"
	api := humafiber.New(app, humaConfig)
	handlers.NewMovieHandler(catalog, server.DefaultLimit).Register(api)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Health Check
	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	return app
}
