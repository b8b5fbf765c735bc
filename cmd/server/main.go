package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/learning-intelligence/backend/internal/api"
	"github.com/learning-intelligence/backend/internal/config"
	"github.com/learning-intelligence/backend/internal/inference"
	"github.com/learning-intelligence/backend/internal/reporting"
	"github.com/learning-intelligence/backend/internal/storage"
	"github.com/learning-intelligence/backend/internal/web"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Get the executable's directory for config resolution
	exePath, err := os.Executable()
	if err != nil {
		fmt.Printf("Failed to get executable path: %v\n", err)
		os.Exit(1)
	}
	exeDir := filepath.Dir(exePath)

	// Load XML configuration
	configPath := filepath.Join(exeDir, "LearningIntelligence.config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Ensure all data directories exist
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	// Initialize storage
	uploads, err := storage.NewUploadStore(cfg.GetUploadDir())
	if err != nil {
		fmt.Printf("Failed to initialize upload storage: %v\n", err)
		os.Exit(1)
	}
	outputs, err := storage.NewOutputStore(cfg.GetOutputDir())
	if err != nil {
		fmt.Printf("Failed to initialize output storage: %v\n", err)
		os.Exit(1)
	}

	// Initialize inference engine. Models load lazily on first predict
	// unless eager loading is configured.
	engine := inference.NewEngine(cfg.Inference.WeightsPath)
	if cfg.Inference.EagerLoad {
		if err := engine.LoadModels(); err != nil {
			fmt.Printf("Failed to load models: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Models loaded at startup")
	}

	// Initialize API handlers
	handlers := api.NewHandlers(&api.Dependencies{
		Uploads:   uploads,
		Outputs:   outputs,
		Engine:    engine,
		Generator: reporting.NewInsightGenerator(),
		Version:   Version,
	})

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.NewErrorHandler(cfg.Advanced.ExposeErrorDetails)

	// Configure middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !cfg.Advanced.EnableRequestLogging {
				return true
			}
			return c.Request().URL.Path == "/health"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize:         1024 * 4,
		DisablePrintStack: false,
	}))

	// Body limit middleware (uploads are capped, 16M by default)
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool {
			// Downloads are already compressed archives or small files.
			return strings.HasPrefix(c.Request().URL.Path, "/download/")
		},
	}))

	// CORS configuration
	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	// API routes
	api.RegisterRoutes(e, handlers)

	// Embedded frontend
	if err := web.RegisterStaticRoutes(e); err != nil {
		fmt.Printf("Warning: failed to register static routes: %v\n", err)
	}

	// Configure server with settings from XML config
	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Print startup banner
	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           Learning Intelligence Server                    ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Uploads:   %-46s║\n", cfg.GetUploadDir())
	fmt.Printf("║  Outputs:   %-46s║\n", cfg.GetOutputDir())
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")
	fmt.Printf("Open http://localhost:%d in your browser\n\n", cfg.Server.Port)

	e.Logger.Fatal(e.StartServer(s))
}
