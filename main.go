package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"garderobe-backend/internal/api"
	"garderobe-backend/internal/auth"
	"garderobe-backend/internal/consent"
	"garderobe-backend/internal/database"
	"garderobe-backend/internal/lifecycle"
	"garderobe-backend/internal/models"
	"garderobe-backend/internal/outfit"
	"garderobe-backend/internal/stylist"
	"garderobe-backend/internal/sync"
)

func main() {
	// Load optional .env for local development
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	// Get database path from environment or default
	dbPath := os.Getenv("GARDEROBE_DB_PATH")
	if dbPath == "" {
		// Default to current directory for development
		dbPath = "./garderobe.db"
	}

	// Ensure absolute path
	if !filepath.IsAbs(dbPath) {
		cwd, _ := os.Getwd()
		dbPath = filepath.Join(cwd, dbPath)
	}

	// Initialize database
	log.Printf("Initializing database at %s", dbPath)
	if err := database.Open(database.Config{Path: dbPath}); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Repositories
	prefsRepo := database.NewPrefsRepo()
	sharedRepo := database.NewSharedPrefsRepo()
	deviceRepo := database.NewDeviceRepo()
	auditRepo := database.NewAuditRepo()

	// Services: explicitly constructed, wired here and nowhere else
	lifecycleSvc := lifecycle.NewService(prefsRepo)
	consentSvc := consent.NewService(prefsRepo, auditRepo, lifecycleSvc)
	pairingSvc := auth.NewService(prefsRepo, deviceRepo)
	responder := stylist.NewResponder(lifecycleSvc)
	hub := sync.NewHub(sharedRepo, lifecycleSvc, responder)
	filterer := outfit.NewFilterer(lifecycleSvc)

	consentSvc.OnChange(func(state models.ConsentState) {
		log.Printf("Consent changed: granted=%v", state.Granted())
	})

	// Seed the pairing code from the environment on first run
	if code := os.Getenv("GARDEROBE_PAIRING_CODE"); code != "" && !pairingSvc.HasPairingCode() {
		if err := pairingSvc.SetPairingCode(code); err != nil {
			log.Printf("Warning: failed to set pairing code: %v", err)
		} else {
			log.Println("Pairing code configured from environment")
		}
	}

	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// API routes
	apiGroup := e.Group("/api")
	api.RegisterRoutes(apiGroup, api.Services{
		Consent:   consentSvc,
		Lifecycle: lifecycleSvc,
		Pairing:   pairingSvc,
		Hub:       hub,
		Filterer:  filterer,
		Audit:     auditRepo,
	})

	// Get port from environment or default
	port := os.Getenv("GARDEROBE_PORT")
	if port == "" {
		port = "8090"
	}

	log.Printf("Starting Garderobe backend on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
