package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/nexbid/auction-signup/internal/authstate"  // Authenticated-status tracker
	"github.com/nexbid/auction-signup/internal/config"     // Internal config loader
	"github.com/nexbid/auction-signup/internal/document"   // Acceptance document generation/export
	"github.com/nexbid/auction-signup/internal/draft"      // Draft session stores
	"github.com/nexbid/auction-signup/internal/handler"    // HTTP handlers
	"github.com/nexbid/auction-signup/internal/ingest"     // Profile image ingestion
	"github.com/nexbid/auction-signup/internal/middleware" // Rate limiting middleware
	"github.com/nexbid/auction-signup/internal/queue"      // Signup audit consumer
	"github.com/nexbid/auction-signup/internal/router"     // Route registration
	queue_publisher "github.com/nexbid/auction-signup/internal/service"
	"github.com/nexbid/auction-signup/internal/submit" // Submission assembler and registrar
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load() // Load environment config

	// Draft sessions live in Redis; fall back to the in-memory store when
	// the client cannot connect so the form keeps working locally.
	rdb := config.NewRedisClient()
	var store draft.Store
	if rdb != nil {
		store = draft.NewRedisStore(rdb, cfg.DraftTTL)
	} else {
		log.Printf("redis unavailable; using in-memory draft store")
		store = draft.NewMemoryStore()
	}

	ingestor := ingest.New(store)
	docs := document.NewService(cfg.ExportDir)
	registrar := submit.NewHTTPRegistrar(cfg.RegisterURL)
	tracker := authstate.NewTracker(cfg.JWTSecret)

	assembler := submit.NewAssembler(store, docs, registrar)
	assembler.Tracker = tracker
	assembler.Publish = queue_publisher.PublishSignupSubmitted

	// The redirect controller is external; this observer just proves the
	// subscription port by logging the authenticated transition.
	go func() {
		for st := range tracker.Subscribe() {
			log.Printf("auth: subject %q authenticated (role %q); home redirect may proceed", st.Subject, st.Role)
		}
	}()

	// Background audit consumer: appends one line per submitted signup.
	go func() {
		if err := queue.StartSignupConsumer(); err != nil {
			log.Printf("signup consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e)
	h := handler.NewSignupHandler(store, ingestor, assembler)
	router.RegisterSignup(e, h, middleware.RateLimit(config.LoadRateLimitConfig(), rdb))

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
