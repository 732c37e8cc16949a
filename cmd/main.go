package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/latoulicious/umaroster/internal/bootstrap"
	"github.com/latoulicious/umaroster/internal/commands"
	"github.com/latoulicious/umaroster/internal/config"
	"github.com/latoulicious/umaroster/internal/version"
	"github.com/latoulicious/umaroster/pkg/logging"
	"github.com/latoulicious/umaroster/pkg/uma"
)

func main() {
	// Initialize application with proper error handling
	if err := initializeApplication(); err != nil {
		log.Fatalf("Application initialization failed: %v", err)
	}
}

// initializeApplication handles the complete application initialization process
func initializeApplication() error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Discord.Token == "" {
		return errors.New("discord token is not set (DISCORD_TOKEN)")
	}

	rt, err := bootstrap.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	systemLogger := logging.GetGlobalLoggerFactory().CreateLogger("system")
	systemLogger.Info("Starting umaroster", map[string]interface{}{
		"version":     version.Get().Short(),
		"config_from": cfg.Source,
		"backend":     cfg.Favourites.Backend,
	})

	// Initial load; the bot still starts when the catalog is down
	loadCtx, cancel := context.WithTimeout(context.Background(), 2*cfg.Catalog.Timeout)
	if err := rt.Store.Load(loadCtx); err != nil {
		systemLogger.Warn("Initial catalog load failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	cancel()

	var scheduler uma.RefreshSchedulerInterface
	if rt.Scheduler != nil {
		rt.Scheduler.Start()
		scheduler = rt.Scheduler
	}

	router := commands.NewRouter(rt.Store, commands.RouterOptions{
		Prefix:    cfg.Discord.Prefix,
		OwnerID:   cfg.Discord.OwnerID,
		Scheduler: scheduler,
	})

	// Create a new Discord session using the provided token
	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent

	// Register the message handler
	dg.AddHandler(router.MessageHandler)

	// Start health check HTTP server
	health := newHealthServer(cfg.Health.Addr, rt)
	health.start()

	// Open a websocket connection to Discord and begin listening.
	if err := dg.Open(); err != nil {
		health.shutdown()
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	log.Printf("Bot is running with prefix %q. Press CTRL-C to exit.", cfg.Discord.Prefix)
	log.Printf("Health check endpoint available at http://localhost%s/health", cfg.Health.Addr)

	// Wait here until CTRL-C or other term signal is received.
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	log.Println("Shutting down gracefully...")

	health.shutdown()

	// Cleanly close down the Discord session.
	if err := dg.Close(); err != nil {
		log.Printf("Discord close error: %v", err)
	}

	systemLogger.Info("Application shutdown complete", map[string]interface{}{
		"shutdown_reason": "signal",
	})
	return nil
}

// SystemHealth is the body of the health endpoints
type SystemHealth struct {
	Status     string            `json:"status"`
	Version    string            `json:"version"`
	StartTime  time.Time         `json:"start_time"`
	Uptime     string            `json:"uptime"`
	Database   *bool             `json:"database_connected,omitempty"`
	Resources  map[string]string `json:"resources"`
	RosterSize int               `json:"roster_size"`
	NextReload *time.Time        `json:"next_reload,omitempty"`
}

// healthServer serves /health and /status for container probes
type healthServer struct {
	server    *http.Server
	rt        *bootstrap.Runtime
	startTime time.Time
}

func newHealthServer(addr string, rt *bootstrap.Runtime) *healthServer {
	h := &healthServer{rt: rt, startTime: time.Now()}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.healthCheckHandler)
	mux.HandleFunc("/status", h.statusHandler)

	h.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return h
}

func (h *healthServer) start() {
	go func() {
		log.Printf("Starting health check server on %s", h.server.Addr)
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Health check server error: %v", err)
		}
	}()
}

// snapshot reports healthy while the database answers and the roster is not failed
func (h *healthServer) snapshot(ctx context.Context) (SystemHealth, bool) {
	store := h.rt.Store
	rosterState := store.RosterState()
	sparkState := store.SparkState()

	health := SystemHealth{
		Version:    version.Get().Short(),
		StartTime:  h.startTime,
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
		RosterSize: store.Count(),
		Resources: map[string]string{
			"roster": rosterState.Status.String(),
			"sparks": sparkState.Status.String(),
		},
	}

	healthy := rosterState.Status != uma.StatusFailed || store.Count() > 0

	if h.rt.DB != nil {
		ok := h.rt.DB.Ping(ctx) == nil
		health.Database = &ok
		healthy = healthy && ok
	}

	if h.rt.Scheduler != nil {
		if next := h.rt.Scheduler.GetNextRun(); !next.IsZero() {
			health.NextReload = &next
		}
	}

	health.Status = "healthy"
	if !healthy {
		health.Status = "unhealthy"
	}
	return health, healthy
}

// healthCheckHandler handles the /health endpoint
func (h *healthServer) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	health, healthy := h.snapshot(ctx)
	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

// statusHandler handles the /status endpoint for more detailed information
func (h *healthServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	health, _ := h.snapshot(ctx)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"application": "umaroster Discord Bot",
		"health":      health,
		"favourites":  h.rt.Store.Favourites().Len(),
		"sparks":      len(h.rt.Store.Sparks()),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Health response encode error: %v", err)
	}
}

// shutdown gracefully stops the health check server
func (h *healthServer) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		log.Printf("Health server shutdown error: %v", err)
	} else {
		log.Println("Health check server shutdown complete")
	}
}
