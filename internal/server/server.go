package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"startup_journey/internal/config"
	"startup_journey/internal/database"
	"startup_journey/internal/handlers"
	"startup_journey/internal/llm"
	"startup_journey/internal/middlewares"
	"startup_journey/internal/repositories"
	"startup_journey/internal/routes"
	"startup_journey/internal/services"
)

// Server owns the HTTP server and the connections behind it.
type Server struct {
	http *http.Server
	pool *pgxpool.Pool
	rdb  *redis.Client
}

func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required to verify access tokens")
	}

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	s := &Server{pool: pool}

	var cache repositories.Cache = repositories.NoopCache{}
	if cfg.Redis.Addr != "" {
		s.rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		// Fail fast with a clear message
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := s.rdb.Ping(pingCtx).Err(); err != nil {
			s.close()
			return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Info("connected to redis", "addr", cfg.Redis.Addr)
		cache = repositories.NewRedisRepository(s.rdb, cfg.Redis.TTL)
	} else {
		logger.Info("redis not configured, caching disabled")
	}

	// The interfaces stay nil unless a client exists; a typed nil would
	// look configured.
	var (
		suggester services.ToolSuggester
		probe     services.LLMProbe
	)
	if cfg.LLM.APIKey != "" {
		client, err := llm.New(cfg.LLM)
		if err != nil {
			s.close()
			return nil, fmt.Errorf("failed to create llm client: %w", err)
		}
		suggester, probe = client, client
		logger.Info("ai assistant enabled", "model", client.Model())
	} else {
		logger.Info("llm api key not set, ai assistant disabled")
	}

	// Dependency injection
	journeyRepo := repositories.NewJourneyRepository(pool)
	toolRepo := repositories.NewToolRepository(pool)
	companyRepo := repositories.NewCompanyRepository(pool)
	feedbackRepo := repositories.NewFeedbackRepository(pool)
	personaRepo := repositories.NewPersonaRepository(pool)
	deckRepo := repositories.NewDeckRepository(pool)
	diagnosticsRepo := repositories.NewDiagnosticsRepository(pool)

	journeyService := services.NewJourneyService(journeyRepo, toolRepo, cache)
	budgetService := services.NewBudgetService(companyRepo, toolRepo)
	toolService := services.NewToolService(toolRepo, budgetService, cache)
	progressService := services.NewProgressService(companyRepo, journeyRepo)
	assistantService := services.NewAssistantService(journeyRepo, suggester)
	feedbackService := services.NewFeedbackService(feedbackRepo)
	personaService := services.NewPersonaService(personaRepo)
	deckService := services.NewDeckService(deckRepo, companyRepo)
	diagnosticsService := services.NewDiagnosticsService(diagnosticsRepo, cache, probe)

	h := routes.Handlers{
		Journey:  handlers.NewJourneyHandler(journeyService),
		Tools:    handlers.NewToolHandler(toolService, assistantService),
		Company:  handlers.NewCompanyHandler(progressService, budgetService, toolService),
		Feedback: handlers.NewFeedbackHandler(feedbackService),
		Persona:  handlers.NewPersonaHandler(personaService),
		Deck:     handlers.NewDeckHandler(deckService),
		Admin:    handlers.NewAdminHandler(diagnosticsService),
		Health: handlers.NewHealthHandler(map[string]handlers.Pinger{
			"database": pool,
			"cache":    cache,
		}),
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middlewares.RequestLogging(logger),
		middlewares.NewHTTPMetrics(reg).Middleware(),
		cors.New(corsConfig(cfg.HTTP.AllowedOrigins)),
	)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	routes.RegisterRoutes(router, h, middlewares.Authenticate([]byte(cfg.Auth.JWTSecret)))

	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
	return s, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowOrigins = origins
	c.AllowHeaders = append(c.AllowHeaders, "Authorization")
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	c.MaxAge = 12 * time.Hour
	return c
}

func (s *Server) Addr() string {
	return s.http.Addr
}

func (s *Server) ListenAndServe() error {
	return s.http.ListenAndServe()
}

// Shutdown stops accepting requests, waits for in-flight ones and then
// closes the connection pool and Redis client.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	s.close()
	return err
}

func (s *Server) close() {
	if s.rdb != nil {
		if err := s.rdb.Close(); err != nil {
			slog.Warn("failed to close redis client", "error", err)
		}
	}
	s.pool.Close()
}
