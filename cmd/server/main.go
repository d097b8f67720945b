package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"meridian/internal/auth"
	"meridian/internal/config"
	"meridian/internal/engine"
	"meridian/internal/handler"
	"meridian/internal/llm"
	"meridian/internal/middleware"
	"meridian/internal/repository/postgres"
	"meridian/internal/service"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to create connection pool: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}

	users := postgres.NewUserRepository(repoConfig)
	sequences := postgres.NewSequenceRepository(repoConfig)
	blocks := postgres.NewBlockRepository(repoConfig)
	variables := postgres.NewVariableRepository(repoConfig)
	globalLists := postgres.NewGlobalListRepository(repoConfig)
	runs := postgres.NewRunRepository(repoConfig)
	blockRuns := postgres.NewBlockRunRepository(repoConfig)

	tokenService, err := auth.NewTokenService(cfg.SecretKey, cfg.Algorithm, cfg.AccessTokenExpireMinutes, logger)
	if err != nil {
		log.Fatalf("failed to build token service: %v", err)
	}

	var verifier auth.JWTVerifier = tokenService
	if cfg.JWKSURL != "" {
		jwksVerifier, err := auth.NewJWKSVerifier(cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("failed to build JWKS verifier: %v", err)
		}
		verifier = jwksVerifier
		defer verifier.Close()
	}

	llmClient, err := llm.NewClient(cfg, cfg.DefaultProvider)
	if err != nil {
		log.Fatalf("failed to build LLM client: %v", err)
	}

	contextBldr := engine.NewContextBuilder(variables, globalLists)
	resolver := engine.NewResolver(variables, globalLists, blocks)
	executor := engine.NewBlockExecutor(llmClient, time.Duration(cfg.LLMTimeout)*time.Second, logger)
	orchestrator := engine.NewOrchestrator(sequences, blocks, runs, blockRuns, contextBldr, executor, logger)
	previewEngine := engine.NewPreviewEngine(sequences, blocks, contextBldr)

	authService := service.NewAuthService(users, tokenService, logger)
	sequenceService := service.NewSequenceService(sequences, logger)
	blockService := service.NewBlockService(blocks, sequences, logger)
	variableService := service.NewVariableService(variables, sequences, resolver, logger)
	globalListService := service.NewGlobalListService(globalLists, logger)
	runService := service.NewRunService(sequences, runs, blockRuns, orchestrator, previewEngine, cfg.DefaultModel, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	sequenceHandler := handler.NewSequenceHandler(sequenceService, logger)
	blockHandler := handler.NewBlockHandler(blockService, logger)
	variableHandler := handler.NewVariableHandler(variableService, logger)
	globalListHandler := handler.NewGlobalListHandler(globalListService, logger)
	runHandler := handler.NewRunHandler(runService, logger)
	healthHandler := handler.NewHealthHandler(cfg.ProjectName)

	logger.Info("services initialized")

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/auth/me", authHandler.Me)

	mux.HandleFunc("POST /api/v1/sequences", sequenceHandler.Create)
	mux.HandleFunc("GET /api/v1/sequences", sequenceHandler.List)
	mux.HandleFunc("GET /api/v1/sequences/{id}", sequenceHandler.Get)
	mux.HandleFunc("PUT /api/v1/sequences/{id}", sequenceHandler.Update)
	mux.HandleFunc("DELETE /api/v1/sequences/{id}", sequenceHandler.Delete)

	mux.HandleFunc("POST /api/v1/blocks", blockHandler.Create)
	mux.HandleFunc("GET /api/v1/blocks/{id}", blockHandler.Get)
	mux.HandleFunc("PUT /api/v1/blocks/{id}", blockHandler.Update)
	mux.HandleFunc("DELETE /api/v1/blocks/{id}", blockHandler.Delete)
	mux.HandleFunc("GET /api/v1/blocks/in_sequence/{sequenceID}", blockHandler.ListBySequence)

	mux.HandleFunc("POST /api/v1/variables", variableHandler.Create)
	mux.HandleFunc("GET /api/v1/variables/{id}", variableHandler.Get)
	mux.HandleFunc("PUT /api/v1/variables/{id}", variableHandler.Update)
	mux.HandleFunc("DELETE /api/v1/variables/{id}", variableHandler.Delete)
	mux.HandleFunc("GET /api/v1/variables/by_sequence/{sequenceID}", variableHandler.ListBySequence)
	mux.HandleFunc("GET /api/v1/variables/available_for_sequence/{sequenceID}", variableHandler.AvailableForSequence)

	mux.HandleFunc("POST /api/v1/global-lists", globalListHandler.Create)
	mux.HandleFunc("GET /api/v1/global-lists", globalListHandler.List)
	mux.HandleFunc("GET /api/v1/global-lists/{id}", globalListHandler.Get)
	mux.HandleFunc("PUT /api/v1/global-lists/{id}", globalListHandler.Update)
	mux.HandleFunc("DELETE /api/v1/global-lists/{id}", globalListHandler.Delete)
	mux.HandleFunc("POST /api/v1/global-lists/{id}/items", globalListHandler.AddItem)
	mux.HandleFunc("PUT /api/v1/global-lists/{id}/items/{itemID}", globalListHandler.UpdateItem)
	mux.HandleFunc("DELETE /api/v1/global-lists/{id}/items/{itemID}", globalListHandler.DeleteItem)

	mux.HandleFunc("POST /api/v1/runs", runHandler.Create)
	mux.HandleFunc("GET /api/v1/runs/{id}", runHandler.Get)
	mux.HandleFunc("GET /api/v1/runs/by_sequence/{sequenceID}", runHandler.ListBySequence)
	mux.HandleFunc("GET /api/v1/runs/block_run/{id}", runHandler.GetBlockRun)
	mux.HandleFunc("POST /api/v1/engine/preview_prompt", runHandler.Preview)
	mux.HandleFunc("GET /api/v1/healthcheck", healthHandler.HealthCheck)

	protected := middleware.Auth(verifier, users, logger)(mux)

	top := http.NewServeMux()
	top.HandleFunc("GET /health", healthHandler.HealthCheck)
	top.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	top.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	top.Handle("/", protected)

	var root http.Handler = top
	root = middleware.Recovery(logger)(root)
	root = middleware.CORS(cfg.CORSOrigins)(root)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
