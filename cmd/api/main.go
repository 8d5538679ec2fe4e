package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/findcut/internal/audit"
	"github.com/BruksfildServices01/findcut/internal/config"
	dbpkg "github.com/BruksfildServices01/findcut/internal/db"
	"github.com/BruksfildServices01/findcut/internal/logging"
	"github.com/BruksfildServices01/findcut/internal/routes"
)

// API stub do FindCut para desenvolvimento local e testes do cliente.
func main() {

	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogPretty)

	repo := dbpkg.NewDB(log, cfg.StubSeed)

	events := audit.NewDispatcher(audit.New(log))
	defer events.Close()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.GinLogger(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, repo, cfg, events)

	srv := &http.Server{
		Addr:              cfg.StubAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.StubAddr()).Msg("stub api running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
