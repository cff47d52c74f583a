package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"storefront/api"
	"storefront/config"
	"storefront/infrastructure/persistence/mysql"
	"storefront/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// App is a built development commerce API.
type App struct {
	config *config.Config
	router *api.Router
	server *http.Server
	db     *gorm.DB
	worker *mysql.OutboxWorker
}

// Run serves until ctx is cancelled, then shuts the server down within the
// configured timeout. The outbox worker, when present, runs alongside.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server starting",
			zap.String("addr", a.server.Addr),
			zap.String("health", "/api/v1/health"))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("Shutting down server")
		return a.server.Shutdown(shutdownCtx)
	})

	if a.worker != nil {
		g.Go(func() error {
			if err := a.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	err := g.Wait()
	a.close()
	return err
}

func (a *App) close() {
	if a.db == nil {
		return
	}
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("Failed to close database", zap.Error(err))
		}
	}
}

// Handler exposes the engine for tests.
func (a *App) Handler() *gin.Engine {
	return a.router.GetEngine()
}
