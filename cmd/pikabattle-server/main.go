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

	"github.com/ericogr/pikabattle/internal/api"
	"github.com/ericogr/pikabattle/internal/constants"
	"github.com/ericogr/pikabattle/internal/logging"
	"github.com/ericogr/pikabattle/internal/version"
)

func main() {
	e := loadEnvOrExit()
	runner, file := bootstrapOrExit(e)

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.NewBattleHandler(runner))

	addr := listenAddr(e, file)
	srv := &http.Server{Addr: addr, Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr, "version": version.String(), "offline": e.Offline})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Failed to start server", err, nil)
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("graceful shutdown failed", err, nil)
	}
}
