package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nmkhans/mamar-bank/configs"
	"github.com/nmkhans/mamar-bank/internal/logger"
	"github.com/nmkhans/mamar-bank/internal/notify"
	"github.com/nmkhans/mamar-bank/internal/routes"
	"github.com/nmkhans/mamar-bank/internal/seed"
	"github.com/nmkhans/mamar-bank/internal/store"
	"go.uber.org/zap"
)

func main() {
	logger.Init()
	defer logger.Log.Sync()

	configs.LoadConfig()
	store.NewDB()
	store.DBMigrate()
	seed.Run()

	if smtp := configs.AppConfig.SMTP; smtp.Enabled {
		notify.SetNotifier(notify.NewMailer(smtp.Host, smtp.Port, smtp.Username, smtp.Password, smtp.From))
		logger.Log.Info("smtp notifications enabled", zap.String("host", smtp.Host))
	}

	router := routes.NewRoutes()

	addr := configs.AppConfig.Server.Addr
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("graceful shutdown failed", zap.Error(err))
	}

	sqlDB, err := store.DB.DB()
	if err != nil {
		logger.Log.Error("db close skipped, reason:", zap.Error(err))
	} else {
		sqlDB.Close()
		logger.Log.Info("db closed")
	}

	logger.Log.Info("server stopped")
}
