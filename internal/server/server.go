// Package server runs the cakeshop process: it boots the shared resources,
// serves HTTP (and gRPC when GRPC_PORT is set) and shuts everything down on
// SIGINT/SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/shashiranjanraj/cakeshop/app/services"
	"github.com/shashiranjanraj/cakeshop/config"
	"github.com/shashiranjanraj/cakeshop/database/seeders"
	"github.com/shashiranjanraj/cakeshop/internal/kernel"
	"github.com/shashiranjanraj/cakeshop/pkg/broker"
	"github.com/shashiranjanraj/cakeshop/pkg/cache"
	"github.com/shashiranjanraj/cakeshop/pkg/database"
	"github.com/shashiranjanraj/cakeshop/pkg/event"
	"github.com/shashiranjanraj/cakeshop/pkg/grpc"
	"github.com/shashiranjanraj/cakeshop/pkg/logger"
	"github.com/shashiranjanraj/cakeshop/pkg/migration"
	"github.com/shashiranjanraj/cakeshop/pkg/storage"
)

const shutdownTimeout = 10 * time.Second

// orderEvents are published to Kafka when brokers are configured.
var orderEvents = []string{services.EventOrderCreated, services.EventOrderStatusChanged}

// Start blocks until the process is told to stop.
func Start() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Setup()
	defer logger.Close()

	if err := database.Connect(); err != nil {
		return err
	}
	defer database.Close()

	if err := migration.New(database.DB).Run(); err != nil {
		return err
	}
	if err := seeders.SeedAdmin(database.DB); err != nil {
		logger.Warn("server: admin seed failed", "error", err)
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("server: redis unavailable, product cache off", "error", err)
	}
	defer cache.Close()

	storage.Connect()
	disk := storage.Default()
	if err := disk.MakeDirectory(context.Background(), "uploads"); err != nil {
		return fmt.Errorf("server: uploads directory: %w", err)
	}
	uploadsDir := ""
	if local, ok := disk.(*storage.LocalDisk); ok {
		uploadsDir = filepath.Join(local.Root(), "uploads")
	}

	events := event.NewDispatcher()
	listenOrderEvents(events)
	publisher := broker.FromConfig()
	if publisher != nil {
		publisher.Forward(events, orderEvents...)
		logger.Info("server: publishing order events", "topic", config.OrderEventsTopic())
	}

	k, err := kernel.NewHTTPKernel(kernel.Options{
		DB:                database.DB,
		Cache:             cache.Default(),
		Disk:              disk,
		Events:            events,
		UploadsDir:        uploadsDir,
		StrictTransitions: config.StrictOrderTransitions(),
		RateLimit:         config.RateLimitPerMinute(),
	})
	if err != nil {
		return err
	}

	var grpcSrv *grpc.Server
	if port := config.GRPCPort(); port != "" {
		sqlDB, err := database.DB.DB()
		if err != nil {
			return err
		}
		grpcSrv = grpc.New(sqlDB.PingContext)
		if err := grpcSrv.Start(port); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           k.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		grpcSrv.Stop()
		return err
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server: http shutdown", "error", err)
	}
	grpcSrv.Stop()

	// Let in-flight event listeners (Kafka writes) finish before closing.
	events.Wait()
	if err := publisher.Close(); err != nil {
		logger.Warn("server: close publisher", "error", err)
	}
	return nil
}

func listenOrderEvents(d *event.Dispatcher) {
	d.Listen(services.EventOrderCreated, func(ctx context.Context, e event.Event) {
		logger.WithCtx(ctx).Info("order created", "key", e.Key)
	})
	d.Listen(services.EventOrderStatusChanged, func(ctx context.Context, e event.Event) {
		if c, ok := e.Payload.(services.StatusChange); ok {
			logger.WithCtx(ctx).Info("order status changed", "order_id", c.OrderID, "from", c.From, "to", c.To)
		}
	})
}
