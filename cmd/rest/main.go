package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docpanel-be/internal/bootstrap"
	"docpanel-be/internal/config"
	"docpanel-be/internal/server"
	"docpanel-be/internal/tracer"
	"docpanel-be/pkg/database"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	shutdownTracer := tracer.InitTracer(ctx)
	defer shutdownTracer(context.Background())

	// Generation history is optional; without a DSN the service runs stateless.
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		gormDB = db
	} else {
		log.Println("Note: DB_CONNECTION_STRING not set, generation history disabled")
	}

	container := bootstrap.NewContainer(ctx, gormDB, cfg)
	srv := server.New(cfg, container)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return container.ConsumerService.Consume(gctx)
	})
	g.Go(func() error {
		container.WebSocketHub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return srv.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	container.Close()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Server stopped with error: %v", err)
	}
	log.Println("Server stopped")
}
