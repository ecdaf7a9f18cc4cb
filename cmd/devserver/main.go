package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/oleastore/storefront/internal/config"
	"github.com/oleastore/storefront/internal/devserver"
	"github.com/oleastore/storefront/internal/logging"
)

func main() {
	cfg := config.LoadServer()
	logger := logging.New(cfg.LogLevel)

	db, err := devserver.InitDB(context.Background(), cfg.DatabaseURL, "")
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	var producer *devserver.Producer
	if cfg.KafkaAddress != "" {
		producer = devserver.NewProducer(cfg.KafkaAddress)
	}

	var es *elasticsearch.Client
	if cfg.ESURL != "" {
		es, err = devserver.NewESClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch init: %v", err)
		}
	}

	e := devserver.New(cfg, db, producer, es, logger)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()
	logger.Info("devserver_started", "addr", cfg.ListenAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
