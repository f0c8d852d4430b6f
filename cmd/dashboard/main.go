package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	walog "go.mau.fi/whatsmeow/util/log"

	"github.com/fardannozami/activity-dashboard/internal/api"
	"github.com/fardannozami/activity-dashboard/internal/app/usecase"
	"github.com/fardannozami/activity-dashboard/internal/config"
	"github.com/fardannozami/activity-dashboard/internal/domain"
	"github.com/fardannozami/activity-dashboard/internal/infra/broker"
	"github.com/fardannozami/activity-dashboard/internal/infra/history"
	httptransport "github.com/fardannozami/activity-dashboard/internal/transport/http"
)

func main() {
	cfg := config.Load()
	logger := walog.Stdout("Dashboard", cfg.LogLevel, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, closeRepo, err := history.Open(ctx, cfg, logger.Sub("History"))
	if err != nil {
		log.Fatalf("Failed to open report history: %v", err)
	}
	defer closeRepo()

	var sinks broker.Fanout
	if len(cfg.KafkaBrokers) > 0 {
		p := broker.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer p.Close()
		sinks = append(sinks, p)
		logger.Infof("Publishing report events to kafka topic %s", cfg.KafkaTopic)
	}
	if cfg.AMQPURL != "" {
		p, err := broker.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatalf("Failed to set up rabbitmq publisher: %v", err)
		}
		defer p.Close()
		sinks = append(sinks, p)
		logger.Infof("Publishing report events to rabbitmq exchange %s", cfg.AMQPExchange)
	}

	// Left as a nil interface when no sink is configured so the use case skips publishing.
	var publisher domain.ReportPublisher
	if len(sinks) > 0 {
		publisher = sinks
	}

	generateUC := usecase.NewGenerateReportUsecase(repo, publisher, logger.Sub("Reports"))
	historyUC := usecase.NewReportHistoryUsecase(repo)

	handler := api.NewHandler(generateUC, historyUC, api.Options{
		DefaultTopN:    cfg.DefaultTopN,
		MaxUploadBytes: cfg.MaxUploadBytes(),
	}, logger.Sub("API"))
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, httptransport.RequestLogger(logger.Sub("HTTP"), mux))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Infof("Dashboard listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("Graceful shutdown failed: %v", err)
	}
}
