package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	walog "go.mau.fi/whatsmeow/util/log"

	"github.com/fardannozami/activity-dashboard/internal/app/usecase"
	"github.com/fardannozami/activity-dashboard/internal/config"
	"github.com/fardannozami/activity-dashboard/internal/infra/history"
	"github.com/fardannozami/activity-dashboard/internal/infra/wa"
)

func main() {
	// 1. Load Config
	cfg := config.Load()

	// 2. Logger
	logger := walog.Stdout("Bot", cfg.LogLevel, true)

	// 3. Report history, shared with the dashboard
	repo, closeRepo, err := history.Open(context.Background(), cfg, logger.Sub("History"))
	if err != nil {
		log.Fatalf("Failed to open report history: %v", err)
	}
	defer closeRepo()

	// 4. Use Cases
	historyUC := usecase.NewReportHistoryUsecase(repo)
	insightsUC := usecase.NewReportInsightsUsecase(historyUC)
	leaderboardUC := usecase.NewGetLeaderboardUsecase(historyUC)
	handleMessageUC := usecase.NewHandleMessageUsecase(insightsUC, leaderboardUC)

	// 5. WhatsApp Service
	waService := wa.NewService(cfg.SQLitePath, logger)
	if err := waService.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize WhatsApp service: %v", err)
	}
	waService.HandleCommands(handleMessageUC, wa.ReplyOptions{
		GroupID:         cfg.GroupID,
		ReplyDelayMinMs: cfg.ReplyDelayMinMs,
		ReplyDelayMaxMs: cfg.ReplyDelayMaxMs,
		ShowTyping:      cfg.ShowTyping,
	})

	// 6. Connect / Login Logic
	if !waService.IsLoggedIn() {
		if cfg.BotPhone != "" {
			if err := waService.Connect(); err != nil {
				log.Fatalf("Failed to connect for pairing: %v", err)
			}

			log.Println("Not logged in. Attempting to pair with phone:", cfg.BotPhone)
			code, err := waService.Pair(cfg.BotPhone)
			if err != nil {
				log.Printf("Failed to generate pair code: %v", err)
			} else {
				log.Println("==================================================")
				log.Printf("PAIR CODE: %s", code)
				log.Println("==================================================")
				log.Println("Please verify this code on your WhatsApp (Linked Devices > Link with phone number)")
			}
		} else {
			log.Println("Not logged in. BOT_PHONE not set. Printing QR...")
			// PrintQR connects on its own so the QR channel exists before the first event.
			waService.PrintQR()
		}
	} else {
		if err := waService.Connect(); err != nil {
			log.Fatalf("Failed to connect: %v", err)
		}
		log.Println("Client is already logged in.")
	}

	log.Println("Bot is running... Press Ctrl+C to exit.")

	// 7. Wait for OS Signal
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Println("Shutting down...")
	waService.Disconnect()
}
