package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"microfin/internal/config"
	"microfin/internal/db"
	"microfin/internal/handlers"
	"microfin/internal/mailer"
	"microfin/internal/services"
	"microfin/internal/store"
	"microfin/internal/upload"
	"microfin/internal/websocket"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	users := store.NewUserStore(database)
	officers := store.NewOfficerStore(database)
	clients := store.NewClientStore(database)
	accounts := store.NewAccountStore(database)
	loans := store.NewLoanStore(database)
	transactions := store.NewTransactionStore(database)
	tickets := store.NewTicketStore(database)
	reports := store.NewReportStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()
	notifier := mailer.New(cfg, logger)

	uploads, err := upload.NewSaver(cfg.UploadDir)
	if err != nil {
		log.Fatalf("failed to prepare upload dir: %v", err)
	}

	loanSvc := services.NewLoanService(txRunner, loans, clients, audit, notifier, logger)
	txnSvc := services.NewTransactionService(txRunner, transactions, accounts, loans, clients, audit, notifier, hub, logger)

	handler := handlers.New(database, txRunner, cfg, users, officers, clients, accounts, loans, transactions, tickets, reports, audit, loanSvc, txnSvc, uploads, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("microfinance API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
