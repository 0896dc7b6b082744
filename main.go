package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v8"
	"github.com/go-playground/validator/v10"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/chucky-1/expenses/internal/client"
	"github.com/chucky-1/expenses/internal/config"
	"github.com/chucky-1/expenses/internal/consumer"
	"github.com/chucky-1/expenses/internal/dialog"
	"github.com/chucky-1/expenses/internal/handlers"
	"github.com/chucky-1/expenses/internal/repository"
	"github.com/chucky-1/expenses/internal/server"
	"github.com/chucky-1/expenses/internal/service"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found")
	}

	cfg := config.Config{}
	if err := env.Parse(&cfg); err != nil {
		logrus.Fatalf("couldn't parse config: %v", err)
	}

	repo, err := repository.NewExpenses(cfg.SqlitePath)
	if err != nil {
		logrus.Fatal(err)
	}
	defer repo.Close()

	converter := service.NewExchangeRates(cfg.Currency.RateURL, cfg.Currency.Target, cfg.Currency.Strict,
		cfg.Currency.Timeout, cfg.Currency.RetryAttempts)
	expenses := service.NewExpenses(repo, converter)

	expenseHandler := handlers.NewExpense(expenses, validator.New())
	srv := server.New(cfg.Server.Bind, cfg.Server.ShutdownTimeout, expenseHandler)
	go func() {
		if runErr := srv.Run(ctx); runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
			logrus.Fatalf("expense api stopped: %v", runErr)
		}
	}()

	bot, err := tgbotapi.NewBotAPI(os.Getenv("TG_TOKEN"))
	if err != nil {
		logrus.Fatal(err)
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = cfg.Telegram.Timeout
	updatesChan := bot.GetUpdatesChan(updateConfig)

	sessions := dialog.NewSessions(cfg.Session.TTL)
	apiClient := client.NewExpense(cfg.Telegram.APIURL, cfg.Telegram.APITimeout)

	tgBot := consumer.NewBot(bot, updatesChan, sessions, apiClient, cfg.Session.TTL)
	go tgBot.Consume(ctx)

	janitor := consumer.NewJanitor(sessions, cfg.Session.JanitorInterval)
	go janitor.Consume(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, os.Interrupt)
	<-quit
	cancel()
	<-time.After(2 * time.Second)
}
