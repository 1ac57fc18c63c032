package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/budgie-app/budgie/internal/auth"
	"github.com/budgie-app/budgie/internal/budget"
	budgetStore "github.com/budgie-app/budgie/internal/budget/store"
	"github.com/budgie-app/budgie/internal/category"
	categoryStore "github.com/budgie-app/budgie/internal/category/store"
	"github.com/budgie-app/budgie/internal/config"
	"github.com/budgie-app/budgie/internal/database"
	budgieHttp "github.com/budgie-app/budgie/internal/http"
	authHandler "github.com/budgie-app/budgie/internal/http/auth"
	budgetHandler "github.com/budgie-app/budgie/internal/http/budget"
	categoryHandler "github.com/budgie-app/budgie/internal/http/category"
	smartlogHandler "github.com/budgie-app/budgie/internal/http/smartlog"
	txHandler "github.com/budgie-app/budgie/internal/http/transaction"
	"github.com/budgie-app/budgie/internal/smartlog"
	"github.com/budgie-app/budgie/internal/transaction"
	txStore "github.com/budgie-app/budgie/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	var generator smartlog.Generator

	if cfg.Gemini.APIKey != "" {
		generator, err = smartlog.NewGeminiGenerator(context.Background(), cfg.Gemini.APIKey)
		if err != nil {
			slog.Error("failed to create gemini client", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Warn("GEMINI_API_KEY not set; smart logging is disabled")
	}

	var (
		authService        = auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.Username, cfg.Auth.PasswordHash, cfg.Auth.TokenTTL)
		categoryService    = category.NewService(categoryStore.New(db))
		transactionService = transaction.NewService(txStore.New(db))
		budgetService      = budget.NewService(budgetStore.New(db), categoryService, transactionService)
		orchestrator       = smartlog.NewOrchestrator(generator, cfg.Gemini.Model)
	)

	var (
		authH        = authHandler.NewHandler(authService)
		smartlogH    = smartlogHandler.NewHandler(orchestrator, categoryService, transactionService)
		budgetH      = budgetHandler.NewHandler(budgetService)
		categoryH    = categoryHandler.NewHandler(categoryService)
		transactionH = txHandler.NewHandler(transactionService)
	)

	router := budgieHttp.New(authService, authH, smartlogH, budgetH, categoryH, transactionH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
