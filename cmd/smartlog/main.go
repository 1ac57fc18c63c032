package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/budgie-app/budgie/internal/budget"
	budgetStore "github.com/budgie-app/budgie/internal/budget/store"
	"github.com/budgie-app/budgie/internal/category"
	categoryStore "github.com/budgie-app/budgie/internal/category/store"
	"github.com/budgie-app/budgie/internal/config"
	"github.com/budgie-app/budgie/internal/database"
	"github.com/budgie-app/budgie/internal/receipt"
	"github.com/budgie-app/budgie/internal/smartlog"
	"github.com/budgie-app/budgie/internal/transaction"
	txStore "github.com/budgie-app/budgie/internal/transaction/store"
)

var budgetFlag string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "smartlog <image>...",
	Short: "Extract transactions from receipt images and review them",
	Long: `Smartlog sends receipt images to Gemini, turns them into suggested
transactions against the month's budget, and walks you through an
approve/reject/edit review before committing the approved ones.`,
	Args: cobra.RangeArgs(1, receipt.MaxImages),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return run(cmd.Context(), args)
	},
}

func init() {
	rootCmd.Flags().StringVar(&budgetFlag, "budget", "", "monthly budget id (defaults to the current month)")
}

func run(ctx context.Context, imagePaths []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	generator, err := smartlog.NewGeminiGenerator(ctx, cfg.Gemini.APIKey)
	if err != nil {
		return err
	}

	var (
		categoryService    = category.NewService(categoryStore.New(db))
		transactionService = transaction.NewService(txStore.New(db))
		budgetService      = budget.NewService(budgetStore.New(db), categoryService, transactionService)
		orchestrator       = smartlog.NewOrchestrator(generator, cfg.Gemini.Model)
	)

	b, err := resolveBudget(ctx, budgetService)
	if err != nil {
		return err
	}

	images, err := loadImages(imagePaths)
	if err != nil {
		return err
	}

	categories, err := categoryService.ListByBudget(ctx, b.ID)
	if err != nil {
		return fmt.Errorf("listing categories: %w", err)
	}

	transactions, err := transactionService.ListByBudget(ctx, b.ID)
	if err != nil {
		return fmt.Errorf("listing transactions: %w", err)
	}

	fmt.Printf("Analyzing %d image(s) against the %s budget...\n",
		len(images), b.Month.Format("January 2006"))

	suggestions, err := orchestrator.Analyze(ctx, smartlog.Input{
		Images:       images,
		Categories:   toCategoryContext(categories),
		Transactions: toTransactionContext(transactions),
	})
	if err != nil {
		return fmt.Errorf("analyzing receipts: %w", err)
	}

	if len(suggestions) == 0 {
		fmt.Println("No transactions found on the receipts.")
		return nil
	}

	session := smartlog.NewReviewSession(suggestions)

	return review(ctx, session, categories, transactionService)
}

func resolveBudget(ctx context.Context, svc *budget.Service) (*budget.MonthlyBudget, error) {
	if budgetFlag == "" {
		b, err := svc.Current(ctx)
		if err != nil {
			return nil, fmt.Errorf("no budget for the current month; pass --budget: %w", err)
		}

		return b, nil
	}

	id, err := uuid.Parse(budgetFlag)
	if err != nil {
		return nil, fmt.Errorf("invalid --budget id: %w", err)
	}

	return svc.Get(ctx, id)
}

func loadImages(paths []string) ([]receipt.Image, error) {
	var batch receipt.Batch

	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		if !batch.Add(raw) {
			fmt.Fprintf(os.Stderr, "skipping %s: at most %d images per batch\n", path, receipt.MaxImages)
		}
	}

	images, err := batch.Normalize()
	if err != nil {
		return nil, fmt.Errorf("preparing images: %w", err)
	}

	return images, nil
}

func toCategoryContext(categories []*category.Category) []smartlog.CategoryContext {
	out := make([]smartlog.CategoryContext, len(categories))
	for i, c := range categories {
		out[i] = smartlog.CategoryContext{
			ID:       c.ID.String(),
			Title:    c.Title,
			Budgeted: c.AmountBudgeted,
		}
	}

	return out
}

func toTransactionContext(transactions []*transaction.Transaction) []smartlog.TransactionContext {
	out := make([]smartlog.TransactionContext, len(transactions))
	for i, tx := range transactions {
		out[i] = smartlog.TransactionContext{
			ID:     tx.ID.String(),
			Title:  tx.Title,
			Amount: tx.Amount,
			Date:   tx.Date.Format(time.DateOnly),
		}
	}

	return out
}
