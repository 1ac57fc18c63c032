package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/budgie-app/budgie/internal/category"
	"github.com/budgie-app/budgie/internal/smartlog"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	amountStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func review(ctx context.Context, session *smartlog.ReviewSession, categories []*category.Category, committer smartlog.Committer) error {
	for _, sg := range session.Suggestions() {
		if err := reviewOne(session, sg, categories); err != nil {
			return err
		}
	}

	approved := session.Approved()
	if len(approved) == 0 {
		fmt.Println(warnStyle.Render("Nothing approved; no transactions were created."))
		return nil
	}

	fmt.Printf("\n%s\n", titleStyle.Render(fmt.Sprintf("Committing %d transaction(s):", len(approved))))

	for _, sg := range approved {
		fmt.Printf("  %s  %s  %s\n",
			amountStyle.Render(fmt.Sprintf("%8.2f", sg.Amount)),
			sg.Title,
			faintStyle.Render(sg.CategoryName),
		)
	}

	var confirmed bool

	confirm := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Create these transactions?").
			Value(&confirmed),
	))
	if err := confirm.Run(); err != nil {
		return err
	}

	if !confirmed {
		fmt.Println("Aborted; nothing was created.")
		return nil
	}

	txs, err := session.Commit(ctx, committer)
	if err != nil {
		if errors.Is(err, smartlog.ErrNoneApproved) {
			fmt.Println(warnStyle.Render("Nothing approved; no transactions were created."))
			return nil
		}

		return err
	}

	fmt.Println(okStyle.Render(fmt.Sprintf("Created %d transaction(s).", len(txs))))

	return nil
}

func reviewOne(session *smartlog.ReviewSession, sg smartlog.Suggestion, categories []*category.Category) error {
	for {
		fmt.Printf("\n%s  %s\n%s\n",
			titleStyle.Render(sg.Title),
			amountStyle.Render(fmt.Sprintf("%.2f", sg.Amount)),
			faintStyle.Render(fmt.Sprintf("%s · %s · confidence: %s", sg.CategoryName, sg.Date, sg.Confidence)),
		)

		var choice string

		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Decision").
				Options(
					huh.NewOption("Approve", "approve"),
					huh.NewOption("Reject", "reject"),
					huh.NewOption("Edit", "edit"),
					huh.NewOption("Skip (leave pending)", "skip"),
				).
				Value(&choice),
		))
		if err := form.Run(); err != nil {
			return err
		}

		switch choice {
		case "approve":
			return session.Approve(sg.ID)
		case "reject":
			return session.Reject(sg.ID)
		case "skip":
			return nil
		case "edit":
			edited, err := editSuggestion(session, sg, categories)
			if err != nil {
				return err
			}

			sg = edited
		}
	}
}

func editSuggestion(session *smartlog.ReviewSession, sg smartlog.Suggestion, categories []*category.Category) (smartlog.Suggestion, error) {
	var (
		title      = sg.Title
		amount     = fmt.Sprintf("%.2f", sg.Amount)
		categoryID = sg.CategoryID
		date       = sg.Date
		desc       = sg.Description
	)

	options := make([]huh.Option[string], len(categories))
	for i, c := range categories {
		options[i] = huh.NewOption(c.Title, c.ID.String())
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Title").
			Value(&title),
		huh.NewInput().
			Title("Amount").
			Value(&amount).
			Validate(func(s string) error {
				_, err := strconv.ParseFloat(s, 64)
				return err
			}),
		huh.NewSelect[string]().
			Title("Category").
			Options(options...).
			Value(&categoryID),
		huh.NewInput().
			Title("Date (YYYY-MM-DD)").
			Value(&date).
			Validate(func(s string) error {
				_, err := time.Parse(time.DateOnly, s)
				return err
			}),
		huh.NewInput().
			Title("Description").
			Value(&desc),
	))
	if err := form.Run(); err != nil {
		return sg, err
	}

	parsedAmount, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return sg, fmt.Errorf("invalid amount: %w", err)
	}

	categoryName := sg.CategoryName

	for _, c := range categories {
		if c.ID.String() == categoryID {
			categoryName = c.Title
			break
		}
	}

	err = session.Edit(sg.ID, smartlog.EditParams{
		Title:        &title,
		Amount:       &parsedAmount,
		CategoryID:   &categoryID,
		CategoryName: &categoryName,
		Date:         &date,
		Description:  &desc,
	})
	if err != nil {
		return sg, err
	}

	for _, updated := range session.Suggestions() {
		if updated.ID == sg.ID {
			return updated, nil
		}
	}

	return sg, nil
}
