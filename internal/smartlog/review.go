package smartlog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/budgie-app/budgie/internal/transaction"
)

var (
	// ErrSuggestionNotFound is returned when no suggestion has the given id.
	ErrSuggestionNotFound = errors.New("suggestion not found")

	// ErrInvalidTransition is returned for a disallowed status change, such
	// as rejecting an approved suggestion without resetting it first.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrEditRejected is returned when editing a rejected suggestion.
	ErrEditRejected = errors.New("cannot edit a rejected suggestion")

	// ErrNoneApproved is returned by Commit when no suggestion is approved.
	ErrNoneApproved = errors.New("no approved suggestions to commit")
)

// Committer persists the approved subset of a review session.
// *transaction.Service satisfies it.
type Committer interface {
	CreateBatch(ctx context.Context, params []transaction.CreateParams) ([]*transaction.Transaction, error)
}

// ReviewSession holds extracted suggestions while the user approves,
// rejects and edits them. It is owned by a single caller and is not safe
// for concurrent use.
type ReviewSession struct {
	suggestions []*Suggestion
}

func NewReviewSession(suggestions []Suggestion) *ReviewSession {
	s := &ReviewSession{suggestions: make([]*Suggestion, len(suggestions))}
	for i := range suggestions {
		sg := suggestions[i]
		s.suggestions[i] = &sg
	}

	return s
}

// Suggestions returns a snapshot of the session in its current order.
func (s *ReviewSession) Suggestions() []Suggestion {
	out := make([]Suggestion, len(s.suggestions))
	for i, sg := range s.suggestions {
		out[i] = *sg
	}

	return out
}

func (s *ReviewSession) Len() int {
	return len(s.suggestions)
}

func (s *ReviewSession) find(id string) (*Suggestion, error) {
	for _, sg := range s.suggestions {
		if sg.ID == id {
			return sg, nil
		}
	}

	return nil, ErrSuggestionNotFound
}

// Approve moves a pending suggestion to approved.
func (s *ReviewSession) Approve(id string) error {
	return s.transition(id, StatusPending, StatusApproved)
}

// Reject moves a pending suggestion to rejected. An approved suggestion
// must be reset to pending first.
func (s *ReviewSession) Reject(id string) error {
	return s.transition(id, StatusPending, StatusRejected)
}

// Reset undoes an approval or rejection, returning the suggestion to
// pending.
func (s *ReviewSession) Reset(id string) error {
	sg, err := s.find(id)
	if err != nil {
		return err
	}

	if sg.Status == StatusPending {
		return fmt.Errorf("%w: already pending", ErrInvalidTransition)
	}

	sg.Status = StatusPending

	return nil
}

func (s *ReviewSession) transition(id string, from, to Status) error {
	sg, err := s.find(id)
	if err != nil {
		return err
	}

	if sg.Status != from {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, sg.Status, to)
	}

	sg.Status = to

	return nil
}

// ApproveAll approves every pending suggestion and reports how many changed.
func (s *ReviewSession) ApproveAll() int {
	n := 0

	for _, sg := range s.suggestions {
		if sg.Status == StatusPending {
			sg.Status = StatusApproved
			n++
		}
	}

	return n
}

// EditParams carries field updates; nil fields are left unchanged.
type EditParams struct {
	Title        *string
	Amount       *float64
	CategoryID   *string
	CategoryName *string
	Date         *string
	Description  *string
}

// Edit updates fields of a suggestion without touching its status. Rejected
// suggestions cannot be edited.
func (s *ReviewSession) Edit(id string, edit EditParams) error {
	sg, err := s.find(id)
	if err != nil {
		return err
	}

	if sg.Status == StatusRejected {
		return ErrEditRejected
	}

	if edit.Title != nil {
		sg.Title = *edit.Title
	}

	if edit.Amount != nil {
		sg.Amount = *edit.Amount
	}

	if edit.CategoryID != nil {
		sg.CategoryID = *edit.CategoryID
	}

	if edit.CategoryName != nil {
		sg.CategoryName = *edit.CategoryName
	}

	if edit.Date != nil {
		sg.Date = *edit.Date
	}

	if edit.Description != nil {
		sg.Description = *edit.Description
	}

	return nil
}

// Approved returns the currently approved suggestions.
func (s *ReviewSession) Approved() []Suggestion {
	var out []Suggestion

	for _, sg := range s.suggestions {
		if sg.Status == StatusApproved {
			out = append(out, *sg)
		}
	}

	return out
}

// Commit persists every approved suggestion in one batched create. With no
// approvals it refuses with ErrNoneApproved before touching the committer.
// On success the session is cleared; on failure it is left untouched so the
// user can retry without re-running extraction.
func (s *ReviewSession) Commit(ctx context.Context, committer Committer) ([]*transaction.Transaction, error) {
	approved := s.Approved()
	if len(approved) == 0 {
		return nil, ErrNoneApproved
	}

	params := make([]transaction.CreateParams, len(approved))

	for i, sg := range approved {
		categoryID, err := uuid.Parse(sg.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("suggestion %s: invalid category id: %w", sg.ID, err)
		}

		date, err := time.Parse(time.DateOnly, sg.Date)
		if err != nil {
			return nil, fmt.Errorf("suggestion %s: invalid date: %w", sg.ID, err)
		}

		params[i] = transaction.CreateParams{
			CategoryID:  categoryID,
			Title:       sg.Title,
			Amount:      sg.Amount,
			Date:        date,
			Description: sg.Description,
		}
	}

	txs, err := committer.CreateBatch(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("committing suggestions: %w", err)
	}

	s.suggestions = nil

	return txs, nil
}
