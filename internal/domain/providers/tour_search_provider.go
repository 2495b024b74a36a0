package providers

import (
	"context"

	"github.com/zatekoja/toursearch/internal/domain/entities"
)

// TourSearchProvider drives an asynchronous price search on the backend
type TourSearchProvider interface {
	// StartSearch submits a price search for a country and returns its job token
	StartSearch(ctx context.Context, countryID string) (*SearchTicket, error)

	// PollSearch asks for the state of a submitted search
	PollSearch(ctx context.Context, token string) (*PollResult, error)
}

// SearchTicket identifies a submitted search job
type SearchTicket struct {
	Token string
	Hint  entities.BackoffHint
}

// PollState discriminates PollResult
type PollState int

const (
	// PollPending means the job is still computing; Hint says when to ask again
	PollPending PollState = iota + 1

	// PollDone means Tours holds the final result
	PollDone
)

func (s PollState) String() string {
	switch s {
	case PollPending:
		return "pending"
	case PollDone:
		return "done"
	}
	return "unknown"
}

// PollResult is the tagged union of poll answers
type PollResult struct {
	State PollState
	Hint  entities.BackoffHint
	Tours []entities.Tour
}

// Pending builds a pending poll answer
func Pending(hint entities.BackoffHint) *PollResult {
	return &PollResult{State: PollPending, Hint: hint}
}

// Done builds a completed poll answer
func Done(tours []entities.Tour) *PollResult {
	return &PollResult{State: PollDone, Tours: tours}
}
