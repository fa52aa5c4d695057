package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Confirmation bridge errors
var (
	ErrConfirmationBusy      = errors.New("a confirmation is already pending")
	ErrNoPendingConfirmation = errors.New("no matching pending confirmation")
)

// PendingConfirmation is the consumer-facing view of the outstanding
// yes/no gate
type PendingConfirmation struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
}

type pendingSlot struct {
	id     string
	prompt string
	answer chan bool
}

// ConfirmationService is a single-slot yes/no gate. A flow that needs a
// user decision calls Request and suspends; the UI reads Pending and calls
// Resolve exactly once. Only one confirmation may be outstanding, so a
// resolution can never target the wrong requester.
type ConfirmationService struct {
	mu      sync.Mutex
	pending *pendingSlot
}

func NewConfirmationService() *ConfirmationService {
	return &ConfirmationService{}
}

// Request registers prompt as the pending confirmation and blocks until it
// is resolved. A second request while one is pending fails with
// ErrConfirmationBusy. Context cancellation counts as answering no: the
// caller is never left suspended.
func (s *ConfirmationService) Request(ctx context.Context, prompt string) (bool, error) {
	s.mu.Lock()
	if s.pending != nil {
		s.mu.Unlock()
		return false, ErrConfirmationBusy
	}
	slot := &pendingSlot{
		id:     uuid.NewString(),
		prompt: prompt,
		answer: make(chan bool, 1),
	}
	s.pending = slot
	s.mu.Unlock()

	select {
	case accepted := <-slot.answer:
		return accepted, nil
	case <-ctx.Done():
		s.clear(slot)
		return false, nil
	}
}

// Resolve fulfills the pending confirmation. The id must match the
// outstanding request; resolving an already-settled confirmation is an
// error, not a double delivery.
func (s *ConfirmationService) Resolve(id string, accepted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil || s.pending.id != id {
		return ErrNoPendingConfirmation
	}
	s.pending.answer <- accepted
	s.pending = nil
	return nil
}

// Pending returns the outstanding confirmation, if any
func (s *ConfirmationService) Pending() (PendingConfirmation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return PendingConfirmation{}, false
	}
	return PendingConfirmation{ID: s.pending.id, Prompt: s.pending.prompt}, true
}

func (s *ConfirmationService) clear(slot *pendingSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == slot {
		s.pending = nil
	}
}
