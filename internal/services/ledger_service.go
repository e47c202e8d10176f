// Package services orchestrates ledger writes: persist to the store
// first, then publish a change event. Event publishing is best-effort;
// the write already succeeded and a broker outage must not undo it.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/storage"
)

// Publisher is the event sink. A nil publisher disables events.
type Publisher interface {
	Publish(ctx context.Context, event *events.LedgerEvent) error
	Close() error
}

type LedgerService struct {
	store     *storage.Repository
	publisher Publisher
}

func NewLedgerService(store *storage.Repository, publisher Publisher) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
	}
}

// Register creates a user account. Duplicate emails surface as
// core.ErrEmailTaken.
func (s *LedgerService) Register(ctx context.Context, name, email, password string) (int64, error) {
	id, err := s.store.CreateUser(ctx, core.User{Name: name, Email: email, Password: password})
	if err != nil {
		return 0, fmt.Errorf("register user: %w", err)
	}

	s.publishEvent(ctx, events.EntityUser, events.ActionCreated, id, id)
	return id, nil
}

// Login returns the user matching the given credentials, or
// core.ErrNotFound.
func (s *LedgerService) Login(ctx context.Context, email, password string) (core.User, error) {
	u, err := s.store.UserByCredentials(ctx, email, password)
	if err != nil {
		return core.User{}, err
	}
	return u, nil
}

func (s *LedgerService) Categories(ctx context.Context) ([]core.Category, error) {
	return s.store.Categories(ctx)
}

func (s *LedgerService) Transactions(ctx context.Context, userID int64) ([]core.TransactionWithCategory, error) {
	return s.store.TransactionsByUser(ctx, userID)
}

func (s *LedgerService) CreateTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	id, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}

	s.publishEvent(ctx, events.EntityTransaction, events.ActionCreated, id, tx.UserID)
	return id, nil
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	userID, err := s.store.UpdateTransaction(ctx, tx)
	if err != nil {
		return err
	}

	s.publishEvent(ctx, events.EntityTransaction, events.ActionUpdated, tx.ID, userID)
	return nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64) error {
	userID, err := s.store.DeleteTransaction(ctx, id)
	if err != nil {
		return err
	}

	s.publishEvent(ctx, events.EntityTransaction, events.ActionDeleted, id, userID)
	return nil
}

func (s *LedgerService) CreateBudget(ctx context.Context, b core.Budget) (int64, error) {
	id, err := s.store.CreateBudget(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("create budget: %w", err)
	}

	s.publishEvent(ctx, events.EntityBudget, events.ActionCreated, id, b.UserID)
	return id, nil
}

func (s *LedgerService) UpdateBudgetLimit(ctx context.Context, id int64, limit core.Money) error {
	userID, err := s.store.UpdateBudgetLimit(ctx, id, limit)
	if err != nil {
		return err
	}

	s.publishEvent(ctx, events.EntityBudget, events.ActionUpdated, id, userID)
	return nil
}

func (s *LedgerService) DeleteBudget(ctx context.Context, id int64) error {
	userID, err := s.store.DeleteBudget(ctx, id)
	if err != nil {
		return err
	}

	s.publishEvent(ctx, events.EntityBudget, events.ActionDeleted, id, userID)
	return nil
}

func (s *LedgerService) CreateGoal(ctx context.Context, g core.Goal) (int64, error) {
	id, err := s.store.CreateGoal(ctx, g)
	if err != nil {
		return 0, fmt.Errorf("create goal: %w", err)
	}

	s.publishEvent(ctx, events.EntityGoal, events.ActionCreated, id, g.UserID)
	return id, nil
}

// AddSavings applies an additive increment to a goal's saved amount.
func (s *LedgerService) AddSavings(ctx context.Context, goalID int64, amount core.Money) error {
	userID, err := s.store.AddSavings(ctx, goalID, amount)
	if err != nil {
		return err
	}

	s.publishEvent(ctx, events.EntityGoal, events.ActionSaved, goalID, userID)
	return nil
}

func (s *LedgerService) DeleteGoal(ctx context.Context, id int64) error {
	userID, err := s.store.DeleteGoal(ctx, id)
	if err != nil {
		return err
	}

	s.publishEvent(ctx, events.EntityGoal, events.ActionDeleted, id, userID)
	return nil
}

func (s *LedgerService) publishEvent(ctx context.Context, entity, action string, entityID, userID int64) {
	if s.publisher == nil {
		return
	}

	event := events.NewLedgerEvent(entity, action, entityID, userID)
	if err := s.publisher.Publish(ctx, event); err != nil {
		// The store write already succeeded; losing the event only
		// delays the audit trail.
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"error", err,
			"entity", entity,
			"action", action,
			"entity_id", entityID)
	}
}

// Close closes both storage and the event publisher.
func (s *LedgerService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}

	return nil
}
