// Package transactions provides CRUD over income/expense records and the
// all-time balance.
package transactions

import (
	"errors"
	"fmt"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/storage"
)

var (
	// ErrInvalidType is returned when a transaction type is neither income
	// nor expense.
	ErrInvalidType = errors.New("transaction type must be income or expense")
	// ErrNotFound is returned when no transaction matches (id, user id).
	ErrNotFound = errors.New("transaction not found")
)

// Store is the persistence surface the transaction service needs.
type Store interface {
	CreateTransaction(t *models.Transaction) (int64, error)
	GetTransaction(id, userID int64) (*models.Transaction, error)
	UpdateTransaction(t *models.Transaction) (bool, error)
	DeleteTransaction(id, userID int64) (bool, error)
	ListTransactions(userID int64, f storage.TransactionFilter) ([]models.Transaction, error)
	Balance(userID int64) (float64, error)
}

// Service manages a user's transactions.
type Service struct {
	store Store
}

// NewService creates a transaction service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Add records a new transaction with a server-assigned timestamp.
func (s *Service) Add(userID int64, typ models.TransactionType, category string, amount float64, description string) (int64, error) {
	return s.AddAt(userID, typ, category, amount, description, time.Time{})
}

// AddAt records a transaction dated at the given time; a zero date means now.
func (s *Service) AddAt(userID int64, typ models.TransactionType, category string, amount float64, description string, date time.Time) (int64, error) {
	if !typ.Valid() {
		return 0, ErrInvalidType
	}
	id, err := s.store.CreateTransaction(&models.Transaction{
		UserID:      userID,
		Type:        typ,
		Category:    category,
		Amount:      amount,
		Description: description,
		Date:        date,
	})
	if err != nil {
		return 0, fmt.Errorf("add transaction: %w", err)
	}
	return id, nil
}

// Changes holds the fields of a partial update. Zero values keep the
// current value.
type Changes struct {
	Type        models.TransactionType
	Category    string
	Amount      float64
	Description string
}

// Update applies a partial update to a transaction owned by userID. Fields
// left at their zero value retain the stored value. Returns ErrNotFound when
// no transaction matches (id, userID).
func (s *Service) Update(id, userID int64, c Changes) error {
	if c.Type != "" && !c.Type.Valid() {
		return ErrInvalidType
	}

	current, err := s.store.GetTransaction(id, userID)
	if err != nil {
		return ErrNotFound
	}

	if c.Type != "" {
		current.Type = c.Type
	}
	if c.Category != "" {
		current.Category = c.Category
	}
	if c.Amount != 0 {
		current.Amount = c.Amount
	}
	if c.Description != "" {
		current.Description = c.Description
	}

	updated, err := s.store.UpdateTransaction(current)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if !updated {
		return ErrNotFound
	}
	return nil
}

// Delete removes a transaction owned by userID. Deleting an id that belongs
// to another user (or does not exist) returns ErrNotFound.
func (s *Service) Delete(id, userID int64) error {
	deleted, err := s.store.DeleteTransaction(id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// List retrieves a user's transactions, most recent first. All set filters
// apply together; unset filters are unconstrained.
func (s *Service) List(userID int64, f storage.TransactionFilter) ([]models.Transaction, error) {
	return s.store.ListTransactions(userID, f)
}

// Balance returns all-time income minus all-time expenses.
func (s *Service) Balance(userID int64) (float64, error) {
	return s.store.Balance(userID)
}
