package http

import (
	"encoding/json"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/metrics"
)

type transactionRequest struct {
	UserID      int64       `json:"userId"`
	CategoryID  int64       `json:"category"`
	Type        string      `json:"type"`
	Amount      json.Number `json:"amount"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
}

// parseTransaction validates the request into a domain transaction
// before any store access happens.
func parseTransaction(r *http.Request) (core.Transaction, error) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		return core.Transaction{}, err
	}

	amount, err := parseAmountField("amount", req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := parseDateField("date", req.Date)
	if err != nil {
		return core.Transaction{}, err
	}

	tx := core.Transaction{
		UserID:      req.UserID,
		CategoryID:  req.CategoryID,
		Type:        core.TransactionType(req.Type),
		Amount:      amount,
		Date:        date,
		Description: sanitizeInput(req.Description),
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	txs, err := s.ledger.Transactions(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	rows := make([]metrics.TransactionRow, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, metrics.TransactionRow{
			ID:           t.ID,
			Date:         t.Date.String(),
			Amount:       t.Amount.Float64(),
			Type:         string(t.Type),
			Description:  t.Description,
			CategoryName: t.CategoryName,
		})
	}
	respondJSON(w, http.StatusOK, rows)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := parseTransaction(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	id, err := s.ledger.CreateTransaction(r.Context(), tx)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, idBody{ID: id})
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	tx, err := parseTransaction(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	tx.ID = id

	if err := s.ledger.UpdateTransaction(r.Context(), tx); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, messageBody{Message: "transaction updated"})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, messageBody{Message: "transaction deleted"})
}
