package http

import (
	"encoding/json"
	"net/http"

	"fintrack/internal/core"
)

type budgetRequest struct {
	UserID       int64       `json:"userId"`
	CategoryID   int64       `json:"category_id"`
	MonthlyLimit json.Number `json:"monthly_limit"`
}

type budgetLimitRequest struct {
	MonthlyLimit json.Number `json:"monthly_limit"`
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	budgets, err := s.insights.BudgetsWithSpend(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, budgets)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	limit, err := parseAmountField("monthly_limit", req.MonthlyLimit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	b := core.Budget{
		UserID:       req.UserID,
		CategoryID:   req.CategoryID,
		MonthlyLimit: limit,
	}
	if err := b.Validate(); err != nil {
		respondError(w, r, err)
		return
	}

	id, err := s.ledger.CreateBudget(r.Context(), b)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, idBody{ID: id})
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req budgetLimitRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	limit, err := parseAmountField("monthly_limit", req.MonthlyLimit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.ledger.UpdateBudgetLimit(r.Context(), id, limit); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, messageBody{Message: "budget updated"})
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.ledger.DeleteBudget(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, messageBody{Message: "budget deleted"})
}
