package http

import (
	"encoding/json"
	"net/http"

	"fintrack/internal/core"
)

type goalRequest struct {
	UserID   int64       `json:"userId"`
	Name     string      `json:"name"`
	Target   json.Number `json:"target"`
	Deadline string      `json:"deadline"`
}

type savingsRequest struct {
	Amount json.Number `json:"amount"`
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	goals, err := s.insights.SavingGoalsSnapshot(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, goals)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	target, err := parseAmountField("target", req.Target)
	if err != nil {
		respondError(w, r, err)
		return
	}
	deadline, err := parseDateField("deadline", req.Deadline)
	if err != nil {
		respondError(w, r, err)
		return
	}

	g := core.Goal{
		UserID:   req.UserID,
		Name:     sanitizeInput(req.Name),
		Target:   target,
		Deadline: deadline,
	}
	if err := g.Validate(); err != nil {
		respondError(w, r, err)
		return
	}

	id, err := s.ledger.CreateGoal(r.Context(), g)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, idBody{ID: id})
}

// handleAddSavings applies a strictly positive, additive increment to
// the goal's saved amount. The amount adds to the stored value; it
// never replaces it.
func (s *Server) handleAddSavings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req savingsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	amount, err := parseAmountField("amount", req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.ledger.AddSavings(r.Context(), id, amount); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, messageBody{Message: "savings updated"})
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.ledger.DeleteGoal(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, messageBody{Message: "goal deleted"})
}
