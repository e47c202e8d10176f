package http

import (
	"net/http"
)

const topCategoriesLimit = 5

func (s *Server) handleIncomeExpenseInsight(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	months, err := s.insights.IncomeExpenseByMonth(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, months)
}

func (s *Server) handleCategorySpending(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	spending, err := s.insights.CategorySpending(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, spending)
}

func (s *Server) handleSavingsTrend(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	trend, err := s.insights.SavingsTrendByMonth(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, trend)
}

func (s *Server) handleTopCategories(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	top, err := s.insights.TopCategories(r.Context(), userID, topCategoriesLimit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, top)
}
