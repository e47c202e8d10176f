package http

import (
	"net/http"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	dash, err := s.insights.Dashboard(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, dash)
}

type categoryEntry struct {
	ID   int64  `json:"category_id"`
	Name string `json:"category_name"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.ledger.Categories(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]categoryEntry, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryEntry{ID: c.ID, Name: c.Name})
	}
	respondJSON(w, http.StatusOK, out)
}
