package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"qook-backend/internal/app"
	"qook-backend/internal/metrics"
	"qook-backend/internal/planner"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleSystemHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, metrics.GetSysHealth(s.dataDir))
}

func (s *Server) handleGenerateWeeklyPlan(w http.ResponseWriter, r *http.Request) {
	var req planner.PlanRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.app.GenerateWeeklyPlan(r.Context(), &req)
	if err != nil {
		var genErr *planner.GenerationError
		if errors.As(err, &genErr) {
			s.writeError(w, http.StatusInternalServerError, genErr.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":            "success",
		"plan_id":           result.PlanID,
		"days":              result.Days,
		"zero_waste_report": result.ZeroWasteReport,
	})
}

func (s *Server) handleRecipeDetails(w http.ResponseWriter, r *http.Request) {
	var req app.DetailsRequest
	if !s.decode(w, r, &req) {
		return
	}

	details, err := s.app.RecipeDetails(r.Context(), req)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"details": details,
	})
}

func (s *Server) handleReplaceMeal(w http.ResponseWriter, r *http.Request) {
	var req app.ReplaceRequest
	if !s.decode(w, r, &req) {
		return
	}

	meal, err := s.app.ReplaceMeal(r.Context(), req)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"meal":   meal,
	})
}

func (s *Server) handleShoppingList(w http.ResponseWriter, r *http.Request) {
	var req app.ShoppingRequest
	if !s.decode(w, r, &req) {
		return
	}

	items, err := s.app.GenerateShoppingList(r.Context(), req)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"items":  items,
	})
}

func (s *Server) handleAnalyzeFridge(w http.ResponseWriter, r *http.Request) {
	var req app.FridgeRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.app.AnalyzeFridge(r.Context(), req)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSaveMealImage(w http.ResponseWriter, r *http.Request) {
	var req app.SaveImageRequest
	if !s.decode(w, r, &req) {
		return
	}

	url, err := s.app.SaveMealImage(r.Context(), req)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "success",
		"image_url": url,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req app.ChatRequest
	if !s.decode(w, r, &req) {
		return
	}

	reply, err := s.app.Chat(r.Context(), req)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"reply":  reply,
	})
}

func (s *Server) handleCheckSubscription(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	status, err := s.app.CheckSubscription(token)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":       "success",
		"subscription": status,
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token
	}
	return ""
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.log.Error("request failed", "status", status, "detail", detail)
	s.writeJSON(w, status, map[string]any{
		"status": "error",
		"detail": detail,
	})
}
