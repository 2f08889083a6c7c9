package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/engine"
)

type startCookingRequest struct {
	RecipeID string `json:"recipe_id"`
}

func (s *Server) startCooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	var req startCookingRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.RecipeID == "" {
		s.fail(w, r, fmt.Errorf("%w: recipe_id is required", domain.ErrInvalid))
		return
	}

	session, err := s.cook.StartSession(r.Context(), req.RecipeID, actor)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	snap, err := s.cook.Status(r.Context(), session.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// ownSession checks that the caller started the session. Someone else's
// session reads as not found.
func (s *Server) ownSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	actor, ok := caller(w, r)
	if !ok {
		return "", false
	}
	id := pathVar(r, "id")
	session, err := s.cook.Session(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return "", false
	}
	if session.UserID != actor {
		s.fail(w, r, fmt.Errorf("session %s: %w", id, domain.ErrNotFound))
		return "", false
	}
	return id, true
}

func (s *Server) cookStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.ownSession(w, r)
	if !ok {
		return
	}
	snap, err := s.cook.Status(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) cookToggle(w http.ResponseWriter, r *http.Request) {
	id, ok := s.ownSession(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(pathVar(r, "index"))
	if err != nil {
		s.fail(w, r, fmt.Errorf("%w: ingredient index must be an integer", domain.ErrInvalid))
		return
	}
	snap, err := s.cook.ToggleIngredient(r.Context(), id, index)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// cookStep adapts an argument-free navigator operation to a handler.
func (s *Server) cookStep(op func(ctx context.Context, sessionID string) (*engine.Snapshot, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.ownSession(w, r)
		if !ok {
			return
		}
		snap, err := op(r.Context(), id)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}
