package api

import (
	"context"
	"net/http"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

func (s *Server) listRecipes(w http.ResponseWriter, r *http.Request) {
	page, err := pageOf(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	recipes, err := s.social.Recipes(r.Context(), r.URL.Query().Get("q"), page)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(recipes))
}

func (s *Server) createRecipe(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	var rec domain.Recipe
	if err := decode(r, &rec); err != nil {
		s.fail(w, r, err)
		return
	}
	rec.ID = ""
	created, err := s.social.PublishRecipe(r.Context(), actor, &rec)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) getRecipe(w http.ResponseWriter, r *http.Request) {
	rec, err := s.social.Recipe(r.Context(), pathVar(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) updateRecipe(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	var rec domain.Recipe
	if err := decode(r, &rec); err != nil {
		s.fail(w, r, err)
		return
	}
	rec.ID = pathVar(r, "id")
	updated, err := s.social.EditRecipe(r.Context(), actor, &rec)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	if err := s.social.DeleteRecipe(r.Context(), actor, pathVar(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// recipeAction adapts an (actor, recipe) service call to a handler.
func (s *Server) recipeAction(fn func(ctx context.Context, actorID, recipeID string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := caller(w, r)
		if !ok {
			return
		}
		if err := fn(r.Context(), actor, pathVar(r, "id")); err != nil {
			s.fail(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
