package api

import (
	"net/http"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/social"
)

func (s *Server) createCollection(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	var c domain.Collection
	if err := decode(r, &c); err != nil {
		s.fail(w, r, err)
		return
	}
	c.ID = ""
	c.RecipeIDs = nil
	created, err := s.social.CreateCollection(r.Context(), actor, &c)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) getCollection(w http.ResponseWriter, r *http.Request) {
	c, err := s.social.Collection(r.Context(), pathVar(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) updateCollection(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	var patch social.CollectionPatch
	if err := decode(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.social.UpdateCollection(r.Context(), actor, pathVar(r, "id"), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) deleteCollection(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	if err := s.social.DeleteCollection(r.Context(), actor, pathVar(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addRecipeRequest struct {
	RecipeID string `json:"recipe_id"`
}

func (s *Server) addToCollection(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	var req addRecipeRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.social.Recipe(r.Context(), req.RecipeID); err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.social.AddToCollection(r.Context(), actor, pathVar(r, "id"), req.RecipeID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) removeFromCollection(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	c, err := s.social.RemoveFromCollection(r.Context(), actor, pathVar(r, "id"), pathVar(r, "recipeID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
