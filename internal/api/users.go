package api

import (
	"net/http"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/social"
)

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var u domain.User
	if err := decode(r, &u); err != nil {
		s.fail(w, r, err)
		return
	}
	u.ID = ""
	created, err := s.social.Register(r.Context(), &u)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	p, err := s.social.Profile(r.Context(), pathVar(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	var patch social.ProfilePatch
	if err := decode(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	u, err := s.social.UpdateProfile(r.Context(), actor, pathVar(r, "id"), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) followers(w http.ResponseWriter, r *http.Request) {
	users, err := s.social.Followers(r.Context(), pathVar(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(users))
}

func (s *Server) following(w http.ResponseWriter, r *http.Request) {
	users, err := s.social.Following(r.Context(), pathVar(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(users))
}

func (s *Server) follow(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	if err := s.social.Follow(r.Context(), actor, pathVar(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) unfollow(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	if err := s.social.Unfollow(r.Context(), actor, pathVar(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) userRecipes(w http.ResponseWriter, r *http.Request) {
	page, err := pageOf(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	recipes, err := s.social.RecipesBy(r.Context(), pathVar(r, "id"), page)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(recipes))
}

func (s *Server) userCollections(w http.ResponseWriter, r *http.Request) {
	cols, err := s.social.Collections(r.Context(), pathVar(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(cols))
}

func (s *Server) feed(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	page, err := pageOf(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	recipes, err := s.social.Feed(r.Context(), actor, page)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(recipes))
}

func (s *Server) bookmarks(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	page, err := pageOf(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	recipes, err := s.social.Bookmarks(r.Context(), actor, page)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(recipes))
}

func (s *Server) suggestions(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	page, err := pageOf(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.social.Suggestions(r.Context(), actor, page.Limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listOf(out))
}

type notificationsResponse struct {
	Unread        int                    `json:"unread"`
	Notifications []*domain.Notification `json:"notifications"`
}

func (s *Server) notifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	page, err := pageOf(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	unreadOnly := r.URL.Query().Get("unread") == "true"
	list, err := s.social.Notifications(r.Context(), actor, unreadOnly, page)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	unread, err := s.social.UnreadCount(r.Context(), actor)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notificationsResponse{Unread: unread, Notifications: listOf(list)})
}

func (s *Server) markAllRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	n, err := s.social.MarkAllRead(r.Context(), actor)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"marked": n})
}

func (s *Server) markRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	if err := s.social.MarkRead(r.Context(), actor, pathVar(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
