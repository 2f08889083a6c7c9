// Package api exposes RecipeBox over JSON/HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/hammamikhairi/recipebox/internal/engine"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/social"
)

// UserHeader carries the caller's user ID.
const UserHeader = "X-User-ID"

// Server wires the social service and the cooking engine to HTTP routes.
type Server struct {
	social *social.Service
	cook   *engine.Engine
	log    *logger.Logger
	router *mux.Router
}

// New builds a server and its routes.
func New(svc *social.Service, cook *engine.Engine, log *logger.Logger) *Server {
	s := &Server{social: svc, cook: cook, log: log}
	s.router = s.routes()
	return s
}

// Handler returns the root handler, access logging included.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.accessLog)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "no such route")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.HandleFunc("/health", s.health).Methods("GET")

	r.HandleFunc("/users", s.createUser).Methods("POST")
	r.HandleFunc("/users/{id}", s.getUser).Methods("GET")
	r.HandleFunc("/users/{id}", s.updateUser).Methods("PATCH")
	r.HandleFunc("/users/{id}/followers", s.followers).Methods("GET")
	r.HandleFunc("/users/{id}/following", s.following).Methods("GET")
	r.HandleFunc("/users/{id}/follow", s.follow).Methods("POST")
	r.HandleFunc("/users/{id}/follow", s.unfollow).Methods("DELETE")
	r.HandleFunc("/users/{id}/recipes", s.userRecipes).Methods("GET")
	r.HandleFunc("/users/{id}/collections", s.userCollections).Methods("GET")

	r.HandleFunc("/recipes", s.listRecipes).Methods("GET")
	r.HandleFunc("/recipes", s.createRecipe).Methods("POST")
	r.HandleFunc("/recipes/{id}", s.getRecipe).Methods("GET")
	r.HandleFunc("/recipes/{id}", s.updateRecipe).Methods("PUT")
	r.HandleFunc("/recipes/{id}", s.deleteRecipe).Methods("DELETE")
	r.HandleFunc("/recipes/{id}/like", s.recipeAction(s.social.Like)).Methods("POST")
	r.HandleFunc("/recipes/{id}/like", s.recipeAction(s.social.Unlike)).Methods("DELETE")
	r.HandleFunc("/recipes/{id}/bookmark", s.recipeAction(s.social.Bookmark)).Methods("POST")
	r.HandleFunc("/recipes/{id}/bookmark", s.recipeAction(s.social.Unbookmark)).Methods("DELETE")

	r.HandleFunc("/me/feed", s.feed).Methods("GET")
	r.HandleFunc("/me/bookmarks", s.bookmarks).Methods("GET")
	r.HandleFunc("/me/suggestions", s.suggestions).Methods("GET")
	r.HandleFunc("/me/notifications", s.notifications).Methods("GET")
	r.HandleFunc("/me/notifications/read", s.markAllRead).Methods("POST")
	r.HandleFunc("/notifications/{id}/read", s.markRead).Methods("POST")

	r.HandleFunc("/collections", s.createCollection).Methods("POST")
	r.HandleFunc("/collections/{id}", s.getCollection).Methods("GET")
	r.HandleFunc("/collections/{id}", s.updateCollection).Methods("PATCH")
	r.HandleFunc("/collections/{id}", s.deleteCollection).Methods("DELETE")
	r.HandleFunc("/collections/{id}/recipes", s.addToCollection).Methods("POST")
	r.HandleFunc("/collections/{id}/recipes/{recipeID}", s.removeFromCollection).Methods("DELETE")

	r.HandleFunc("/cook", s.startCooking).Methods("POST")
	r.HandleFunc("/cook/{id}", s.cookStatus).Methods("GET")
	r.HandleFunc("/cook/{id}/ingredients/{index}/toggle", s.cookToggle).Methods("POST")
	r.HandleFunc("/cook/{id}/proceed", s.cookStep(s.cook.Proceed)).Methods("POST")
	r.HandleFunc("/cook/{id}/next", s.cookStep(s.cook.Next)).Methods("POST")
	r.HandleFunc("/cook/{id}/previous", s.cookStep(s.cook.Previous)).Methods("POST")
	r.HandleFunc("/cook/{id}/exit", s.cookStep(s.cook.Exit)).Methods("POST")

	return r
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then shuts it
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down http server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.log.Zap().Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.String("user", r.Header.Get(UserHeader)),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
