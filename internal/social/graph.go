package social

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dominikbraun/graph"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

// Suggestion is a user worth following and how many people the viewer
// already follows also follow them.
type Suggestion struct {
	User   *domain.User `json:"user"`
	Mutual int          `json:"mutual"`
}

// followGraph is the directed follower -> followee graph.
type followGraph struct {
	g graph.Graph[string, string]
}

func buildFollowGraph(edges []domain.Follow) (*followGraph, error) {
	g := graph.New(graph.StringHash, graph.Directed())
	for _, e := range edges {
		for _, v := range []string{e.FollowerID, e.FolloweeID} {
			if err := g.AddVertex(v); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
				return nil, fmt.Errorf("adding vertex %s: %w", v, err)
			}
		}
		if err := g.AddEdge(e.FollowerID, e.FolloweeID); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return nil, fmt.Errorf("adding edge %s -> %s: %w", e.FollowerID, e.FolloweeID, err)
		}
	}
	return &followGraph{g: g}, nil
}

// friendsOfFriends counts two-hop paths from userID to users it does not
// already follow.
func (fg *followGraph) friendsOfFriends(userID string) (map[string]int, error) {
	adj, err := fg.g.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("reading adjacency: %w", err)
	}

	direct, ok := adj[userID]
	if !ok {
		return map[string]int{}, nil
	}

	counts := make(map[string]int)
	for friend := range direct {
		for candidate := range adj[friend] {
			if candidate == userID {
				continue
			}
			if _, already := direct[candidate]; already {
				continue
			}
			counts[candidate]++
		}
	}
	return counts, nil
}

// Suggestions ranks friends-of-friends by the number of mutual paths, then
// by username.
func (s *Service) Suggestions(ctx context.Context, userID string, limit int) ([]Suggestion, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	edges, err := s.store.AllFollows(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading follow graph: %w", err)
	}
	fg, err := buildFollowGraph(edges)
	if err != nil {
		return nil, err
	}
	counts, err := fg.friendsOfFriends(userID)
	if err != nil {
		return nil, err
	}

	out := make([]Suggestion, 0, len(counts))
	for id, n := range counts {
		u, err := s.store.GetUser(ctx, id)
		if isNotFound(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("loading user %s: %w", id, err)
		}
		out = append(out, Suggestion{User: u, Mutual: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mutual != out[j].Mutual {
			return out[i].Mutual > out[j].Mutual
		}
		return out[i].User.Username < out[j].User.Username
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
