// Package domain defines the core types and interfaces for RecipeBox.
// All other packages depend on domain; domain depends on nothing.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Recipe is a shared recipe. Ingredients and Instructions are ordered and
// are treated as immutable while a cook session is running against them.
type Recipe struct {
	ID           string    `json:"id" yaml:"id"`
	AuthorID     string    `json:"author_id" yaml:"author_id"`
	Title        string    `json:"title" yaml:"title"`
	Description  string    `json:"description" yaml:"description"`
	Ingredients  []string  `json:"ingredients" yaml:"ingredients"`
	Instructions []string  `json:"instructions" yaml:"instructions"`
	Tags         []string  `json:"tags" yaml:"tags"`
	Servings     int       `json:"servings" yaml:"servings"`
	PrepMinutes  int       `json:"prep_minutes" yaml:"prep_minutes"`
	CookMinutes  int       `json:"cook_minutes" yaml:"cook_minutes"`
	ImageURL     string    `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	LikeCount    int       `json:"like_count" yaml:"-"`
	CookCount    int       `json:"cook_count" yaml:"-"`
	Version      int       `json:"version" yaml:"-"`
	CreatedAt    time.Time `json:"created_at" yaml:"-"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"-"`
}

// RecipeSummary is a lightweight view of a recipe for listing.
type RecipeSummary struct {
	ID          string   `json:"id"`
	AuthorID    string   `json:"author_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	LikeCount   int      `json:"like_count"`
}

// Summary returns the listing view of r.
func (r *Recipe) Summary() RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		AuthorID:    r.AuthorID,
		Title:       r.Title,
		Description: r.Description,
		Tags:        r.Tags,
		LikeCount:   r.LikeCount,
	}
}

// TotalMinutes is prep plus cook time.
func (r *Recipe) TotalMinutes() int {
	return r.PrepMinutes + r.CookMinutes
}

// Validate checks the fields a client controls. It trims whitespace in
// place so stored records are normalised.
func (r *Recipe) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if len(r.Title) > 120 {
		return fmt.Errorf("%w: title longer than 120 characters", ErrInvalid)
	}
	if len(r.Ingredients) == 0 && len(r.Instructions) == 0 {
		return fmt.Errorf("%w: recipe needs ingredients or instructions", ErrInvalid)
	}
	for i, ing := range r.Ingredients {
		r.Ingredients[i] = strings.TrimSpace(ing)
		if r.Ingredients[i] == "" {
			return fmt.Errorf("%w: ingredient %d is blank", ErrInvalid, i+1)
		}
	}
	for i, step := range r.Instructions {
		r.Instructions[i] = strings.TrimSpace(step)
		if r.Instructions[i] == "" {
			return fmt.Errorf("%w: instruction %d is blank", ErrInvalid, i+1)
		}
	}
	if r.Servings < 0 || r.PrepMinutes < 0 || r.CookMinutes < 0 {
		return fmt.Errorf("%w: servings and times must not be negative", ErrInvalid)
	}
	for i, tag := range r.Tags {
		r.Tags[i] = strings.ToLower(strings.TrimSpace(tag))
	}
	return nil
}

// Page bounds a list query.
type Page struct {
	Limit  int
	Offset int
}

// DefaultPageSize is used when a Page has no limit.
const DefaultPageSize = 20

// Normalize clamps the page to sane bounds.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
