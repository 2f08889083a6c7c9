package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/recipe"
)

// run executes the root command against a temp database and returns stdout.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("RECIPEBOX_DB", "")
	t.Setenv("RECIPEBOX_LOG_LEVEL", "")

	showPlain, listQuery, listOffset, listLimit = false, "", 0, domain.DefaultPageSize
	importUser = recipe.SeedAuthorID
	serveAddr = ""

	base := []string{
		"--config", filepath.Join(dir, "recipebox.yaml"),
		"--env-file", filepath.Join(dir, ".env"),
		"--db", filepath.Join(dir, "recipebox.db"),
		"--quiet",
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(base, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSeedIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "3 created, 0 updated, 0 unchanged")

	out, err = run(t, dir, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "0 created, 0 updated, 3 unchanged")
}

func TestRecipesListAndShow(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "recipes", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No recipes yet")

	_, err = run(t, dir, "seed")
	require.NoError(t, err)

	out, err = run(t, dir, "recipes", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "soft-scrambled-eggs")
	assert.Contains(t, out, "Chicken Alfredo")

	out, err = run(t, dir, "recipes", "list", "--search", "eggs")
	require.NoError(t, err)
	assert.Contains(t, out, "Soft Scrambled Eggs")
	assert.NotContains(t, out, "Chicken Alfredo")

	out, err = run(t, dir, "recipes", "show", "soft-scrambled-eggs", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "# Soft Scrambled Eggs")
	assert.Contains(t, out, "## Steps")

	out, err = run(t, dir, "recipes", "show", "soft-scrambled-eggs")
	require.NoError(t, err)
	assert.Contains(t, out, "Soft Scrambled Eggs")

	_, err = run(t, dir, "recipes", "show", "missing")
	assert.Error(t, err)
}

func TestRecipesImport(t *testing.T) {
	dir := t.TempDir()
	recipes := filepath.Join(dir, "recipes")
	require.NoError(t, os.MkdirAll(recipes, 0o755))
	toast := filepath.Join(recipes, "toast.yaml")
	require.NoError(t, os.WriteFile(toast, []byte("title: Toast\ningredients: [bread]\ninstructions: [toast it]\n"), 0o644))

	out, err := run(t, dir, "recipes", "import", recipes)
	require.NoError(t, err)
	assert.Contains(t, out, "1 created")

	require.NoError(t, os.WriteFile(toast, []byte("title: Toast\ningredients: [bread, butter]\ninstructions: [toast it]\n"), 0o644))
	out, err = run(t, dir, "recipes", "import", toast)
	require.NoError(t, err)
	assert.Contains(t, out, "updated")

	_, err = run(t, dir, "recipes", "import", recipes, "--author", "nobody")
	assert.Error(t, err)
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "recipebox.yaml"), []byte("cook:\n  session_ttl: soon\n"), 0o644))

	_, err := run(t, dir, "seed")
	assert.ErrorContains(t, err, "invalid config")
}

func TestServeFailsBeforeListeningWhenRecipesDirIsMissing(t *testing.T) {
	dir := t.TempDir()
	cfg := "server:\n  addr: 127.0.0.1:0\nstorage:\n  recipes_dir: " +
		filepath.Join(dir, "missing") + "\n  watch_recipes: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "recipebox.yaml"), []byte(cfg), 0o644))

	done := make(chan error, 1)
	go func() {
		_, err := run(t, dir, "serve")
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorContains(t, err, "watching")
	case <-time.After(5 * time.Second):
		t.Fatal("serve kept running after the watcher failed")
	}
}
