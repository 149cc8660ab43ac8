package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/boggdan95/photo-to-post/internal/config"
	"github.com/boggdan95/photo-to-post/internal/post"
	"github.com/boggdan95/photo-to-post/internal/store"
)

// MustOpenStore opens a store against the test config and closes it when the
// test finishes.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	s, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

// SeedPost inserts a post with sensible defaults for tests.
func SeedPost(t testing.TB, s *store.Store, p post.Post) *post.Post {
	t.Helper()

	if p.Stage == "" {
		p.Stage = post.StageApproved
	}
	if p.Country == "" {
		p.Country = "france"
	}
	if p.PhotoCount == 0 {
		p.PhotoCount = 3
	}
	added, err := s.Add(context.Background(), &p)
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return added
}

// SeedPayload creates a photo payload directory with placeholder files under
// the post's current stage.
func SeedPayload(t testing.TB, s *store.Store, p *post.Post, files ...string) string {
	t.Helper()

	dir := s.PhotoDir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create payload dir: %v", err)
	}
	if len(files) == 0 {
		files = []string{"01.jpg"}
	}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("jpeg"), 0o644); err != nil {
			t.Fatalf("write payload file: %v", err)
		}
	}
	return dir
}
