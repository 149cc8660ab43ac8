package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/boggdan95/photo-to-post/internal/post"
)

var errNoPayload = errors.New("no payload directory")

// payloadDir returns where a post's photo directory belongs for its current
// stage. Published payloads are archived under a year/month partition keyed
// by the publish timestamp.
func (s *Store) payloadDir(p *post.Post) string {
	if p.Stage == post.StagePublished {
		at := time.Now()
		if p.Schedule.PublishedAt != nil {
			at = *p.Schedule.PublishedAt
		}
		return filepath.Join(s.cfg.StageDir(post.StagePublished), at.Format("2006"), at.Format("01"), p.ID)
	}
	return filepath.Join(s.cfg.StageDir(p.Stage), p.ID)
}

// PhotoDir exposes the payload location for a post so collaborators can read
// image files without knowing the stage layout.
func (s *Store) PhotoDir(p *post.Post) string {
	return s.payloadDir(p)
}

// movePayload relocates a payload directory. A missing source is reported as
// errNoPayload so callers can treat metadata-only posts and already-moved
// payloads as a no-op; a populated destination is a collision.
func movePayload(source, target string) error {
	if !dirExists(source) {
		return errNoPayload
	}
	if dirExists(target) {
		return fmt.Errorf("%w: %s", ErrDestinationExists, target)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create target parent: %w", err)
	}
	if err := os.Rename(source, target); err != nil {
		var linkErr *os.LinkError
		if errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
			if err := copyDir(source, target); err != nil {
				return fmt.Errorf("copy payload across devices: %w", err)
			}
			if err := os.RemoveAll(source); err != nil {
				return fmt.Errorf("remove source after copy: %w", err)
			}
			return nil
		}
		return fmt.Errorf("move payload: %w", err)
	}
	return nil
}

// findStrayPayload searches every stage directory for a payload that belongs
// to p but sits under the wrong stage. Published partitions are walked one
// year/month level deep.
func (s *Store) findStrayPayload(p *post.Post) (string, error) {
	for _, stage := range post.AllStages() {
		if stage == post.StagePublished {
			continue
		}
		candidate := filepath.Join(s.cfg.StageDir(stage), p.ID)
		if dirExists(candidate) && candidate != s.payloadDir(p) {
			return candidate, nil
		}
	}

	publishedRoot := s.cfg.StageDir(post.StagePublished)
	years, err := os.ReadDir(publishedRoot)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read published partition: %w", err)
	}
	for _, year := range years {
		if !year.IsDir() {
			continue
		}
		months, err := os.ReadDir(filepath.Join(publishedRoot, year.Name()))
		if err != nil {
			continue
		}
		for _, month := range months {
			if !month.IsDir() {
				continue
			}
			candidate := filepath.Join(publishedRoot, year.Name(), month.Name(), p.ID)
			if dirExists(candidate) && candidate != s.payloadDir(p) {
				return candidate, nil
			}
		}
	}
	return "", nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func copyDir(source, target string) error {
	return filepath.Walk(source, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}
		dest := filepath.Join(target, rel)
		if info.IsDir() {
			return os.MkdirAll(dest, info.Mode().Perm())
		}
		return copyFileContents(path, dest, info.Mode().Perm())
	})
}

func copyFileContents(sourcePath, targetPath string, perm os.FileMode) error {
	source, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer source.Close()

	dest, err := os.OpenFile(targetPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err := io.Copy(dest, source); err != nil {
		dest.Close()
		return fmt.Errorf("copy data: %w", err)
	}
	if err := dest.Sync(); err != nil {
		dest.Close()
		return fmt.Errorf("sync destination: %w", err)
	}
	if err := dest.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}
	return nil
}
