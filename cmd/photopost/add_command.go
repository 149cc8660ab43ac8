package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/boggdan95/photo-to-post/internal/post"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var country string
	var city string
	var caption string
	var hashtags []string

	cmd := &cobra.Command{
		Use:   "add <photo-folder>",
		Short: "Register a folder of photos as an approved post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			images, err := listImages(args[0])
			if err != nil {
				return err
			}
			if len(images) == 0 {
				return fmt.Errorf("no images found in %s", args[0])
			}

			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			photos := make([]post.Photo, 0, len(images))
			for i, src := range images {
				photos = append(photos, post.Photo{
					Filename:     fmt.Sprintf("%02d%s", i+1, strings.ToLower(filepath.Ext(src))),
					OriginalName: filepath.Base(src),
				})
			}

			p := &post.Post{
				Stage:           post.StageApproved,
				Country:         strings.ToLower(strings.TrimSpace(country)),
				City:            strings.ToLower(strings.TrimSpace(city)),
				LocationDisplay: displayLabel(city, country),
				PhotoCount:      len(photos),
				Photos:          photos,
				Caption:         post.Caption{Text: caption, Hashtags: hashtags},
			}

			added, err := s.Add(cmd.Context(), p)
			if err != nil {
				return err
			}

			photoDir := s.PhotoDir(added)
			if err := os.MkdirAll(photoDir, 0o755); err != nil {
				return fmt.Errorf("create photo directory: %w", err)
			}
			for i, src := range images {
				if err := copyFile(src, filepath.Join(photoDir, added.Photos[i].Filename)); err != nil {
					return fmt.Errorf("copy %s: %w", filepath.Base(src), err)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added %s (%s, %d photos)\n", added.ID, added.LocationDisplay, len(photos))
			return nil
		},
	}

	cmd.Flags().StringVar(&country, "country", "", "Country the photos were taken in (required)")
	cmd.Flags().StringVar(&city, "city", "", "City the photos were taken in")
	cmd.Flags().StringVar(&caption, "caption", "", "Caption text")
	cmd.Flags().StringSliceVar(&hashtags, "hashtag", nil, "Hashtag to attach (repeatable)")
	_ = cmd.MarkFlagRequired("country")
	return cmd
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read photo folder: %w", err)
	}
	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := imageExtensions[ext]; ok {
			images = append(images, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(images)
	return images, nil
}

// displayLabel builds the human-readable location, e.g. "Lisbon, Portugal".
func displayLabel(city, country string) string {
	title := cases.Title(language.Und)
	city = strings.TrimSpace(city)
	country = strings.TrimSpace(country)
	if city == "" {
		return title.String(country)
	}
	return title.String(city) + ", " + title.String(country)
}

func copyFile(sourcePath, targetPath string) error {
	source, err := os.Open(sourcePath)
	if err != nil {
		return err
	}
	defer source.Close()

	target, err := os.OpenFile(targetPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(target, source); err != nil {
		target.Close()
		return err
	}
	return target.Close()
}
