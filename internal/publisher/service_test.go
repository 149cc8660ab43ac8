package publisher_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/boggdan95/photo-to-post/internal/post"
	"github.com/boggdan95/photo-to-post/internal/publisher"
	"github.com/boggdan95/photo-to-post/internal/testsupport"
)

type fakeMedia struct {
	singles    []string
	children   []string
	carousels  int
	waited     []string
	published  []string
	caption    string
	waitErr    error
	publishErr error
}

func (f *fakeMedia) CreateImageContainer(_ context.Context, imageURL, caption string, isCarouselItem bool) (string, error) {
	if isCarouselItem {
		f.children = append(f.children, imageURL)
		return fmt.Sprintf("child-%d", len(f.children)), nil
	}
	f.singles = append(f.singles, imageURL)
	f.caption = caption
	return "container-1", nil
}

func (f *fakeMedia) CreateCarouselContainer(_ context.Context, childIDs []string, caption string) (string, error) {
	f.carousels++
	f.caption = caption
	return "carousel-1", nil
}

func (f *fakeMedia) WaitForContainer(_ context.Context, containerID string) error {
	f.waited = append(f.waited, containerID)
	return f.waitErr
}

func (f *fakeMedia) PublishContainer(_ context.Context, containerID string) (string, error) {
	if f.publishErr != nil {
		return "", f.publishErr
	}
	f.published = append(f.published, containerID)
	return "ig-42", nil
}

type fakeHost struct {
	uploads []string
	err     error
}

func (f *fakeHost) Upload(_ context.Context, postID, imagePath string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads = append(f.uploads, imagePath)
	return fmt.Sprintf("https://res.cloudinary.com/demo/%s/%d.jpg", postID, len(f.uploads)), nil
}

func TestServicePublishSingleImage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)

	p := testsupport.SeedPost(t, s, post.Post{
		ID: "post_20260101_080000", Stage: post.StageScheduled, Country: "portugal", PhotoCount: 1,
		Photos:  []post.Photo{{Filename: "01.jpg", CloudinaryURL: "https://res.cloudinary.com/demo/01.jpg"}},
		Caption: post.Caption{Text: "Sunset.", Hashtags: []string{"#lisbon", "#travel"}},
	})

	media := &fakeMedia{}
	host := &fakeHost{}
	svc := publisher.NewService(cfg, s, media, host, nil)
	svc.SetClock(func() time.Time {
		return time.Date(2026, time.April, 9, 12, 0, 0, 0, time.UTC)
	})

	instagramID, err := svc.Publish(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if instagramID != "ig-42" {
		t.Fatalf("unexpected id %q", instagramID)
	}
	if len(host.uploads) != 0 {
		t.Fatalf("hosted photo should not be re-uploaded: %v", host.uploads)
	}
	if media.caption != "Sunset.\n\n#lisbon #travel" {
		t.Fatalf("caption not assembled: %q", media.caption)
	}
	if len(media.waited) != 1 || media.waited[0] != "container-1" {
		t.Fatalf("container not awaited: %v", media.waited)
	}

	got, err := s.GetByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Stage != post.StagePublished {
		t.Fatalf("expected published stage, got %s", got.Stage)
	}
	if got.InstagramPostID != "ig-42" {
		t.Fatalf("instagram id not stamped: %q", got.InstagramPostID)
	}
	if got.Schedule.PublishedAt == nil {
		t.Fatal("published_at not stamped")
	}
}

func TestServicePublishCarouselUploadsMissingURLs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)

	p := testsupport.SeedPost(t, s, post.Post{
		ID: "post_20260101_080000", Stage: post.StageScheduled, Country: "portugal", PhotoCount: 3,
		Photos: []post.Photo{
			{Filename: "01.jpg", CloudinaryURL: "https://res.cloudinary.com/demo/01.jpg"},
			{Filename: "02.jpg"},
			{Filename: "03.jpg"},
		},
	})

	media := &fakeMedia{}
	host := &fakeHost{}
	svc := publisher.NewService(cfg, s, media, host, nil)

	if _, err := svc.Publish(context.Background(), p.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(host.uploads) != 2 {
		t.Fatalf("expected 2 uploads, got %v", host.uploads)
	}
	if len(media.children) != 3 || media.carousels != 1 {
		t.Fatalf("expected 3 children in 1 carousel, got %d/%d", len(media.children), media.carousels)
	}

	got, err := s.GetByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	for _, photo := range got.Photos {
		if photo.CloudinaryURL == "" {
			t.Fatalf("hosted url not persisted for %s", photo.Filename)
		}
	}
}

func TestServicePublishRejectsUnscheduledPost(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)

	p := testsupport.SeedPost(t, s, post.Post{
		ID: "post_20260101_080000", Stage: post.StageApproved,
		Photos: []post.Photo{{Filename: "01.jpg", CloudinaryURL: "https://res.cloudinary.com/demo/01.jpg"}},
	})
	svc := publisher.NewService(cfg, s, &fakeMedia{}, &fakeHost{}, nil)

	if _, err := svc.Publish(context.Background(), p.ID); err == nil {
		t.Fatal("expected error for approved post")
	}
}

func TestServicePublishContainerFailureLeavesPostScheduled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)

	p := testsupport.SeedPost(t, s, post.Post{
		ID: "post_20260101_080000", Stage: post.StageScheduled,
		Photos: []post.Photo{{Filename: "01.jpg", CloudinaryURL: "https://res.cloudinary.com/demo/01.jpg"}},
	})
	media := &fakeMedia{waitErr: fmt.Errorf("%w: expired", publisher.ErrContainerFailed)}
	svc := publisher.NewService(cfg, s, media, &fakeHost{}, nil)

	if _, err := svc.Publish(context.Background(), p.ID); err == nil {
		t.Fatal("expected container failure to surface")
	}
	got, err := s.GetByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Stage != post.StageScheduled {
		t.Fatalf("post must stay scheduled for retry, got %s", got.Stage)
	}
}
