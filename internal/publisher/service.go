package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/boggdan95/photo-to-post/internal/config"
	"github.com/boggdan95/photo-to-post/internal/logging"
	"github.com/boggdan95/photo-to-post/internal/post"
)

// PostStore is the persistence surface the publish flow needs.
type PostStore interface {
	GetByID(ctx context.Context, id string) (*post.Post, error)
	PhotoDir(p *post.Post) string
	Update(ctx context.Context, p *post.Post) error
	Commit(ctx context.Context, p *post.Post, target post.Stage) error
}

// MediaAPI is the Graph API surface the publish flow drives. The concrete
// InstagramClient satisfies it; tests substitute fakes.
type MediaAPI interface {
	CreateImageContainer(ctx context.Context, imageURL, caption string, isCarouselItem bool) (string, error)
	CreateCarouselContainer(ctx context.Context, childIDs []string, caption string) (string, error)
	WaitForContainer(ctx context.Context, containerID string) error
	PublishContainer(ctx context.Context, containerID string) (string, error)
}

// ImageHost uploads a local image and returns its hosted URL.
type ImageHost interface {
	Upload(ctx context.Context, postID, imagePath string) (string, error)
}

// Service publishes one scheduled post end to end.
type Service struct {
	cfg    *config.Config
	store  PostStore
	media  MediaAPI
	images ImageHost
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires the publish flow.
func NewService(cfg *config.Config, store PostStore, media MediaAPI, images ImageHost, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		cfg:    cfg,
		store:  store,
		media:  media,
		images: images,
		logger: logging.NewComponentLogger(logger, "publisher"),
		now:    time.Now,
	}
}

// SetClock overrides the time source. Tests only.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Publish pushes the post to Instagram and commits it to the published
// stage. The post must currently be scheduled. Returns the Instagram media
// ID.
func (s *Service) Publish(ctx context.Context, postID string) (string, error) {
	p, err := s.store.GetByID(ctx, postID)
	if err != nil {
		return "", err
	}
	if p.Stage != post.StageScheduled {
		return "", fmt.Errorf("post %s is %s, not scheduled", p.ID, p.Stage)
	}
	if len(p.Photos) == 0 {
		return "", fmt.Errorf("post %s has no photos", p.ID)
	}

	urls, uploaded, err := s.resolveImageURLs(ctx, p)
	if err != nil {
		return "", err
	}
	if uploaded {
		// Persist hosted URLs before the publish call so a retry skips
		// re-uploading.
		if err := s.store.Update(ctx, p); err != nil {
			return "", fmt.Errorf("persist uploaded urls: %w", err)
		}
	}

	caption := buildCaption(p.Caption)

	var containerID string
	if len(urls) == 1 {
		containerID, err = s.media.CreateImageContainer(ctx, urls[0], caption, false)
		if err != nil {
			return "", fmt.Errorf("create container: %w", err)
		}
	} else {
		children := make([]string, 0, len(urls))
		for _, imageURL := range urls {
			childID, err := s.media.CreateImageContainer(ctx, imageURL, "", true)
			if err != nil {
				return "", fmt.Errorf("create carousel child: %w", err)
			}
			children = append(children, childID)
		}
		containerID, err = s.media.CreateCarouselContainer(ctx, children, caption)
		if err != nil {
			return "", fmt.Errorf("create carousel: %w", err)
		}
	}

	if err := s.media.WaitForContainer(ctx, containerID); err != nil {
		return "", err
	}
	instagramID, err := s.media.PublishContainer(ctx, containerID)
	if err != nil {
		return "", fmt.Errorf("publish container: %w", err)
	}

	publishedAt := s.now().UTC()
	p.Schedule.PublishedAt = &publishedAt
	p.InstagramPostID = instagramID
	if err := s.store.Commit(ctx, p, post.StagePublished); err != nil {
		// The post is live; surface the archival failure rather than
		// pretending the publish failed.
		return instagramID, fmt.Errorf("post published as %s but commit failed: %w", instagramID, err)
	}

	s.logger.Info("post published",
		logging.String(logging.FieldPostID, p.ID),
		logging.String("instagram_post_id", instagramID),
		logging.Int("photos", len(urls)),
	)
	return instagramID, nil
}

// resolveImageURLs returns a hosted URL per photo, uploading files that do
// not carry one yet. The second return reports whether any upload happened.
func (s *Service) resolveImageURLs(ctx context.Context, p *post.Post) ([]string, bool, error) {
	urls := make([]string, 0, len(p.Photos))
	uploaded := false
	photoDir := s.store.PhotoDir(p)

	for i := range p.Photos {
		photo := &p.Photos[i]
		if photo.CloudinaryURL != "" {
			urls = append(urls, photo.CloudinaryURL)
			continue
		}
		hostedURL, err := s.images.Upload(ctx, p.ID, filepath.Join(photoDir, photo.Filename))
		if err != nil {
			return nil, uploaded, fmt.Errorf("upload %s: %w", photo.Filename, err)
		}
		photo.CloudinaryURL = hostedURL
		urls = append(urls, hostedURL)
		uploaded = true
	}
	return urls, uploaded, nil
}

func buildCaption(caption post.Caption) string {
	text := strings.TrimSpace(caption.Text)
	if len(caption.Hashtags) == 0 {
		return text
	}
	tags := strings.Join(caption.Hashtags, " ")
	if text == "" {
		return tags
	}
	return text + "\n\n" + tags
}
