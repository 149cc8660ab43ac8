package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/boggdan95/photo-to-post/internal/config"
)

const (
	defaultGraphTimeout     = 30 * time.Second
	defaultPollAttempts     = 10
	defaultPollDelaySeconds = 2
)

// ErrContainerFailed reports a media container that Instagram rejected or
// let expire before it could be published.
var ErrContainerFailed = errors.New("media container failed")

// InstagramClient wraps the Meta Graph API endpoints used to publish
// single-image and carousel posts.
type InstagramClient struct {
	cfg        config.Instagram
	httpClient *http.Client

	pollAttempts int
	pollDelay    time.Duration
	sleeper      func(time.Duration)
}

// InstagramOption customizes the client.
type InstagramOption func(*InstagramClient)

// WithInstagramHTTPClient overrides the default HTTP client.
func WithInstagramHTTPClient(client *http.Client) InstagramOption {
	return func(c *InstagramClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithInstagramSleeper overrides how poll delays are performed (useful for
// tests).
func WithInstagramSleeper(sleeper func(time.Duration)) InstagramOption {
	return func(c *InstagramClient) {
		c.sleeper = sleeper
	}
}

// NewInstagramClient constructs a Graph API client from configuration.
func NewInstagramClient(cfg config.Instagram, opts ...InstagramOption) *InstagramClient {
	timeout := defaultGraphTimeout
	if cfg.RequestTimeout > 0 {
		timeout = time.Duration(cfg.RequestTimeout) * time.Second
	}
	attempts := defaultPollAttempts
	if cfg.ContainerPollAttempts > 0 {
		attempts = cfg.ContainerPollAttempts
	}
	delaySeconds := defaultPollDelaySeconds
	if cfg.ContainerPollSeconds > 0 {
		delaySeconds = cfg.ContainerPollSeconds
	}

	client := &InstagramClient{
		cfg:          cfg,
		httpClient:   &http.Client{Timeout: timeout},
		pollAttempts: attempts,
		pollDelay:    time.Duration(delaySeconds) * time.Second,
		sleeper:      time.Sleep,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type graphResponse struct {
	ID         string `json:"id"`
	StatusCode string `json:"status_code"`
	Error      *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// CreateImageContainer creates a container for one hosted image. When
// isCarouselItem is set the container becomes a carousel child and carries
// no caption.
func (c *InstagramClient) CreateImageContainer(ctx context.Context, imageURL, caption string, isCarouselItem bool) (string, error) {
	form := url.Values{}
	form.Set("image_url", imageURL)
	if isCarouselItem {
		form.Set("is_carousel_item", "true")
	} else if caption != "" {
		form.Set("caption", caption)
	}
	return c.post(ctx, "media", form)
}

// CreateCarouselContainer groups child containers into one carousel post.
func (c *InstagramClient) CreateCarouselContainer(ctx context.Context, childIDs []string, caption string) (string, error) {
	form := url.Values{}
	form.Set("media_type", "CAROUSEL")
	form.Set("children", strings.Join(childIDs, ","))
	if caption != "" {
		form.Set("caption", caption)
	}
	return c.post(ctx, "media", form)
}

// WaitForContainer polls the container until Instagram reports it finished.
// ERROR and EXPIRED are terminal; running out of attempts is an error.
func (c *InstagramClient) WaitForContainer(ctx context.Context, containerID string) error {
	for attempt := 0; attempt < c.pollAttempts; attempt++ {
		if attempt > 0 {
			c.sleeper(c.pollDelay)
		}
		status, err := c.containerStatus(ctx, containerID)
		if err != nil {
			return err
		}
		switch status {
		case "FINISHED":
			return nil
		case "ERROR", "EXPIRED":
			return fmt.Errorf("%w: container %s status %s", ErrContainerFailed, containerID, status)
		}
	}
	return fmt.Errorf("%w: container %s not ready after %d attempts", ErrContainerFailed, containerID, c.pollAttempts)
}

// PublishContainer publishes a finished container and returns the media ID.
func (c *InstagramClient) PublishContainer(ctx context.Context, containerID string) (string, error) {
	form := url.Values{}
	form.Set("creation_id", containerID)
	return c.post(ctx, "media_publish", form)
}

func (c *InstagramClient) containerStatus(ctx context.Context, containerID string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s?fields=status_code&access_token=%s",
		strings.TrimRight(c.cfg.APIBaseURL, "/"), containerID, url.QueryEscape(c.cfg.AccessToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build status request: %w", err)
	}
	parsed, err := c.do(req)
	if err != nil {
		return "", err
	}
	return parsed.StatusCode, nil
}

func (c *InstagramClient) post(ctx context.Context, edge string, form url.Values) (string, error) {
	form.Set("access_token", c.cfg.AccessToken)
	endpoint := fmt.Sprintf("%s/%s/%s", strings.TrimRight(c.cfg.APIBaseURL, "/"), c.cfg.UserID, edge)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build %s request: %w", edge, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	parsed, err := c.do(req)
	if err != nil {
		return "", err
	}
	if parsed.ID == "" {
		return "", fmt.Errorf("%s response missing id", edge)
	}
	return parsed.ID, nil
}

func (c *InstagramClient) do(req *http.Request) (*graphResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graph api request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read graph api response: %w", err)
	}

	var parsed graphResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode graph api response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("graph api error (code %d): %s", parsed.Error.Code, parsed.Error.Message)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("graph api returned status %d", resp.StatusCode)
	}
	return &parsed, nil
}
