package publisher

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/boggdan95/photo-to-post/internal/config"
)

const defaultUploadTimeout = 60 * time.Second

// CloudinaryUploader performs signed image uploads.
type CloudinaryUploader struct {
	cfg        config.Cloudinary
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// CloudinaryOption customizes the uploader.
type CloudinaryOption func(*CloudinaryUploader)

// WithCloudinaryBaseURL overrides the API endpoint (useful for tests).
func WithCloudinaryBaseURL(baseURL string) CloudinaryOption {
	return func(u *CloudinaryUploader) {
		u.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithCloudinaryHTTPClient overrides the default HTTP client.
func WithCloudinaryHTTPClient(client *http.Client) CloudinaryOption {
	return func(u *CloudinaryUploader) {
		if client != nil {
			u.httpClient = client
		}
	}
}

// NewCloudinaryUploader constructs an uploader from configuration.
func NewCloudinaryUploader(cfg config.Cloudinary, opts ...CloudinaryOption) *CloudinaryUploader {
	uploader := &CloudinaryUploader{
		cfg:        cfg,
		baseURL:    fmt.Sprintf("https://api.cloudinary.com/v1_1/%s", cfg.CloudName),
		httpClient: &http.Client{Timeout: defaultUploadTimeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(uploader)
	}
	return uploader
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload pushes one image file and returns its hosted HTTPS URL. The
// public ID is derived from the post ID and the file's base name so
// repeated uploads overwrite rather than duplicate.
func (u *CloudinaryUploader) Upload(ctx context.Context, postID, imagePath string) (string, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
	publicID := fmt.Sprintf("%s_%s", postID, name)
	timestamp := strconv.FormatInt(u.now().Unix(), 10)

	params := map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}
	if u.cfg.UploadFolder != "" {
		params["folder"] = u.cfg.UploadFolder
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return "", fmt.Errorf("write field %s: %w", key, err)
		}
	}
	if err := writer.WriteField("api_key", u.cfg.APIKey); err != nil {
		return "", fmt.Errorf("write api key: %w", err)
	}
	if err := writer.WriteField("signature", signUpload(params, u.cfg.APISecret)); err != nil {
		return "", fmt.Errorf("write signature: %w", err)
	}
	part, err := writer.CreateFormFile("file", filepath.Base(imagePath))
	if err != nil {
		return "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("copy image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize upload body: %w", err)
	}

	endpoint := u.baseURL + "/image/upload"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read upload response: %w", err)
	}

	var parsed cloudinaryResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode upload response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("cloudinary error: %s", parsed.Error.Message)
	}
	if parsed.SecureURL == "" {
		return "", fmt.Errorf("upload response missing secure_url (status %d)", resp.StatusCode)
	}
	return parsed.SecureURL, nil
}

// signUpload builds the SHA-1 signature Cloudinary expects: parameters
// sorted by key, joined as key=value with '&', with the API secret
// appended.
func signUpload(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}
	digest := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return fmt.Sprintf("%x", digest)
}
