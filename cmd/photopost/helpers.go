package main

import (
	"errors"

	"github.com/boggdan95/photo-to-post/internal/publisher"
	"github.com/boggdan95/photo-to-post/internal/store"
)

// newPublishService wires the full publish flow. The returned store must be
// closed by the caller.
func newPublishService(ctx *commandContext) (*publisher.Service, *store.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Instagram.AccessToken == "" || cfg.Instagram.UserID == "" {
		return nil, nil, errors.New("instagram access_token and user_id must be configured (or set META_ACCESS_TOKEN and INSTAGRAM_USER_ID)")
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	s, err := ctx.openStore()
	if err != nil {
		return nil, nil, err
	}

	media := publisher.NewInstagramClient(cfg.Instagram)
	images := publisher.NewCloudinaryUploader(cfg.Cloudinary)
	return publisher.NewService(cfg, s, media, images, logger), s, nil
}
