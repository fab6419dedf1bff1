package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/lifecycle"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/storage"
)

// AvatarPath is the fixed object key of the profile picture.
const AvatarPath = "settings/profile-avatar"

type ProfileService struct {
	settings database.SettingsStore
	objects  storage.ObjectStore
	now      func() time.Time
	logger   zerolog.Logger
}

func NewProfileService(settings database.SettingsStore, objects storage.ObjectStore) *ProfileService {
	return &ProfileService{
		settings: settings,
		objects:  objects,
		now:      time.Now,
		logger:   log.With().Str("component", "profileService").Logger(),
	}
}

// AvatarURL returns the current avatar, or "" when none was uploaded.
func (s *ProfileService) AvatarURL(ctx context.Context) (string, error) {
	setting, err := s.settings.Get(ctx, models.SettingAvatar)
	if errs.IsNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

// UploadAvatar replaces the profile picture. Only images are accepted.
func (s *ProfileService) UploadAvatar(ctx context.Context, upload lifecycle.Upload) (string, error) {
	mime, body, err := lifecycle.Sniff(upload.Body)
	if err != nil {
		return "", errs.NewMalformedPayloadError("avatar", err)
	}
	if mediaType, _ := lifecycle.MediaTypeFromContentType(mime.String()); mediaType != models.MediaTypeImage {
		return "", errs.NewUnsupportedMediaTypeError(mime.String(), []string{"image/*"})
	}

	url, err := s.objects.Upload(ctx, AvatarPath, body, upload.Size, mime.String(), nil)
	if err != nil {
		return "", err
	}

	now := s.now().UTC()
	// the key never changes, so bust caches with the upload time
	url = fmt.Sprintf("%s?v=%d", url, now.Unix())
	if err := s.settings.Put(ctx, &models.Setting{Key: models.SettingAvatar, Value: url, UpdatedAt: now}); err != nil {
		return "", err
	}

	s.logger.Info().Str("contentType", mime.String()).Msg("avatar updated")
	return url, nil
}
