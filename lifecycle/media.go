package lifecycle

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

// sniffLen matches the number of bytes mimetype inspects by default.
const sniffLen = 3072

// Upload is a file received from the admin UI.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader

	// set by check
	mime      *mimetype.MIME
	mediaType string
}

// assetKind restricts which content types an upload slot accepts.
type assetKind int

const (
	assetMedia assetKind = iota
	assetThumbnail
	assetDocument
)

func (k assetKind) field() string {
	switch k {
	case assetThumbnail:
		return "thumbnail"
	case assetDocument:
		return "document"
	}
	return "media"
}

type storedAsset struct {
	URL         string
	Path        string
	ContentType string
	MediaType   string
}

var urlMediaTypes = map[string]string{
	".jpg": models.MediaTypeImage, ".jpeg": models.MediaTypeImage, ".png": models.MediaTypeImage,
	".gif": models.MediaTypeImage, ".webp": models.MediaTypeImage, ".avif": models.MediaTypeImage,
	".svg": models.MediaTypeImage, ".bmp": models.MediaTypeImage,
	".mp4": models.MediaTypeVideo, ".webm": models.MediaTypeVideo, ".mov": models.MediaTypeVideo,
	".m4v": models.MediaTypeVideo, ".ogv": models.MediaTypeVideo, ".mkv": models.MediaTypeVideo,
	".mp3": models.MediaTypeAudio, ".wav": models.MediaTypeAudio, ".ogg": models.MediaTypeAudio,
	".m4a": models.MediaTypeAudio, ".flac": models.MediaTypeAudio, ".aac": models.MediaTypeAudio,
}

// MediaTypeFromURL derives the media type from the extension of an external URL.
// Unknown extensions are treated as images.
func MediaTypeFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return models.MediaTypeImage
	}
	if mt, ok := urlMediaTypes[strings.ToLower(path.Ext(u.Path))]; ok {
		return mt
	}
	return models.MediaTypeImage
}

// MediaTypeFromContentType maps a MIME type to image, video or audio.
// The boolean is false for anything else.
func MediaTypeFromContentType(contentType string) (string, bool) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.MediaTypeImage, true
	case strings.HasPrefix(contentType, "video/"):
		return models.MediaTypeVideo, true
	case strings.HasPrefix(contentType, "audio/"):
		return models.MediaTypeAudio, true
	}
	return "", false
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Sniff reads the head of body to detect its content type and returns a reader that
// still yields the full content.
func Sniff(body io.Reader) (*mimetype.MIME, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, nil, err
	}
	head = head[:n]
	return mimetype.Detect(head), io.MultiReader(bytes.NewReader(head), body), nil
}

// check sniffs u and rejects content the slot does not accept. After check, Body still
// yields the full content.
func (u *Upload) check(kind assetKind) error {
	if u.mime != nil {
		return nil
	}
	mime, body, err := Sniff(u.Body)
	if err != nil {
		return errs.NewMalformedPayloadError(kind.field(), err)
	}
	contentType := mime.String()

	mediaType, isMedia := MediaTypeFromContentType(contentType)
	switch kind {
	case assetMedia:
		if !isMedia {
			return errs.NewUnsupportedMediaTypeError(contentType, []string{"image/*", "video/*", "audio/*"})
		}
	case assetThumbnail:
		if mediaType != models.MediaTypeImage {
			return errs.NewUnsupportedMediaTypeError(contentType, []string{"image/*"})
		}
	}
	u.mime, u.mediaType, u.Body = mime, mediaType, body
	return nil
}

func checkUploads(media, thumbnail, document *Upload) error {
	slots := []struct {
		upload *Upload
		kind   assetKind
	}{
		{media, assetMedia},
		{thumbnail, assetThumbnail},
		{document, assetDocument},
	}
	for _, slot := range slots {
		if slot.upload == nil {
			continue
		}
		if err := slot.upload.check(slot.kind); err != nil {
			return err
		}
	}
	return nil
}

// storeAsset uploads u under media/<uuid><ext>.
func (m *Manager) storeAsset(ctx context.Context, u *Upload, kind assetKind) (storedAsset, error) {
	if err := u.check(kind); err != nil {
		return storedAsset{}, err
	}
	contentType := u.mime.String()

	ext := u.mime.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(u.Filename))
	}
	key := "media/" + uuid.NewString() + ext

	logger := m.logger.With().Str("path", key).Str("contentType", contentType).Logger()
	publicURL, err := m.objects.Upload(ctx, key, u.Body, u.Size, contentType, func(sent, total int64) {
		if total > 0 && sent == total {
			logger.Debug().Int64("bytes", sent).Msg("upload complete")
		}
	})
	if err != nil {
		return storedAsset{}, err
	}
	return storedAsset{URL: publicURL, Path: key, ContentType: contentType, MediaType: u.mediaType}, nil
}
