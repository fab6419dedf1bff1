package api

import (
	"encoding/json"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/lifecycle"
)

const (
	maxJSONBodySize   = 1 << 20   // 1MB
	maxUploadBodySize = 256 << 20 // 256MB
	multipartMemory   = 32 << 20
)

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// decodeJSON decodes a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, payloadName string) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return errs.NewMalformedPayloadError(payloadName, err)
	}
	return nil
}

// multipartForm parses the request as multipart/form-data. Callers must call
// RemoveAll on the returned form.
func multipartForm(w http.ResponseWriter, r *http.Request) (*multipart.Form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBodySize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return nil, errs.NewMalformedPayloadError("multipart form", err)
	}
	return r.MultipartForm, nil
}

// formValue returns the first value of key and whether the key was sent at all.
func formValue(form *multipart.Form, key string) (string, bool) {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func formString(form *multipart.Form, key string) string {
	v, _ := formValue(form, key)
	return v
}

func formStringPtr(form *multipart.Form, key string) *string {
	v, ok := formValue(form, key)
	if !ok {
		return nil
	}
	return &v
}

// formUpload opens the file sent under key. It returns nil when no file was sent.
// The returned closer must be called once the upload has been consumed.
func formUpload(form *multipart.Form, key string) (*lifecycle.Upload, func(), error) {
	headers := form.File[key]
	if len(headers) == 0 || headers[0].Size == 0 {
		return nil, func() {}, nil
	}
	fh := headers[0]
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, errs.NewMalformedPayloadError(key, err)
	}
	return &lifecycle.Upload{Filename: fh.Filename, Size: fh.Size, Body: f}, func() { f.Close() }, nil
}

// projectUploads opens the media, thumbnail and document files of a project form.
func projectUploads(form *multipart.Form) (media, thumbnail, document *lifecycle.Upload, closeAll func(), err error) {
	var closers []func()
	closeAll = func() {
		for _, c := range closers {
			c()
		}
	}

	slots := []struct {
		key string
		dst **lifecycle.Upload
	}{
		{"media", &media},
		{"thumbnail", &thumbnail},
		{"document", &document},
	}
	for _, slot := range slots {
		u, closer, openErr := formUpload(form, slot.key)
		closers = append(closers, closer)
		if openErr != nil {
			closeAll()
			return nil, nil, nil, func() {}, openErr
		}
		*slot.dst = u
	}
	return media, thumbnail, document, closeAll, nil
}

func createInputFromForm(form *multipart.Form) lifecycle.CreateInput {
	return lifecycle.CreateInput{
		Title:        formString(form, "title"),
		Category:     formString(form, "category"),
		Description:  formString(form, "description"),
		MediaHint:    formString(form, "mediaHint"),
		Skills:       lifecycle.SplitSkills(formString(form, "skills")),
		Goal:         formString(form, "goal"),
		Process:      formString(form, "process"),
		Outcome:      formString(form, "outcome"),
		MediaURL:     formString(form, "mediaUrl"),
		ThumbnailURL: formString(form, "thumbnailUrl"),
	}
}

// updateInputFromForm only sets fields whose keys were present in the form.
func updateInputFromForm(form *multipart.Form) lifecycle.UpdateInput {
	in := lifecycle.UpdateInput{
		Title:        formStringPtr(form, "title"),
		Category:     formStringPtr(form, "category"),
		Description:  formStringPtr(form, "description"),
		MediaHint:    formStringPtr(form, "mediaHint"),
		Goal:         formStringPtr(form, "goal"),
		Process:      formStringPtr(form, "process"),
		Outcome:      formStringPtr(form, "outcome"),
		MediaURL:     formStringPtr(form, "mediaUrl"),
		ThumbnailURL: formStringPtr(form, "thumbnailUrl"),
	}
	if raw, ok := formValue(form, "skills"); ok {
		skills := lifecycle.SplitSkills(raw)
		in.Skills = &skills
	}
	return in
}

// skillsField accepts either a JSON list or a comma separated string.
type skillsField []string

func (s *skillsField) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.New("skills must be a list or a comma separated string")
	}
	*s = strings.Split(raw, ",")
	return nil
}
