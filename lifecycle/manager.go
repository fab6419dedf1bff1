// Package lifecycle owns every state change of a project: creation, edits, the bin
// (soft delete and restore), permanent purge and likes.
package lifecycle

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/metrics"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/storage"
)

// DefaultRetentionDays is how long a binned project survives before the sweeper purges it.
const DefaultRetentionDays = 30

const assetDeleteConcurrency = 4

type Manager struct {
	projects      database.ProjectStore
	objects       storage.ObjectStore
	retentionDays int
	now           func() time.Time
	suffix        func() string
	logger        zerolog.Logger
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithSlugSuffix replaces the random suffix appended to colliding slugs.
func WithSlugSuffix(fn func() string) Option {
	return func(m *Manager) { m.suffix = fn }
}

func WithRetentionDays(days int) Option {
	return func(m *Manager) {
		if days > 0 {
			m.retentionDays = days
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

func NewManager(projects database.ProjectStore, objects storage.ObjectStore, opts ...Option) *Manager {
	m := &Manager{
		projects:      projects,
		objects:       objects,
		retentionDays: DefaultRetentionDays,
		now:           time.Now,
		suffix:        randomSuffix,
		logger:        log.With().Str("component", "lifecycle").Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) RetentionDays() int {
	return m.retentionDays
}

func (m *Manager) Retention() time.Duration {
	return time.Duration(m.retentionDays) * 24 * time.Hour
}

// CreateInput carries a new project. Exactly one of Media or MediaURL supplies the
// primary asset.
type CreateInput struct {
	Title        string   `json:"title" validate:"required,max=200"`
	Category     string   `json:"category" validate:"required,max=100"`
	Description  string   `json:"description" validate:"required"`
	MediaHint    string   `json:"mediaHint" validate:"max=200"`
	Skills       []string `json:"skills" validate:"min=1,dive,required"`
	Goal         string   `json:"goal" validate:"required"`
	Process      string   `json:"process" validate:"required"`
	Outcome      string   `json:"outcome" validate:"required"`
	MediaURL     string   `json:"mediaUrl" validate:"omitempty,url"`
	ThumbnailURL string   `json:"thumbnailUrl" validate:"omitempty,url"`
	OwnerID      string   `json:"-"`

	Media     *Upload `json:"-" validate:"-"`
	Thumbnail *Upload `json:"-" validate:"-"`
	Document  *Upload `json:"-" validate:"-"`
}

func (in *CreateInput) normalize() {
	for _, s := range []*string{&in.Title, &in.Category, &in.Description, &in.MediaHint,
		&in.Goal, &in.Process, &in.Outcome, &in.MediaURL, &in.ThumbnailURL} {
		*s = strings.TrimSpace(*s)
	}
	in.Skills = cleanSkills(in.Skills)
}

func (in *CreateInput) validate() error {
	in.normalize()
	if err := Validate(in); err != nil {
		return err
	}
	if in.Media == nil {
		if in.MediaURL == "" {
			return errs.NewMissingRequiredFieldError("media")
		}
		if !isHTTPURL(in.MediaURL) {
			return errs.NewInvalidFieldError("mediaUrl", "must be an absolute http(s) URL")
		}
	}
	if in.Thumbnail == nil && in.ThumbnailURL != "" && !isHTTPURL(in.ThumbnailURL) {
		return errs.NewInvalidFieldError("thumbnailUrl", "must be an absolute http(s) URL")
	}
	return checkUploads(in.Media, in.Thumbnail, in.Document)
}

// UpdateInput is a partial edit. Nil fields are left unchanged.
type UpdateInput struct {
	Title        *string   `json:"title,omitempty"`
	Category     *string   `json:"category,omitempty"`
	Description  *string   `json:"description,omitempty"`
	MediaHint    *string   `json:"mediaHint,omitempty"`
	Skills       *[]string `json:"skills,omitempty"`
	Goal         *string   `json:"goal,omitempty"`
	Process      *string   `json:"process,omitempty"`
	Outcome      *string   `json:"outcome,omitempty"`
	MediaURL     *string   `json:"mediaUrl,omitempty"`
	ThumbnailURL *string   `json:"thumbnailUrl,omitempty"`

	Media     *Upload `json:"-"`
	Thumbnail *Upload `json:"-"`
	Document  *Upload `json:"-"`
}

func (in *UpdateInput) validate() error {
	required := []struct {
		name  string
		value **string
	}{
		{"title", &in.Title},
		{"category", &in.Category},
		{"description", &in.Description},
		{"goal", &in.Goal},
		{"process", &in.Process},
		{"outcome", &in.Outcome},
	}
	for _, f := range required {
		*f.value = trimmed(*f.value)
		if *f.value != nil && **f.value == "" {
			return errs.NewInvalidFieldError(f.name, "must not be blank")
		}
	}
	in.MediaHint = trimmed(in.MediaHint)

	if in.Skills != nil {
		skills := cleanSkills(*in.Skills)
		if len(skills) == 0 {
			return errs.NewInvalidFieldError("skills", "must contain at least one skill")
		}
		in.Skills = &skills
	}

	in.MediaURL = trimmed(in.MediaURL)
	if in.MediaURL != nil && in.Media == nil && !isHTTPURL(*in.MediaURL) {
		return errs.NewInvalidFieldError("mediaUrl", "must be an absolute http(s) URL")
	}
	in.ThumbnailURL = trimmed(in.ThumbnailURL)
	if in.ThumbnailURL != nil && *in.ThumbnailURL != "" && !isHTTPURL(*in.ThumbnailURL) {
		return errs.NewInvalidFieldError("thumbnailUrl", "must be an absolute http(s) URL")
	}
	return checkUploads(in.Media, in.Thumbnail, in.Document)
}

// Create validates in, uploads its assets and inserts an active project with a unique slug.
// Every upload is type-checked before the first one is stored.
func (m *Manager) Create(ctx context.Context, in CreateInput) (*models.Project, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	slug, err := m.uniqueSlug(ctx, in.Title)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		Slug:        slug,
		Title:       in.Title,
		Category:    in.Category,
		Description: in.Description,
		MediaHint:   in.MediaHint,
		Skills:      datatypes.JSONSlice[string](in.Skills),
		Details: models.ProjectDetails{
			Goal:    in.Goal,
			Process: in.Process,
			Outcome: in.Outcome,
		},
		OwnerID:   in.OwnerID,
		CreatedAt: m.now().UTC(),
	}

	// uploads already stored are removed again if a later step fails
	var stored []string
	fail := func(err error) (*models.Project, error) {
		m.deleteAssets(ctx, "", stored)
		return nil, err
	}

	if in.Media != nil {
		asset, err := m.storeAsset(ctx, in.Media, assetMedia)
		if err != nil {
			return fail(err)
		}
		stored = append(stored, asset.Path)
		project.MediaURL, project.MediaPath, project.MediaType = asset.URL, asset.Path, asset.MediaType
	} else {
		project.MediaURL, project.MediaType = in.MediaURL, MediaTypeFromURL(in.MediaURL)
	}

	if in.Thumbnail != nil {
		asset, err := m.storeAsset(ctx, in.Thumbnail, assetThumbnail)
		if err != nil {
			return fail(err)
		}
		stored = append(stored, asset.Path)
		project.ThumbnailURL, project.ThumbnailPath = asset.URL, asset.Path
	} else {
		project.ThumbnailURL = in.ThumbnailURL
	}

	if in.Document != nil {
		asset, err := m.storeAsset(ctx, in.Document, assetDocument)
		if err != nil {
			return fail(err)
		}
		stored = append(stored, asset.Path)
		project.DocumentURL, project.DocumentPath = asset.URL, asset.Path
	}

	if err := m.projects.Insert(ctx, project); err != nil {
		return fail(err)
	}

	metrics.LifecycleOpsTotal.WithLabelValues("create").Inc()
	m.logger.Info().Str("projectId", project.ID).Str("slug", project.Slug).Str("mediaType", project.MediaType).Msg("project created")
	return project, nil
}

// Update applies in to the project. A stored asset replaced by the edit is deleted
// after the record is saved; failing to delete it only logs.
func (m *Manager) Update(ctx context.Context, id string, in UpdateInput) (*models.Project, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	current, err := m.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := database.Changes{}
	setString := func(column string, value *string) {
		if value != nil {
			changes[column] = *value
		}
	}
	setString(models.ColumnTitle, in.Title)
	setString(models.ColumnCategory, in.Category)
	setString(models.ColumnDescription, in.Description)
	setString(models.ColumnMediaHint, in.MediaHint)
	if in.Skills != nil {
		changes[models.ColumnSkills] = datatypes.JSONSlice[string](*in.Skills)
	}
	if in.Goal != nil || in.Process != nil || in.Outcome != nil {
		details := current.Details
		if in.Goal != nil {
			details.Goal = *in.Goal
		}
		if in.Process != nil {
			details.Process = *in.Process
		}
		if in.Outcome != nil {
			details.Outcome = *in.Outcome
		}
		changes[models.ColumnDetails] = details
	}

	var stored, replaced []string
	fail := func(err error) (*models.Project, error) {
		m.deleteAssets(ctx, id, stored)
		return nil, err
	}
	replace := func(oldPath string) {
		if oldPath != "" {
			replaced = append(replaced, oldPath)
		}
	}

	switch {
	case in.Media != nil:
		asset, err := m.storeAsset(ctx, in.Media, assetMedia)
		if err != nil {
			return fail(err)
		}
		stored = append(stored, asset.Path)
		changes[models.ColumnMediaURL] = asset.URL
		changes[models.ColumnMediaPath] = asset.Path
		changes[models.ColumnMediaType] = asset.MediaType
		replace(current.MediaPath)
	case in.MediaURL != nil && *in.MediaURL != current.MediaURL:
		changes[models.ColumnMediaURL] = *in.MediaURL
		changes[models.ColumnMediaPath] = ""
		changes[models.ColumnMediaType] = MediaTypeFromURL(*in.MediaURL)
		replace(current.MediaPath)
	}

	switch {
	case in.Thumbnail != nil:
		asset, err := m.storeAsset(ctx, in.Thumbnail, assetThumbnail)
		if err != nil {
			return fail(err)
		}
		stored = append(stored, asset.Path)
		changes[models.ColumnThumbnailURL] = asset.URL
		changes[models.ColumnThumbnailPath] = asset.Path
		replace(current.ThumbnailPath)
	case in.ThumbnailURL != nil && *in.ThumbnailURL != current.ThumbnailURL:
		changes[models.ColumnThumbnailURL] = *in.ThumbnailURL
		changes[models.ColumnThumbnailPath] = ""
		replace(current.ThumbnailPath)
	}

	if in.Document != nil {
		asset, err := m.storeAsset(ctx, in.Document, assetDocument)
		if err != nil {
			return fail(err)
		}
		stored = append(stored, asset.Path)
		changes[models.ColumnDocumentURL] = asset.URL
		changes[models.ColumnDocumentPath] = asset.Path
		replace(current.DocumentPath)
	}

	if len(changes) == 0 {
		return current, nil
	}
	if err := m.projects.Update(ctx, id, changes); err != nil {
		return fail(err)
	}
	m.deleteAssets(ctx, id, replaced)

	metrics.LifecycleOpsTotal.WithLabelValues("update").Inc()
	m.logger.Info().Str("projectId", id).Int("fields", len(changes)).Msg("project updated")
	return m.projects.FindByID(ctx, id)
}

// SoftDelete moves the project to the bin. Binning an already binned project keeps its
// original deletedAt.
func (m *Manager) SoftDelete(ctx context.Context, id string) (*models.Project, error) {
	project, err := m.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.IsDeleted {
		return project, nil
	}

	deletedAt := m.now().UTC()
	err = m.projects.Update(ctx, id, database.Changes{
		models.ColumnIsDeleted: true,
		models.ColumnDeletedAt: deletedAt,
	})
	if err != nil {
		return nil, err
	}
	project.IsDeleted, project.DeletedAt = true, &deletedAt

	metrics.LifecycleOpsTotal.WithLabelValues("soft_delete").Inc()
	m.logger.Info().Str("projectId", id).Time("deletedAt", deletedAt).Msg("project moved to bin")
	return project, nil
}

// Restore brings a binned project back to the gallery. Nothing but the bin fields change.
func (m *Manager) Restore(ctx context.Context, id string) (*models.Project, error) {
	project, err := m.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !project.IsDeleted {
		return project, nil
	}

	err = m.projects.Update(ctx, id, database.Changes{
		models.ColumnIsDeleted: false,
		models.ColumnDeletedAt: nil,
	})
	if err != nil {
		return nil, err
	}
	project.IsDeleted, project.DeletedAt = false, nil

	metrics.LifecycleOpsTotal.WithLabelValues("restore").Inc()
	m.logger.Info().Str("projectId", id).Msg("project restored")
	return project, nil
}

// Purge permanently deletes a binned project and its stored assets. A project that no
// longer exists counts as purged.
func (m *Manager) Purge(ctx context.Context, id string) error {
	project, err := m.projects.FindByID(ctx, id)
	if errs.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !project.IsDeleted {
		return errs.NewConflictError("project must be moved to the bin before it can be purged")
	}
	return m.purgeRecord(ctx, project)
}

// purgeRecord deletes the assets concurrently, then the record. Asset failures are
// logged and do not stop the record delete.
func (m *Manager) purgeRecord(ctx context.Context, project *models.Project) error {
	failed := m.deleteAssets(ctx, project.ID, project.AssetPaths())

	if err := m.projects.Delete(ctx, project.ID); err != nil {
		m.logger.Error().Err(err).Str("projectId", project.ID).Msg("failed to delete project record")
		return err
	}

	metrics.LifecycleOpsTotal.WithLabelValues("purge").Inc()
	m.logger.Info().Str("projectId", project.ID).Str("slug", project.Slug).Int("assetFailures", failed).Msg("project purged")
	return nil
}

// deleteAssets removes paths best-effort and returns how many deletes failed.
func (m *Manager) deleteAssets(ctx context.Context, projectID string, paths []string) int {
	if len(paths) == 0 {
		return 0
	}

	var failed atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(assetDeleteConcurrency)
	for _, path := range paths {
		g.Go(func() error {
			if err := m.objects.Delete(gctx, path); err != nil {
				failed.Add(1)
				metrics.AssetDeleteFailuresTotal.Inc()
				m.logger.Warn().Err(err).Str("projectId", projectID).Str("path", path).Msg("failed to delete asset")
			}
			return nil
		})
	}
	_ = g.Wait()
	return int(failed.Load())
}

// Like adds one like to an active project and returns the new total.
func (m *Manager) Like(ctx context.Context, id string) (int64, error) {
	if err := m.projects.IncrementLikes(ctx, id, 1); err != nil {
		return 0, err
	}
	metrics.LifecycleOpsTotal.WithLabelValues("like").Inc()

	project, err := m.projects.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return project.Likes, nil
}

// Get returns a project in any state.
func (m *Manager) Get(ctx context.Context, id string) (*models.Project, error) {
	return m.projects.FindByID(ctx, id)
}

// GetBySlug returns an active project. Binned projects are reported as not found.
func (m *Manager) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	project, err := m.projects.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if project.IsDeleted {
		return nil, errs.NewNotFound("project")
	}
	return project, nil
}

// ListActive returns the public gallery, newest first, optionally limited to a category.
func (m *Manager) ListActive(ctx context.Context, category string) ([]*models.Project, error) {
	return m.projects.Find(ctx, database.Active(strings.TrimSpace(category)))
}

// ListAll returns every active project for the admin dashboard.
func (m *Manager) ListAll(ctx context.Context) ([]*models.Project, error) {
	return m.projects.Find(ctx, database.Active(""))
}

// ListBin returns binned projects, most recently binned first.
func (m *Manager) ListBin(ctx context.Context) ([]BinEntry, error) {
	projects, err := m.projects.Find(ctx, database.Binned())
	if err != nil {
		return nil, err
	}
	now := m.now()
	entries := make([]BinEntry, 0, len(projects))
	for _, p := range projects {
		entries = append(entries, NewBinEntry(p, now, m.retentionDays))
	}
	return entries, nil
}
