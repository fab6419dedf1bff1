package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// Media types a project's primary asset can have.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
	MediaTypeAudio = "audio"
)

// Column names shared by the SQL columns and the document fields.
const (
	ColumnID            = "id"
	ColumnSlug          = "slug"
	ColumnTitle         = "title"
	ColumnCategory      = "category"
	ColumnDescription   = "description"
	ColumnMediaHint     = "media_hint"
	ColumnMediaURL      = "media_url"
	ColumnMediaPath     = "media_path"
	ColumnMediaType     = "media_type"
	ColumnThumbnailURL  = "thumbnail_url"
	ColumnThumbnailPath = "thumbnail_path"
	ColumnDocumentURL   = "document_url"
	ColumnDocumentPath  = "document_path"
	ColumnSkills        = "skills"
	ColumnDetails       = "details"
	ColumnLikes         = "likes"
	ColumnOwnerID       = "owner_id"
	ColumnCreatedAt     = "created_at"
	ColumnIsDeleted     = "is_deleted"
	ColumnDeletedAt     = "deleted_at"
)

// Project is a portfolio entry. IsDeleted and DeletedAt move together: a binned project
// has both set, an active one has neither.
type Project struct {
	ID            string                      `json:"id" bson:"_id" gorm:"column:id;type:uuid;primaryKey"`
	Slug          string                      `json:"slug" bson:"slug" gorm:"column:slug;type:text;not null;uniqueIndex:idx_projects_slug"`
	Title         string                      `json:"title" bson:"title" gorm:"column:title;type:text;not null"`
	Category      string                      `json:"category" bson:"category" gorm:"column:category;type:text;not null;index:idx_projects_category"`
	Description   string                      `json:"description" bson:"description" gorm:"column:description;type:text;not null"`
	MediaHint     string                      `json:"mediaHint,omitempty" bson:"media_hint" gorm:"column:media_hint;type:text"`
	MediaURL      string                      `json:"mediaUrl" bson:"media_url" gorm:"column:media_url;type:text;not null"`
	MediaPath     string                      `json:"mediaPath,omitempty" bson:"media_path" gorm:"column:media_path;type:text"`
	MediaType     string                      `json:"mediaType" bson:"media_type" gorm:"column:media_type;type:text;not null"`
	ThumbnailURL  string                      `json:"thumbnailUrl,omitempty" bson:"thumbnail_url" gorm:"column:thumbnail_url;type:text"`
	ThumbnailPath string                      `json:"thumbnailPath,omitempty" bson:"thumbnail_path" gorm:"column:thumbnail_path;type:text"`
	DocumentURL   string                      `json:"documentUrl,omitempty" bson:"document_url" gorm:"column:document_url;type:text"`
	DocumentPath  string                      `json:"documentPath,omitempty" bson:"document_path" gorm:"column:document_path;type:text"`
	Skills        datatypes.JSONSlice[string] `json:"skills" bson:"skills" gorm:"column:skills;type:jsonb;not null"`
	Details       ProjectDetails              `json:"details" bson:"details" gorm:"column:details;type:jsonb;not null"`
	Likes         int64                       `json:"likes" bson:"likes" gorm:"column:likes;not null;default:0"`
	OwnerID       string                      `json:"ownerId,omitempty" bson:"owner_id" gorm:"column:owner_id;type:text"`
	CreatedAt     time.Time                   `json:"createdAt" bson:"created_at" gorm:"column:created_at;not null;index:idx_projects_created_at"`
	IsDeleted     bool                        `json:"isDeleted" bson:"is_deleted" gorm:"column:is_deleted;not null;default:false;index:idx_projects_bin,priority:1"`
	DeletedAt     *time.Time                  `json:"deletedAt" bson:"deleted_at" gorm:"column:deleted_at;index:idx_projects_bin,priority:2"`
}

func (Project) TableName() string {
	return "projects"
}

// AssetPaths returns the object-store keys the project references.
func (p *Project) AssetPaths() []string {
	var paths []string
	for _, path := range []string{p.MediaPath, p.ThumbnailPath, p.DocumentPath} {
		if path != "" {
			paths = append(paths, path)
		}
	}
	return paths
}

// Clone returns a deep copy.
func (p *Project) Clone() *Project {
	c := *p
	if p.Skills != nil {
		c.Skills = append(datatypes.JSONSlice[string]{}, p.Skills...)
	}
	if p.DeletedAt != nil {
		t := *p.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}

// ProjectDetails is the case-study narrative shown on the detail page.
type ProjectDetails struct {
	Goal    string `json:"goal" bson:"goal"`
	Process string `json:"process" bson:"process"`
	Outcome string `json:"outcome" bson:"outcome"`
}

// Value stores the details as a JSON document.
func (d ProjectDetails) Value() (driver.Value, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads the JSON document written by Value.
func (d *ProjectDetails) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*d = ProjectDetails{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("project details: unsupported scan type %T", value)
	}
	return json.Unmarshal(raw, d)
}
