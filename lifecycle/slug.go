package lifecycle

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-backend/errs"
)

const maxSlugAttempts = 10

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonWordChars  = regexp.MustCompile(`[^\w-]+`)
	hyphenRun     = regexp.MustCompile(`--+`)
)

// Slugify lowercases title, turns whitespace into hyphens and strips everything else
// that is not a word character. An empty result becomes "project".
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = nonWordChars.ReplaceAllString(s, "")
	s = hyphenRun.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "project"
	}
	return s
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:5]
}

// uniqueSlug checks against every record, binned ones included.
func (m *Manager) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := Slugify(title)
	slug := base
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		_, err := m.projects.FindBySlug(ctx, slug)
		if errs.IsNotFound(err) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		slug = fmt.Sprintf("%s-%s", base, m.suffix())
	}
	return "", errs.NewConflictError(fmt.Sprintf("could not find a free slug for %q", base))
}
