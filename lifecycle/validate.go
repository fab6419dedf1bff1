package lifecycle

import (
	"strings"

	"github.com/rpupo63/portfolio-backend/errs"
)

var validate = errs.NewValidator()

// Validate checks s against its struct tags and returns the first failure as an ApiErr.
func Validate(s interface{}) error {
	return errs.FromValidator(validate.Struct(s))
}

// cleanSkills trims entries and drops blanks.
func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SplitSkills accepts the comma separated form used by the admin form.
func SplitSkills(raw string) []string {
	return cleanSkills(strings.Split(raw, ","))
}

// trimmed returns a trimmed copy of p, or nil.
func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	return &s
}
