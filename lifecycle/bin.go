package lifecycle

import (
	"fmt"
	"math"
	"time"

	"github.com/rpupo63/portfolio-backend/models"
)

const (
	StatusDeletingSoon = "deleting soon"
	StatusPending      = "pending deletion"
)

// BinEntry is a binned project as shown in the admin bin.
type BinEntry struct {
	*models.Project
	DaysRemaining int    `json:"daysRemaining"`
	Status        string `json:"status"`
}

// NewBinEntry computes how many whole days p has left before the sweeper purges it.
func NewBinEntry(p *models.Project, now time.Time, retentionDays int) BinEntry {
	if p.DeletedAt == nil {
		return BinEntry{Project: p, DaysRemaining: retentionDays, Status: StatusPending}
	}

	daysSince := int(math.Floor(now.Sub(*p.DeletedAt).Hours() / 24))
	remaining := retentionDays - daysSince
	return BinEntry{Project: p, DaysRemaining: remaining, Status: binStatus(remaining)}
}

func binStatus(daysRemaining int) string {
	switch {
	case daysRemaining <= 0:
		return StatusDeletingSoon
	case daysRemaining == 1:
		return "in 1 day"
	}
	return fmt.Sprintf("in %d days", daysRemaining)
}
