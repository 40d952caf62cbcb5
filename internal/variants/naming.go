package variants

import (
	"strings"
	"time"

	"github.com/jonathan/resume-variants/internal/types"
)

// DraftName picks the display name for a new draft: the preset name, then the
// guessed company, then a dated placeholder.
func DraftName(preset string, ctx types.JobContext, createdAt time.Time) string {
	if name := strings.TrimSpace(preset); name != "" {
		return name
	}
	if ctx.Company != "" {
		return "Variant for " + ctx.Company
	}
	return "Untitled Variant – " + createdAt.Format("Jan 2")
}
