package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/twelled/spv-lifecycle/internal/store/schema"
)

// Summary assembles the plain-text deal summary from the root record and its
// full activity log, newest entry first as the log is stored
func Summary(spv *schema.SPV, entries []schema.ActivityLog) string {
	var b strings.Builder

	b.WriteString("DEAL SUMMARY\n")
	b.WriteString("============\n\n")

	writeField(&b, "SPV Name", spv.SPVName)
	writeField(&b, "Company", spv.CompanyName)
	writeField(&b, "Description", spv.Description)
	writeField(&b, "Country", spv.Country)
	writeField(&b, "Incorporation Type", spv.IncorporationType)
	writeField(&b, "Status", spv.Status.String())
	writeField(&b, "Created", spv.CreatedAt.UTC().Format(time.RFC3339))

	b.WriteString("\nACTIVITY LOG\n")
	b.WriteString("------------\n")
	if len(entries) == 0 {
		b.WriteString("No activity recorded.\n")
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %s", e.CreatedAt.UTC().Format(time.RFC3339), e.Action)
		if e.PreviousStatus != e.NewStatus {
			line += fmt.Sprintf(" (%s -> %s)", e.PreviousStatus, e.NewStatus)
		}
		b.WriteString(line + "\n")
	}

	return b.String()
}

// writeField writes one aligned "Label: value" line
func writeField(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "%-20s%s\n", label+":", value)
}

// Filename derives the download name from the SPV's display name
func Filename(spvName string) string {
	name := sanitize(spvName)
	if name == "" {
		name = "deal"
	}
	return name + "-summary.txt"
}

// sanitize keeps letters, digits, dashes and underscores, collapsing
// everything else to single dashes
func sanitize(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
