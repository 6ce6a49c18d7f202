package report

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// InlineDiff renders a character-level difference between two lines.
// Deleted runs are wrapped as [-text-] and inserted runs as {+text+}.
func InlineDiff(a, b string) string {
	dmp := diffpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(a, b, false))

	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffpatch.DiffDelete:
			sb.WriteString("[-")
			sb.WriteString(d.Text)
			sb.WriteString("-]")
		case diffpatch.DiffInsert:
			sb.WriteString("{+")
			sb.WriteString(d.Text)
			sb.WriteString("+}")
		case diffpatch.DiffEqual:
			sb.WriteString(d.Text)
		}
	}

	return sb.String()
}
