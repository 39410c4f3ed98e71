package fixer

import (
	"fmt"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// UnifiedDiff renders a unified diff between the original and fixed content
// of a file, for dry-run preview.
func UnifiedDiff(path, original, fixed string) string {
	edits := myers.ComputeEdits(span.URIFromPath(path), original, fixed)
	return fmt.Sprint(gotextdiff.ToUnified(path, path+" (fixed)", original, edits))
}
