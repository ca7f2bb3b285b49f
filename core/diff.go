package core

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff creates a unified diff between the original and fixed content of path.
func UnifiedDiff(path, original, modified string, context int) string {
	if original == modified {
		return ""
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(modified),
		FromFile: path,
		ToFile:   path + " (fixed)",
		Context:  context,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("--- %s\n+++ %s (fixed)\n@@ changes @@\n%d bytes -> %d bytes\n",
			path, path, len(original), len(modified))
	}

	return strings.TrimRight(text, "\n") + "\n"
}
