// Package namer turns raw release folder names into library targets.
//
// Release-group names are noisy, so both variants rely on the first regexp
// match and on replacing separator dots with spaces instead of any deeper
// normalization. Underscores and brackets are deliberately left as-is.
package namer

import (
	"strings"

	"github.com/jgivc/mediasorter/internal/entity"
)

// Namer maps a raw release name to its target location inside a library root.
type Namer interface {
	Parse(rawName string) (*entity.Target, error)
}

func normalizeTokens(str string) string {
	return strings.TrimSpace(strings.ReplaceAll(str, ".", " "))
}
