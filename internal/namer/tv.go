package namer

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/jgivc/mediasorter/internal/common"
	"github.com/jgivc/mediasorter/internal/entity"
)

var tvPattern = regexp.MustCompile(`(?i)^(.*?)S(\d{2})E(\d{2})`)

type tvNamer struct{}

// NewTVNamer returns a Namer for the <series>S<NN>E<NN> episode convention.
func NewTVNamer() Namer {
	return &tvNamer{}
}

func (n *tvNamer) Parse(rawName string) (*entity.Target, error) {
	m := tvPattern.FindStringSubmatch(rawName)
	if m == nil {
		return nil, common.ErrNameNotMatched
	}

	series := normalizeTokens(m[1])
	season, episode := m[2], m[3]

	return &entity.Target{
		Subdir:   filepath.Join(series, fmt.Sprintf("Season %s", season)),
		BaseName: fmt.Sprintf("%s S%sE%s", series, season, episode),
	}, nil
}
