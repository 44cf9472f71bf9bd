package namer

import (
	"fmt"
	"regexp"

	"github.com/jgivc/mediasorter/internal/common"
	"github.com/jgivc/mediasorter/internal/entity"
)

var moviePattern = regexp.MustCompile(`^(.*?)\.(\d{4})\.`)

type movieNamer struct{}

// NewMovieNamer returns a Namer for the <title>.<year>. movie convention.
func NewMovieNamer() Namer {
	return &movieNamer{}
}

func (n *movieNamer) Parse(rawName string) (*entity.Target, error) {
	m := moviePattern.FindStringSubmatch(rawName)
	if m == nil {
		return nil, common.ErrNameNotMatched
	}

	return &entity.Target{
		BaseName: fmt.Sprintf("%s %s", normalizeTokens(m[1]), m[2]),
	}, nil
}
