package common

import "fmt"

var (
	ErrNameNotMatched        = fmt.Errorf("name does not match expected pattern")
	ErrSortHasAlreadyStarted = fmt.Errorf("sort pass has already started")
	ErrNoDownloadRoots       = fmt.Errorf("no download roots defined")
)
