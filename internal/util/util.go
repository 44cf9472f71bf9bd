package util

import (
	"crypto/sha1"
	"encoding/hex"
)

// ID returns a stable identifier for a filesystem path.
func ID(str string) string {
	hasher := sha1.New()
	hasher.Write([]byte(str))

	return hex.EncodeToString(hasher.Sum(nil))
}
