package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"time"
)

// GenerateETag derives a strong ETag for a document from its id and
// last update time.
func GenerateETag(id string, updatedAt time.Time) string {
	sum := sha1.Sum([]byte(id + ":" + strconv.FormatInt(updatedAt.UnixNano(), 10)))
	return `"` + hex.EncodeToString(sum[:]) + `"`
}
