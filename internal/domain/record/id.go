package record

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const idSuffixLen = 7

// NewID returns "<unix-millis>-<7 hex chars>". The random part comes from a
// v4 UUID; uniqueness is probable, not guaranteed.
func NewID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:idSuffixLen]
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + suffix
}
