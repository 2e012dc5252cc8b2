package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewID builds a string primary key of the form <prefix><unix-ms>-<rand>,
// e.g. "ret1735689600000-3f2a".  The millisecond timestamp keeps keys
// roughly sortable by creation time; the uuid fragment breaks ties when
// two rows are created in the same millisecond.
func NewID(prefix string) string {
	return fmt.Sprintf("%s%d-%s", prefix, time.Now().UnixMilli(), uuid.NewString()[:4])
}
