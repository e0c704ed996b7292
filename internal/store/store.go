// Package store holds the two durable collections at the heart of the
// service: user accounts and complaints. Each store loads its collection
// from the key-value layer once at construction, keeps it in memory, and
// writes the full collection back after every mutation.
package store

import (
	"strconv"
	"time"
)

// timeID generates the time-based tokens used as record ids: millisecond
// timestamp strings. Uniqueness is caller-guaranteed, not collision-checked.
func timeID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}
