package store

import (
	"strconv"
	"testing"
	"time"
)

func TestTimeIDIsMillisecondTimestamp(t *testing.T) {
	before := time.Now().UnixMilli()
	id := timeID()
	after := time.Now().UnixMilli()

	ms, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		t.Fatalf("timeID() = %q, want a decimal integer: %v", id, err)
	}
	if ms < before || ms > after {
		t.Fatalf("timeID() = %d, want a millisecond timestamp in [%d, %d]", ms, before, after)
	}
}
