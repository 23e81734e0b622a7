package arena

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// IDSource mints entity ids that sort by creation time. Safe for
// concurrent use; games of one registry share it.
type IDSource struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewIDSource() *IDSource {
	return &IDSource{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (s *IDSource) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.ToLower(ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String())
}
