package idgen

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const TransactionPrefix = "tx"

// ULID hands out prefixed, lexically sortable IDs. IDs minted within the same
// millisecond stay unique and ordered through monotonic entropy.
type ULID struct {
	mu      sync.Mutex
	prefix  string
	entropy io.Reader
	now     func() time.Time
}

func NewULID(prefix string) *ULID {
	return &ULID{
		prefix:  prefix,
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

func (g *ULID) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
	if g.prefix == "" {
		return id.String()
	}
	return g.prefix + "_" + id.String()
}
