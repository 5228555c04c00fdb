package desktop

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

// newRandomID returns item-<suffix> where suffix is 8 chars of base32
// (lowercase, no padding). 8 chars base32 ~= 40 bits of space.
func newRandomID() (string, error) {
	var b [5]byte // 40 bits -> 8 base32 chars
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return "item-" + suffix, nil
}

// newIDLocked generates an id unused by any item in the collection, trashed
// or not. Caller holds s.mu.
func (s *Store) newIDLocked() string {
	for i := 0; i < 10; i++ {
		id, err := newRandomID()
		if err != nil {
			break
		}
		if _, ok := s.findLocked(id); !ok {
			return id
		}
	}
	// Extremely unlikely fallback: crypto/rand failed or kept colliding.
	s.idSeq++
	return fmt.Sprintf("item-%d", s.idSeq)
}
