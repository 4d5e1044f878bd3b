// Package rand generates the random string material used for block ids.
package rand

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

const (
	bytesInUint64 = 8
	charset       = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789" // reduced base64
)

var charsetLen = len(charset)

var defaultSource = newSource()

func newSource() *source {
	seed := make([]byte, bytesInUint64*2)

	if _, err := cryptorand.Read(seed); err != nil {
		panic("unreachable")
	}

	return &source{
		//nolint:gosec // ids are not security material
		rng: rand.New(rand.NewPCG(
			binary.LittleEndian.Uint64(seed[:8]),
			binary.LittleEndian.Uint64(seed[8:]),
		)),
	}
}

type source struct {
	mut sync.Mutex
	rng *rand.Rand
}

func (s *source) base62Str(length int) string {
	buf := make([]byte, length)

	s.mut.Lock()
	for i := range buf {
		buf[i] = charset[s.rng.IntN(charsetLen)]
	}
	s.mut.Unlock()

	return string(buf)
}

// String returns a random base62 string of the given length. The distribution
// is uniform over the charset; collision handling is the caller's concern.
func String(length int) string {
	return defaultSource.base62Str(length)
}
