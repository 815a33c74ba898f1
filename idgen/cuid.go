package idgen

import (
	"crypto/rand"
	"math/big"
	"strings"
	"sync/atomic"
	"time"
)

// cuid has no home in the retrieved corpus (see DESIGN.md), so it is built
// directly against crypto/rand and math/big following the published cuid
// shape: a 'c' prefix, a base36 timestamp block, a monotonic counter block,
// a host fingerprint block, and a random block — base36 throughout, all
// lowercase, at least 24 characters total.
const cuidBase = 36

var cuidCounter uint32

// cuid returns a new cuid-shaped identifier.
func cuid() string {
	var b strings.Builder
	b.WriteByte('c')
	b.WriteString(pad(base36(uint64(time.Now().UnixMilli())), 8))
	b.WriteString(pad(base36(uint64(nextCounter())), 4))
	b.WriteString(pad(fingerprint(), 4))
	b.WriteString(pad(randomBlock(8), 8))
	return b.String()
}

func nextCounter() uint32 {
	return atomic.AddUint32(&cuidCounter, 1) % 1_000_000
}

// fingerprint derives a short, process-stable block from the current
// process's PID-like random seed captured at package init, standing in for
// the hostname+pid fingerprint of the original cuid algorithm (Go offers no
// portable, permission-free hostname+pid pairing guaranteed unique across
// containers, so a random block generated once per process serves the same
// purpose: distinct processes get distinct fingerprints).
var processFingerprint = randomBlock(4)

func fingerprint() string { return processFingerprint }

func randomBlock(n int) string {
	var b strings.Builder
	max := big.NewInt(cuidBase)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failure is unrecoverable; fall back to a
			// time-seeded digit rather than panicking mid-ID.
			b.WriteByte(base36Digit(int(time.Now().UnixNano()) % cuidBase))
			continue
		}
		b.WriteByte(base36Digit(int(d.Int64())))
	}
	return b.String()
}

func base36(v uint64) string {
	if v == 0 {
		return "0"
	}
	var digits []byte
	for v > 0 {
		digits = append([]byte{base36Digit(int(v % cuidBase))}, digits...)
		v /= cuidBase
	}
	return string(digits)
}

func base36Digit(d int) byte {
	if d < 10 {
		return byte('0' + d)
	}
	return byte('a' + d - 10)
}

// pad left-pads s with zeros (or keeps only its n low-order digits,
// dropping the high-order ones) to exactly n characters, so every cuid
// block has a fixed, predictable width.
func pad(s string, n int) string {
	if len(s) >= n {
		return s[len(s)-n:]
	}
	return strings.Repeat("0", n-len(s)) + s
}
