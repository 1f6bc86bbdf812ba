// Package entid generates prefixed base62 entity ids, e.g.
// "cty_0CL2KwaB3cD5eF7gH9iJ". The timestamp prefix keeps ids roughly
// insertion-ordered for B-tree index locality.
package entid

import (
	cryptorand "crypto/rand"
	"strings"
	"time"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const (
	timestampLen = 6
	randomLen    = 16
)

// Known entity prefixes.
const (
	PrefixCity      = "cty"
	PrefixSpot      = "spt"
	PrefixHotel     = "htl"
	PrefixActivity  = "act"
	PrefixTransport = "trn"
	PrefixRow       = "row"
)

// New returns a fresh id with the given prefix.
func New(prefix string) string {
	return prefix + "_" + encodeTimestamp(time.Now().Unix()) + randomBase62(randomLen)
}

// encodeTimestamp encodes Unix seconds as a fixed-width base62 string,
// lexicographically sortable for any timestamp this service will see.
func encodeTimestamp(seconds int64) string {
	buf := make([]byte, timestampLen)
	n := seconds
	for i := timestampLen - 1; i >= 0; i-- {
		buf[i] = alphabet[n%62]
		n /= 62
	}
	return string(buf)
}

// randomBase62 draws length uniform base62 characters using 6-bit
// extraction with rejection sampling (values 62 and 63 are redrawn).
func randomBase62(length int) string {
	var b strings.Builder
	b.Grow(length)

	buf := make([]byte, length+8)
	mustRead := func() {
		if _, err := cryptorand.Read(buf); err != nil {
			panic("entid: crypto/rand failed: " + err.Error())
		}
	}
	mustRead()

	var bits uint64
	var nbits uint
	idx := 0
	for b.Len() < length {
		if nbits < 6 {
			if idx >= len(buf) {
				mustRead()
				idx = 0
			}
			bits = bits<<8 | uint64(buf[idx])
			nbits += 8
			idx++
		}
		v := (bits >> (nbits - 6)) & 0x3f
		nbits -= 6
		if v < 62 {
			b.WriteByte(alphabet[v])
		}
	}
	return b.String()
}
