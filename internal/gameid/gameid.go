// Package gameid generates and validates game identifiers: UUIDv7 rendered
// as a 26-character Crockford base32 string, so IDs sort by creation time.
package gameid

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Generate creates a new game ID.
func Generate() string {
	var id [16]byte

	// 48-bit millisecond timestamp, then random bits with the version (7)
	// and variant (10) fields set per RFC 9562.
	now := time.Now().UnixMilli()
	id[0] = byte(now >> 40)
	id[1] = byte(now >> 32)
	id[2] = byte(now >> 24)
	id[3] = byte(now >> 16)
	id[4] = byte(now >> 8)
	id[5] = byte(now)
	if _, err := rand.Read(id[6:]); err != nil {
		panic("gameid: failed to read random bytes: " + err.Error())
	}
	id[6] = (id[6] & 0x0f) | 0x70
	id[8] = (id[8] & 0x3f) | 0x80

	return encode(id)
}

// encode renders 128 bits as 26 base32 characters, padding two zero bits at
// the front so the first character is always 0-7.
func encode(id [16]byte) string {
	var out [26]byte
	var acc uint64
	bits := uint(2)
	n := 0
	for _, b := range id {
		acc = acc<<8 | uint64(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out[n] = alphabet[(acc>>bits)&0x1f]
			n++
		}
	}
	return string(out[:])
}

// Validate checks that an ID is 26 characters of the base32 alphabet with a
// leading character that keeps the value within 128 bits.
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("game ID must be exactly 26 characters, got %d", len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}
