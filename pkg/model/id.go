package model

import "github.com/google/uuid"

// GlobalID is the globally unique, immutable identifier assigned to every
// entity and relation at creation. Only uniqueness is contractual; the
// format follows the 22-character compressed GUID convention so encoded
// output looks familiar to downstream tooling.
type GlobalID string

// ZeroGlobalID is the zero value for GlobalID.
const ZeroGlobalID GlobalID = ""

// IsZero reports whether the ID is unset.
func (id GlobalID) IsZero() bool { return id == ZeroGlobalID }

// Short returns a truncated form for log and error messages.
func (id GlobalID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}

// guidChars is the 64-character alphabet used by the compressed GUID
// encoding (digits, upper, lower, then "_" and "$").
const guidChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz_$"

// NewGlobalID returns a fresh collision-resistant identifier: a random
// UUID compressed to 22 characters, 6 bits per character.
func NewGlobalID() GlobalID {
	u := uuid.New()

	// Prepend four zero bits so the 128-bit UUID packs evenly into
	// 22 base-64 digits (22 * 6 = 132 bits).
	var out [22]byte
	var acc uint32
	bits := 4
	j := 0
	for i := 0; i < len(u); i++ {
		acc = acc<<8 | uint32(u[i])
		bits += 8
		for bits >= 6 {
			bits -= 6
			out[j] = guidChars[(acc>>uint(bits))&0x3f]
			j++
		}
	}
	return GlobalID(out[:])
}
