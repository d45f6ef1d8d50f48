// Package random provides the seeded random source used to make generation
// runs reproducible, plus O(1) weighted categorical sampling.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// NoReasonGiven is the vote reason the server fills in when the caller left it empty.
const NoReasonGiven = "No reason given"

// Seed identifies a deterministic generation run.
// Text is empty for numeric or entropy seeds; when set, Value is its hash.
type Seed struct {
	Value uint64
	Text  string
}

// FromU64 returns a numeric seed without a textual form.
func FromU64(v uint64) Seed {
	return Seed{Value: v}
}

// FromString returns a seed whose value is the XXH64 hash (seed 0) of s.
func FromString(s string) Seed {
	return Seed{Value: HashString(s), Text: s}
}

// HashString is the stable 64-bit hash used for textual seeds.
func HashString(s string) uint64 {
	return xxhash.Sum64String(s)
}

// Entropy returns a seed drawn from crypto/rand.
func Entropy() Seed {
	var b [8]byte
	// crypto/rand.Read never returns an error since Go 1.24.
	_, _ = crand.Read(b[:])
	return FromU64(binary.LittleEndian.Uint64(b[:]))
}

// FromReason derives a seed from a vote reason: the server's placeholder yields
// fresh entropy, an unsigned decimal is used as is, anything else is hashed.
func FromReason(reason string) Seed {
	if reason == NoReasonGiven {
		return Entropy()
	}
	if v, err := strconv.ParseUint(reason, 10, 64); err == nil {
		return FromU64(v)
	}
	return FromString(reason)
}

// Next returns the seed tried after a failed attempt: value+1, wrapping, no text.
func (s Seed) Next() Seed {
	return FromU64(s.Value + 1)
}

// String formats the seed for console announcements.
func (s Seed) String() string {
	if s.Text == "" {
		return strconv.FormatUint(s.Value, 10)
	}
	return fmt.Sprintf("%d (%q)", s.Value, s.Text)
}
