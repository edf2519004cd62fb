// Package seed derives the 64-bit seeds that drive verse selection and the
// generator that turns a seed into list indexes.
package seed

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"
)

// hexDigits is how much of the hex encoded digest becomes the seed.
const hexDigits = 16

// SeedDerivationError reports a digest prefix that did not parse as base 16.
type SeedDerivationError struct {
	Input string
	Err   error
}

func (e *SeedDerivationError) Error() string {
	return fmt.Sprintf("failed to derive seed from %q: %v", e.Input, e.Err)
}

func (e *SeedDerivationError) Unwrap() error {
	return e.Err
}

// FromEntropy returns a seed from the runtime's OS-seeded generator.
func FromEntropy() uint64 {
	return rand.Uint64()
}

// FromDate returns the seed for the calendar day of t, in t's location.
// Every caller on the same day gets the same seed.
func FromDate(t time.Time) (uint64, error) {
	return FromString(t.Format(time.DateOnly))
}

// FromString hashes day with SHA-256 and reads the first 16 hex characters of
// the digest as an unsigned integer.
func FromString(day string) (uint64, error) {
	sum := sha256.Sum256([]byte(day))
	return parseHex(hex.EncodeToString(sum[:])[:hexDigits])
}

func parseHex(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, &SeedDerivationError{Input: s, Err: err}
	}
	return n, nil
}

// Generator picks indexes reproducibly from a seed.
type Generator struct {
	r *rand.Rand
}

// New returns a generator whose sequence is fully determined by seed.
func New(seed uint64) *Generator {
	return &Generator{r: rand.New(rand.NewPCG(seed, seed))}
}

// NextIndex returns a uniform integer in [0, n). It panics if n <= 0.
func (g *Generator) NextIndex(n int) int {
	return g.r.IntN(n)
}
