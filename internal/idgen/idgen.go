// Package idgen names mounted chart instances.
//
// A chart ID is also the prefix of every fragment id (gradients, patterns)
// in the chart's SVG, so two charts inlined into one page never collide. IDs
// must therefore be valid XML names and safe in a URL path segment.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Prefix starts every generated ID. It also guarantees a leading letter.
const Prefix = "ch-"

// alphabet is lowercase only so IDs survive case-folding CSS selectors.
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Length is the number of random characters after Prefix.
const Length = 10

// MaxLen bounds caller-chosen IDs.
const MaxLen = 64

// New returns a fresh chart ID such as "ch-3fq9zk1bwd".
func New() (string, error) {
	id, err := nanoid.Generate(alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return Prefix + id, nil
}

// Valid reports whether id may name a chart: 1 to MaxLen characters, a
// leading ASCII letter, then letters, digits, '-', '_' or '.'.
func Valid(id string) bool {
	if id == "" || len(id) > MaxLen || !isLetter(id[0]) {
		return false
	}
	for i := 1; i < len(id); i++ {
		c := id[i]
		if !isLetter(c) && !(c >= '0' && c <= '9') && c != '-' && c != '_' && c != '.' {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
