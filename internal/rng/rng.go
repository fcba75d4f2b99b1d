// Package rng provides the random sources used to shuffle the deck
package rng

import (
	"crypto/rand"
	"math"
	"math/big"
)

// Generator provides the seed of each shuffle
type Generator interface {
	// Int63 returns a non-negative random 63-bit integer
	Int63() int64
}

// Crypto reads from crypto/rand. It is the source used by live games
type Crypto struct{}

// Int63 returns a random number from 0 <= x < math.MaxInt64
func (Crypto) Int63() int64 {
	b, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		panic(err)
	}

	return b.Int64()
}

// Fixed always returns the same value. It is used to make shuffles reproducible in tests
type Fixed int64

// Int63 returns the fixed value
func (f Fixed) Int63() int64 {
	return int64(f)
}
