package game

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/crypto/sha3"
)

// PRNG is a xoshiro256** generator (http://xoshiro.di.unimi.it/xoshiro256starstar.c).
// A zero PRNG is unseeded and refuses to produce output. It is owned by a
// single invocation and must be seeded before use; it is not safe for
// concurrent use.
type PRNG struct {
	s [4]uint64
}

// NewPRNG returns a generator seeded from entropy, whitened with SHA3-256.
func NewPRNG(entropy []byte) *PRNG {
	r := &PRNG{}
	r.Seed(entropy, true)
	return r
}

// Seed replaces the generator state. With whiten the entropy is hashed with
// SHA3-256 first. The bytes are read as a big-endian 256-bit integer: s[0]
// holds the least significant word and s[3] the most significant one.
func (r *PRNG) Seed(entropy []byte, whiten bool) {
	if whiten {
		sum := sha3.Sum256(entropy)
		entropy = sum[:]
	}

	var buf [32]byte
	if len(entropy) >= len(buf) {
		copy(buf[:], entropy[len(entropy)-len(buf):])
	} else {
		copy(buf[len(buf)-len(entropy):], entropy)
	}

	r.s[3] = binary.BigEndian.Uint64(buf[0:8])
	r.s[2] = binary.BigEndian.Uint64(buf[8:16])
	r.s[1] = binary.BigEndian.Uint64(buf[16:24])
	r.s[0] = binary.BigEndian.Uint64(buf[24:32])
}

// Seeded reports whether the state is usable.
func (r *PRNG) Seeded() bool {
	return r.s[0]|r.s[1]|r.s[2]|r.s[3] != 0
}

// Next advances the generator and returns the next 64-bit output.
func (r *PRNG) Next() (uint64, error) {
	if !r.Seeded() {
		return 0, ErrSeedUninitialized
	}

	result := bits.RotateLeft64(r.s[1]*5, 7) * 9
	t := r.s[1] << 17

	r.s[2] ^= r.s[0]
	r.s[3] ^= r.s[1]
	r.s[1] ^= r.s[2]
	r.s[0] ^= r.s[3]
	r.s[2] ^= t
	r.s[3] = bits.RotateLeft64(r.s[3], 45)

	return result, nil
}

// Range returns min + Next() % max. The modulo bias is part of the audited
// distribution and must not be corrected.
func (r *PRNG) Range(min, max uint64) (uint64, error) {
	if max == 0 {
		return 0, ErrEmptyRange
	}
	v, err := r.Next()
	if err != nil {
		return 0, err
	}
	return min + v%max, nil
}

// Pick returns a uniformly drawn element of items.
func Pick[T any](r *PRNG, items []T) (T, error) {
	var zero T
	pos, err := r.Range(0, uint64(len(items)))
	if err != nil {
		return zero, err
	}
	return items[pos], nil
}

// Shuffle permutes items in place, swapping each position with a strictly
// lower one. The final pos == 0 step would draw from an empty range and is
// skipped.
func Shuffle[T any](r *PRNG, items []T) error {
	for pos := len(items) - 1; pos > 0; pos-- {
		swap, err := r.Range(0, uint64(pos))
		if err != nil {
			return err
		}
		items[pos], items[swap] = items[swap], items[pos]
	}
	return nil
}
