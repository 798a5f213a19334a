// Package hmacdrbg implements the HMAC-DRBG deterministic byte-stream
// generator from NIST SP 800-90A, restricted to the subset of operations
// (Instantiate/Update/Generate) that RFC 6979 deterministic-nonce generation
// needs. State is entirely stack-local: every call takes and returns a
// *Generator value, never a package-level singleton, so concurrent callers
// never interfere with each other.
package hmacdrbg

import (
	"crypto/hmac"
	"crypto/sha256"
)

const outputLen = sha256.Size // 32 bytes, per HMAC-SHA-256

// Generator holds the (V, K) state of one HMAC-DRBG instance.
type Generator struct {
	k [outputLen]byte
	v [outputLen]byte
}

// New instantiates a generator from the given seed material (for RFC 6979,
// entropy||nonce||personalization, i.e. privkey||truncated(h)) with the
// standard initial state K = 0x00..., V = 0x01....
func New(seedMaterial []byte) *Generator {
	g := &Generator{}
	for i := range g.k {
		g.k[i] = 0x00
	}
	for i := range g.v {
		g.v[i] = 0x01
	}
	g.update(seedMaterial)
	return g
}

// update implements the HMAC-DRBG update function: K = HMAC(K, V||0x00||provided);
// V = HMAC(K, V); and, if provided is non-empty, a second round with 0x01.
func (g *Generator) update(provided []byte) {
	mac := hmac.New(sha256.New, g.k[:])
	mac.Write(g.v[:])
	mac.Write([]byte{0x00})
	mac.Write(provided)
	copy(g.k[:], mac.Sum(nil))

	mac = hmac.New(sha256.New, g.k[:])
	mac.Write(g.v[:])
	copy(g.v[:], mac.Sum(nil))

	if len(provided) == 0 {
		return
	}

	mac = hmac.New(sha256.New, g.k[:])
	mac.Write(g.v[:])
	mac.Write([]byte{0x01})
	mac.Write(provided)
	copy(g.k[:], mac.Sum(nil))

	mac = hmac.New(sha256.New, g.k[:])
	mac.Write(g.v[:])
	copy(g.v[:], mac.Sum(nil))
}

// Generate returns the next n pseudorandom bytes and advances the
// generator's internal state, per the HMAC-DRBG generate operation.
func (g *Generator) Generate(n int) []byte {
	out := make([]byte, 0, n)
	for len(out) < n {
		mac := hmac.New(sha256.New, g.k[:])
		mac.Write(g.v[:])
		copy(g.v[:], mac.Sum(nil))
		out = append(out, g.v[:]...)
	}
	g.update(nil)
	return out[:n]
}
