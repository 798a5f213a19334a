// Package ecdsaengine implements deterministic ECDSA sign/verify (RFC 6979)
// over any elliptic.Curve, used for both secp256k1 (via btcec.S256(), which
// implements elliptic.Curve over decred's Jacobian-coordinate secp256k1
// arithmetic) and NIST P-256 (via crypto/elliptic.P256(), whose ScalarMult
// implementation is likewise Jacobian-coordinate internally). One generic
// implementation covers both curves; the curve-specific Jacobian point
// arithmetic itself lives in those libraries, not here.
package ecdsaengine

import (
	"crypto/elliptic"
	"math/big"

	"github.com/tzforge/tezosprotocol/internal/hmacdrbg"
	"golang.org/x/xerrors"
)

// Sign produces a deterministic ECDSA signature over hash, returning the
// fixed-width R||S encoding (two curve-order-sized big-endian integers),
// low-S normalized.
func Sign(curve elliptic.Curve, priv *big.Int, hash []byte) ([]byte, error) {
	n := curve.Params().N
	if priv.Sign() <= 0 || priv.Cmp(n) >= 0 {
		return nil, xerrors.New("private key scalar out of range")
	}
	byteLen := (curve.Params().BitSize + 7) / 8
	z := hashToInt(hash, curve)
	gen := deterministicKGenerator(curve, priv, hash)

	for {
		k := nextK(gen, curve)

		x, _ := curve.ScalarBaseMult(k.Bytes())
		r := new(big.Int).Mod(x, n)
		if r.Sign() == 0 {
			continue
		}

		kInv := new(big.Int).ModInverse(k, n)
		if kInv == nil {
			continue
		}
		s := new(big.Int).Mul(priv, r)
		s.Add(s, z)
		s.Mul(s, kInv)
		s.Mod(s, n)
		if s.Sign() == 0 {
			continue
		}

		halfN := new(big.Int).Rsh(n, 1)
		if s.Cmp(halfN) == 1 {
			s.Sub(n, s)
		}

		out := make([]byte, 2*byteLen)
		r.FillBytes(out[:byteLen])
		s.FillBytes(out[byteLen:])
		return out, nil
	}
}

// Verify reports whether sig (the R||S encoding Sign produces) is a valid
// signature over hash for the public key (pubX, pubY).
func Verify(curve elliptic.Curve, pubX, pubY *big.Int, hash []byte, sig []byte) (bool, error) {
	n := curve.Params().N
	byteLen := (curve.Params().BitSize + 7) / 8
	if len(sig) != 2*byteLen {
		return false, xerrors.Errorf("invalid signature length: expected %d bytes, got %d", 2*byteLen, len(sig))
	}

	r := new(big.Int).SetBytes(sig[:byteLen])
	s := new(big.Int).SetBytes(sig[byteLen:])
	if r.Sign() <= 0 || r.Cmp(n) >= 0 || s.Sign() <= 0 || s.Cmp(n) >= 0 {
		return false, nil
	}
	if !curve.IsOnCurve(pubX, pubY) {
		return false, xerrors.New("public key is not on curve")
	}

	z := hashToInt(hash, curve)
	w := new(big.Int).ModInverse(s, n)
	if w == nil {
		return false, nil
	}
	u1 := new(big.Int).Mod(new(big.Int).Mul(z, w), n)
	u2 := new(big.Int).Mod(new(big.Int).Mul(r, w), n)

	x1, y1 := curve.ScalarBaseMult(u1.Bytes())
	x2, y2 := curve.ScalarMult(pubX, pubY, u2.Bytes())
	x, y := curve.Add(x1, y1, x2, y2)
	if x.Sign() == 0 && y.Sign() == 0 {
		return false, nil
	}

	x.Mod(x, n)
	return x.Cmp(r) == 0, nil
}

// deterministicKGenerator seeds an HMAC-DRBG per RFC 6979 section 3.2: the
// seed material is the private key as a curve-byte-length big-endian
// integer, followed by the message hash truncated or zero-padded to the
// same length.
func deterministicKGenerator(curve elliptic.Curve, priv *big.Int, hash []byte) *hmacdrbg.Generator {
	byteLen := (curve.Params().BitSize + 7) / 8

	skBytes := make([]byte, byteLen)
	priv.FillBytes(skBytes)

	msgBytes := make([]byte, byteLen)
	if len(hash) >= byteLen {
		copy(msgBytes, hash[:byteLen])
	} else {
		copy(msgBytes[byteLen-len(hash):], hash)
	}

	seed := make([]byte, 0, 2*byteLen)
	seed = append(seed, skBytes...)
	seed = append(seed, msgBytes...)
	return hmacdrbg.New(seed)
}

// nextK draws candidate nonces from the generator until one lands strictly
// between 0 and the curve order, per RFC 6979's retry rule.
func nextK(gen *hmacdrbg.Generator, curve elliptic.Curve) *big.Int {
	n := curve.Params().N
	byteLen := (curve.Params().BitSize + 7) / 8
	for {
		candidate := gen.Generate(byteLen)
		k := new(big.Int).SetBytes(candidate)
		if k.Sign() != 0 && k.Cmp(n) < 0 {
			return k
		}
	}
}

// hashToInt implements the FIPS 186 bits2int conversion: the hash is
// truncated to the curve order's bit length, taking the leftmost bits.
func hashToInt(hash []byte, curve elliptic.Curve) *big.Int {
	orderBits := curve.Params().N.BitLen()
	orderBytes := (orderBits + 7) / 8
	if len(hash) > orderBytes {
		hash = hash[:orderBytes]
	}
	ret := new(big.Int).SetBytes(hash)
	if excess := len(hash)*8 - orderBits; excess > 0 {
		ret.Rsh(ret, uint(excess))
	}
	return ret
}
