package ecdsaengine

import (
	"crypto/elliptic"
	"math/big"

	"golang.org/x/xerrors"
)

// CompressP256 encodes an affine NIST P-256 point in SEC1 compressed form:
// a 0x02/0x03 parity prefix followed by the 32-byte big-endian X coordinate.
func CompressP256(x, y *big.Int) []byte {
	prefix := byte(0x02)
	if y.Bit(0) == 1 {
		prefix = 0x03
	}
	out := make([]byte, 33)
	out[0] = prefix
	xBytes := x.Bytes()
	copy(out[33-len(xBytes):], xBytes)
	return out
}

// DecompressP256 recovers the affine Y coordinate for a SEC1-compressed
// P-256 point. P-256's prime is congruent to 3 mod 4, so the square root
// needed to recover Y is a single modular exponentiation.
func DecompressP256(compressed []byte) (x, y *big.Int, err error) {
	if len(compressed) != 33 {
		return nil, nil, xerrors.Errorf("expected 33-byte compressed point, got %d", len(compressed))
	}
	prefix := compressed[0]
	if prefix != 0x02 && prefix != 0x03 {
		return nil, nil, xerrors.Errorf("invalid compressed point prefix: %#x", prefix)
	}

	params := elliptic.P256().Params()
	x = new(big.Int).SetBytes(compressed[1:])

	// y^2 = x^3 - 3x + B mod P
	ySquared := new(big.Int).Exp(x, big.NewInt(3), params.P)
	threeX := new(big.Int).Mul(x, big.NewInt(3))
	ySquared.Sub(ySquared, threeX)
	ySquared.Add(ySquared, params.B)
	ySquared.Mod(ySquared, params.P)

	exp := new(big.Int).Rsh(new(big.Int).Add(params.P, big.NewInt(1)), 2)
	y = new(big.Int).Exp(ySquared, exp, params.P)
	if y.Bit(0) != uint(prefix&1) {
		y.Sub(params.P, y)
	}

	if !params.IsOnCurve(x, y) {
		return nil, nil, xerrors.New("decompressed point is not on the P-256 curve")
	}
	return x, y, nil
}
