// Package zarith implements the variable-length integer encoding used
// throughout the Tezos binary wire format. Two encodings are exposed:
// the unsigned encoding used for $n (nat) fields such as fees, counters,
// gas/storage limits and amounts; and the signed encoding used for $z
// (int) fields such as Micheline integers, where the first byte reserves
// a sign bit alongside six magnitude bits.
package zarith

import (
	"encoding/hex"
	"math/big"

	"golang.org/x/xerrors"
)

// Decode decodes an unsigned zarith encoded number from the entire input
// byte array. Assumes the input contains no extra trailing bytes.
func Decode(source []byte) (*big.Int, error) {
	value, bytesRead, err := ReadNext(source)
	if err != nil {
		return nil, err
	}
	if bytesRead != len(source) {
		return nil, xerrors.Errorf("unexpected trailing bytes after zarith number: consumed %d of %d bytes", bytesRead, len(source))
	}
	return value, nil
}

// DecodeHex decodes an unsigned zarith encoded number from the entire
// input hex string. Assumes the input contains no extra trailing bytes.
func DecodeHex(source string) (*big.Int, error) {
	decoded, err := hex.DecodeString(source)
	if err != nil {
		return nil, err
	}
	return Decode(decoded)
}

// ReadNext reads the next variable-length zarith number from the given
// byte stream. Returns the zarith number and the count of bytes read.
// Extra bytes are ignored.
func ReadNext(byteStream []byte) (*big.Int, int, error) {
	value := new(big.Int)
	shift := uint(0)
	for i := 0; i < len(byteStream); i++ {
		b := byteStream[i]
		chunk := new(big.Int).SetUint64(uint64(b & 0x7f))
		chunk.Lsh(chunk, shift)
		value.Or(value, chunk)
		shift += 7
		if b&0x80 == 0 {
			return value, i + 1, nil
		}
	}
	return nil, -1, xerrors.New("exhausted input while searching for end of next zarith number")
}

// Encode encodes a non-negative number to zarith. It is an error to pass a
// negative value here -- use EncodeSigned for $z (int) fields, which may be
// negative.
func Encode(value *big.Int) ([]byte, error) {
	if value == nil {
		value = big.NewInt(0)
	}
	if value.Sign() < 0 {
		return nil, xerrors.Errorf("cannot encode negative integer as unsigned zarith: %s", value)
	}

	n := new(big.Int).Set(value)
	mask := big.NewInt(0x7f)
	var out []byte
	for {
		b := byte(new(big.Int).And(n, mask).Uint64())
		n.Rsh(n, 7)
		if n.Sign() != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if n.Sign() == 0 {
			break
		}
	}
	return out, nil
}

// EncodeToHex encodes a non-negative number to zarith, hex-encoded.
func EncodeToHex(value *big.Int) (string, error) {
	encoded, err := Encode(value)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(encoded), nil
}

// EncodeSigned encodes a (possibly negative) number to the signed zarith
// encoding. The sign occupies bit 6 of the first byte; the low 6 bits of
// the first byte and the low 7 bits of every subsequent byte carry the
// magnitude, least-significant chunk first, with bit 7 of every byte but
// the last set as a continuation flag.
func EncodeSigned(value *big.Int) []byte {
	if value == nil {
		value = big.NewInt(0)
	}
	negative := value.Sign() < 0
	n := new(big.Int).Abs(value)

	firstByte := byte(new(big.Int).And(n, big.NewInt(0x3f)).Uint64())
	if negative {
		firstByte |= 0x40
	}
	n.Rsh(n, 6)
	if n.Sign() != 0 {
		firstByte |= 0x80
	}
	out := []byte{firstByte}

	mask := big.NewInt(0x7f)
	for n.Sign() != 0 {
		b := byte(new(big.Int).And(n, mask).Uint64())
		n.Rsh(n, 7)
		if n.Sign() != 0 {
			b |= 0x80
		}
		out = append(out, b)
	}
	return out
}

// EncodeSignedToHex encodes a (possibly negative) number to the signed
// zarith encoding, hex-encoded.
func EncodeSignedToHex(value *big.Int) string {
	return hex.EncodeToString(EncodeSigned(value))
}

// DecodeSigned decodes a signed zarith encoded number from the entire
// input byte array. Assumes the input contains no extra trailing bytes.
func DecodeSigned(source []byte) (*big.Int, error) {
	value, bytesRead, err := ReadNextSigned(source)
	if err != nil {
		return nil, err
	}
	if bytesRead != len(source) {
		return nil, xerrors.Errorf("unexpected trailing bytes after signed zarith number: consumed %d of %d bytes", bytesRead, len(source))
	}
	return value, nil
}

// DecodeSignedHex decodes a signed zarith encoded number from the entire
// input hex string. Assumes the input contains no extra trailing bytes.
func DecodeSignedHex(source string) (*big.Int, error) {
	decoded, err := hex.DecodeString(source)
	if err != nil {
		return nil, err
	}
	return DecodeSigned(decoded)
}

// ReadNextSigned reads the next variable-length signed zarith number from
// the given byte stream. Returns the zarith number and the count of bytes
// read. Extra bytes are ignored.
func ReadNextSigned(byteStream []byte) (*big.Int, int, error) {
	if len(byteStream) == 0 {
		return nil, -1, xerrors.New("expected non-empty byte array")
	}

	firstByte := byteStream[0]
	negative := firstByte&0x40 != 0
	value := new(big.Int).SetUint64(uint64(firstByte & 0x3f))
	if firstByte&0x80 == 0 {
		if negative {
			value.Neg(value)
		}
		return value, 1, nil
	}

	shift := uint(6)
	for i := 1; i < len(byteStream); i++ {
		b := byteStream[i]
		chunk := new(big.Int).SetUint64(uint64(b & 0x7f))
		chunk.Lsh(chunk, shift)
		value.Or(value, chunk)
		shift += 7
		if b&0x80 == 0 {
			if negative {
				value.Neg(value)
			}
			return value, i + 1, nil
		}
	}
	return nil, -1, xerrors.New("unterminated signed zarith number: reached end of stream with continuation bit set")
}
