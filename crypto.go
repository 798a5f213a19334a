package tezosprotocol

import (
	"golang.org/x/xerrors"
)

// BadLengthError indicates a payload's length did not match what its kind
// requires.
type BadLengthError struct {
	Expected int
	Actual   int
}

// Error implements the error interface
func (e *BadLengthError) Error() string {
	return xerrors.Errorf("expected %d bytes, saw %d", e.Expected, e.Actual).Error()
}

// UnsupportedCurveError indicates a public/private key's curve tag or prefix
// was not one of ed25519/secp256k1/P256.
type UnsupportedCurveError struct {
	Curve string
}

// Error implements the error interface
func (e *UnsupportedCurveError) Error() string {
	return "unsupported curve: " + e.Curve
}

// SignatureVerifyFailedError indicates that a signature could not be verified
// for the given message under the given public key. CheckSignature returns it
// for every verification failure: a signature that does not cover the message,
// and also a signature that cannot be decoded or whose prefix does not match
// the key's curve. The underlying cause is not carried.
type SignatureVerifyFailedError struct {
	PublicKey PublicKey
}

// Error implements the error interface
func (e *SignatureVerifyFailedError) Error() string {
	return "signature verification failed for public key " + string(e.PublicKey)
}

// DeriveAddress derives the base58check-encoded public key hash (pkh) for a
// base58check-encoded public key, for any of the three supported curves.
// This is a thin convenience wrapper over NewContractIDFromPublicKey that
// returns a plain string rather than a ContractID, since the result is
// always an implicit address.
func DeriveAddress(publicKey PublicKey) (string, error) {
	contractID, err := NewContractIDFromPublicKey(publicKey)
	if err != nil {
		return "", xerrors.Errorf("failed to derive address from public key %s: %w", publicKey, err)
	}
	return string(contractID), nil
}

// ValidateAddress reports whether s is a well-formed tezos address (either
// an implicit pkh or an originated KT1 contract), returning its AccountType
// on success. Errors surface the underlying Base58Check failure (bad
// checksum, unknown prefix, or a payload length that does not match the
// prefix), or report a prefix that is not an address prefix.
func ValidateAddress(s string) (AccountType, error) {
	b58prefix, payload, err := Base58CheckDecode(s)
	if err != nil {
		return "", err
	}
	switch b58prefix {
	case PrefixEd25519PublicKeyHash, PrefixSecp256k1PublicKeyHash, PrefixP256PublicKeyHash:
		if len(payload) != PubKeyHashLen {
			return "", &BadLengthError{Expected: PubKeyHashLen, Actual: len(payload)}
		}
		return AccountTypeImplicit, nil
	case PrefixContractHash:
		if len(payload) != ContractHashLen {
			return "", &BadLengthError{Expected: ContractHashLen, Actual: len(payload)}
		}
		return AccountTypeOriginated, nil
	default:
		return "", xerrors.Errorf("%s is not a tezos address: unexpected base58check prefix %s", s, b58prefix)
	}
}

// EncodePubKey re-wraps a raw, untagged public key (rawPubKey, exactly the
// curve-specific payload with no tag byte) under the Base58Check prefix
// matching the curve implied by pkh, a base58check-encoded public key hash.
// This is useful when a remote node returns a bare hex-encoded key alongside
// an address and the caller needs it back in PublicKey form.
func EncodePubKey(pkh string, rawPubKey []byte) (PublicKey, error) {
	b58prefix, _, err := Base58CheckDecode(pkh)
	if err != nil {
		return "", xerrors.Errorf("invalid public key hash %s: %w", pkh, err)
	}
	var pubKeyPrefix Base58CheckPrefix
	switch b58prefix {
	case PrefixEd25519PublicKeyHash:
		pubKeyPrefix = PrefixEd25519PublicKey
	case PrefixSecp256k1PublicKeyHash:
		pubKeyPrefix = PrefixSecp256k1PublicKey
	case PrefixP256PublicKeyHash:
		pubKeyPrefix = PrefixP256PublicKey
	default:
		return "", xerrors.Errorf("%s is not an implicit account public key hash", pkh)
	}
	encoded, err := Base58CheckEncode(pubKeyPrefix, rawPubKey)
	if err != nil {
		return "", xerrors.Errorf("failed to encode public key: %w", err)
	}
	return PublicKey(encoded), nil
}

// CheckSignature verifies that signature covers message under the given
// watermark and public key. A public key that cannot be decoded yields a
// generic error; any failure after that, whether the signature is malformed,
// of the wrong curve, or does not verify, yields SignatureVerifyFailedError.
func CheckSignature(publicKey PublicKey, signature Signature, message []byte, watermark Watermark) error {
	cryptoPubKey, err := publicKey.CryptoPublicKey()
	if err != nil {
		return xerrors.Errorf("failed to decode public key %s: %w", publicKey, err)
	}
	err = verifyGeneric(watermark, message, signature, cryptoPubKey)
	if err != nil {
		return &SignatureVerifyFailedError{PublicKey: publicKey}
	}
	return nil
}

// DecodeSignature returns the raw signature bytes (R||S for ECDSA curves, or
// the standard 64-byte encoding for Ed25519) for a base58check-encoded
// signature, with the Base58Check prefix stripped.
func DecodeSignature(signature Signature) ([]byte, error) {
	return signature.MarshalBinary()
}
