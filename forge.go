package tezosprotocol

import (
	"strings"

	"golang.org/x/xerrors"
)

// ForgeAddress converts a base58check-encoded tezos address (tz1/tz2/tz3/KT1,
// optionally suffixed with "%entrypoint") into its binary $contract_id wire
// form. When an entrypoint is present, one additional tag byte is appended
// per the optimized address encoding used inside Micheline Bytes nodes.
func ForgeAddress(address string) ([]byte, error) {
	addrPart, entrypointPart := splitEntrypoint(address)

	contractID := ContractID(addrPart)
	addrBytes, err := contractID.MarshalBinary()
	if err != nil {
		return nil, xerrors.Errorf("failed to forge address %s: %w", address, err)
	}
	if entrypointPart == "" {
		return addrBytes, nil
	}

	entrypoint, err := entrypointByName(entrypointPart)
	if err != nil {
		return nil, xerrors.Errorf("failed to forge entrypoint %%%s: %w", entrypointPart, err)
	}
	return append(addrBytes, byte(entrypoint.Tag())), nil
}

// UnforgeAddress parses the binary $contract_id wire form (optionally
// followed by a single entrypoint tag byte) back into a base58check address
// string, reattaching "%entrypoint" when an entrypoint byte is present.
func UnforgeAddress(data []byte) (string, error) {
	if len(data) < ContractIDLen {
		return "", xerrors.Errorf("expected at least %d bytes for an address, saw %d", ContractIDLen, len(data))
	}
	var contractID ContractID
	if err := contractID.UnmarshalBinary(data[:ContractIDLen]); err != nil {
		return "", xerrors.Errorf("failed to unforge address: %w", err)
	}
	rest := data[ContractIDLen:]
	if len(rest) == 0 {
		return string(contractID), nil
	}
	if len(rest) != 1 {
		return "", xerrors.Errorf("unexpected %d trailing bytes after address", len(rest))
	}
	entrypoint := Entrypoint{tag: EntrypointTag(rest[0])}
	name, err := entrypoint.Name()
	if err != nil {
		return "", xerrors.Errorf("failed to unforge entrypoint tag: %w", err)
	}
	return string(contractID) + "%" + name, nil
}

// entrypointByName resolves one of the preset, single-byte entrypoint tags by
// name. Named (non-preset) entrypoints have no single-byte wire form and are
// out of scope for the compact address+entrypoint encoding.
func entrypointByName(name string) (Entrypoint, error) {
	switch name {
	case "default":
		return EntrypointDefault, nil
	case "root":
		return EntrypointRoot, nil
	case "do":
		return EntrypointDo, nil
	case "set_delegate":
		return EntrypointSetDelegate, nil
	case "remove_delegate":
		return EntrypointRemoveDelegate, nil
	default:
		return Entrypoint{}, xerrors.Errorf("%s is not a preset entrypoint with a single-byte wire form", name)
	}
}

func splitEntrypoint(address string) (addrPart string, entrypointPart string) {
	if idx := strings.IndexByte(address, '%'); idx >= 0 {
		return address[:idx], address[idx+1:]
	}
	return address, ""
}

// ForgePublicKey converts a base58check-encoded public key (edpk/sppk/p2pk)
// into its binary $public_key wire form: a 1-byte curve tag followed by the
// raw key bytes.
func ForgePublicKey(publicKey PublicKey) ([]byte, error) {
	return publicKey.MarshalBinary()
}

// UnforgePublicKey parses a binary $public_key (1-byte curve tag plus raw
// key bytes) into its base58check-encoded string form.
func UnforgePublicKey(data []byte) (PublicKey, error) {
	var publicKey PublicKey
	if err := publicKey.UnmarshalBinary(data); err != nil {
		return "", xerrors.Errorf("failed to unforge public key: %w", err)
	}
	return publicKey, nil
}

// ForgeBase58 decodes any base58check-encoded tezos value, inferring its kind
// from the leading prefix bytes registered in the Base58Check prefix table,
// and returns its raw payload (prefix and checksum stripped).
func ForgeBase58(s string) ([]byte, error) {
	_, payload, err := Base58CheckDecode(s)
	if err != nil {
		return nil, xerrors.Errorf("failed to forge base58 value %s: %w", s, err)
	}
	return payload, nil
}

// UnforgeSignature wraps raw signature bytes (R||S for the ECDSA curves, or
// the standard encoding for Ed25519) back into base58check form under the
// generic signature prefix, for callers that don't know or care which curve
// produced the bytes.
func UnforgeSignature(raw []byte) (Signature, error) {
	encoded, err := Base58CheckEncode(PrefixGenericSignature, raw)
	if err != nil {
		return "", xerrors.Errorf("failed to unforge signature: %w", err)
	}
	return Signature(encoded), nil
}
