package tezosprotocol

import (
	"encoding/binary"
	"math/big"
	"strings"

	"github.com/tzforge/tezosprotocol/zarith"
	"golang.org/x/xerrors"
)

// Micheline tags, per https://gitlab.com/tezos/tezos/blob/master/src%2Flib_micheline%2Fmicheline.ml#L250
const (
	michelineTagInt byte = iota
	michelineTagString
	michelineTagSeq
	michelineTagPrim0
	michelineTagPrim0A
	michelineTagPrim1
	michelineTagPrim1A
	michelineTagPrim2
	michelineTagPrim2A
	michelineTagPrimN
	michelineTagBytes
)

// MichelineNode represents one node in the tree of Micheline expressions
type MichelineNode interface {
	isMichelineNode()
	MarshalBinary() ([]byte, error)
	UnmarshalBinary([]byte) error
}

// decodeMichelineNode decodes a single Micheline node starting at the
// beginning of data, returning the node and the number of bytes consumed.
// Trailing bytes are left unconsumed -- used by sequence and prim-arg
// decoding, which must know where each element ends.
func decodeMichelineNode(data []byte) (MichelineNode, int, error) {
	if len(data) == 0 {
		return nil, 0, xerrors.New("empty micheline node")
	}
	tag := data[0]
	switch tag {
	case michelineTagInt:
		value, bytesRead, err := zarith.ReadNextSigned(data[1:])
		if err != nil {
			return nil, 0, xerrors.Errorf("decoding micheline int: %w", err)
		}
		node := MichelineInt(*value)
		return &node, 1 + bytesRead, nil
	case michelineTagString:
		body, consumed, err := readLenPrefixedBytes(data, 1)
		if err != nil {
			return nil, 0, xerrors.Errorf("decoding micheline string: %w", err)
		}
		node := MichelineString(body)
		return &node, consumed, nil
	case michelineTagBytes:
		body, consumed, err := readLenPrefixedBytes(data, 1)
		if err != nil {
			return nil, 0, xerrors.Errorf("decoding micheline bytes: %w", err)
		}
		node := MichelineBytes(append([]byte{}, body...))
		return &node, consumed, nil
	case michelineTagSeq:
		body, consumed, err := readLenPrefixedBytes(data, 1)
		if err != nil {
			return nil, 0, xerrors.Errorf("decoding micheline sequence: %w", err)
		}
		elements, err := decodeMichelineNodes(body)
		if err != nil {
			return nil, 0, xerrors.Errorf("decoding micheline sequence elements: %w", err)
		}
		seq := MichelineSeq(elements)
		return &seq, consumed, nil
	case michelineTagPrim0, michelineTagPrim0A, michelineTagPrim1, michelineTagPrim1A,
		michelineTagPrim2, michelineTagPrim2A, michelineTagPrimN:
		return decodeMichelinePrim(tag, data)
	default:
		return nil, 0, xerrors.Errorf("unrecognized micheline tag: %#x", tag)
	}
}

// readLenPrefixedBytes reads a u32 big-endian length prefix followed by that
// many bytes, starting at offset within data. Returns the body and the total
// number of bytes consumed (offset + 4 + len(body)).
func readLenPrefixedBytes(data []byte, offset int) ([]byte, int, error) {
	if len(data) < offset+4 {
		return nil, 0, xerrors.New("truncated length prefix")
	}
	length := binary.BigEndian.Uint32(data[offset : offset+4])
	start := offset + 4
	end := start + int(length)
	if len(data) < end {
		return nil, 0, xerrors.New("truncated body")
	}
	return data[start:end], end, nil
}

// decodeMichelineNodes decodes a back-to-back concatenation of Micheline
// nodes filling the entire byte slice, used for sequences and PrimN args.
func decodeMichelineNodes(data []byte) ([]MichelineNode, error) {
	var nodes []MichelineNode
	offset := 0
	for offset < len(data) {
		node, consumed, err := decodeMichelineNode(data[offset:])
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
		offset += consumed
	}
	return nodes, nil
}

func decodeMichelinePrim(tag byte, data []byte) (MichelineNode, int, error) {
	offset := 1
	if len(data) < offset+1 {
		return nil, 0, xerrors.New("missing prim tag byte")
	}
	primTag := data[offset]
	offset++

	var args []MichelineNode
	var annots []string

	readArg := func() (MichelineNode, error) {
		node, consumed, err := decodeMichelineNode(data[offset:])
		if err != nil {
			return nil, err
		}
		offset += consumed
		return node, nil
	}
	readAnnots := func() error {
		blob, consumed, err := readLenPrefixedBytes(data, offset)
		if err != nil {
			return xerrors.Errorf("decoding annots: %w", err)
		}
		offset = consumed
		if len(blob) > 0 {
			annots = strings.Split(string(blob), " ")
		}
		return nil
	}

	switch tag {
	case michelineTagPrim0:
	case michelineTagPrim0A:
		if err := readAnnots(); err != nil {
			return nil, 0, err
		}
	case michelineTagPrim1, michelineTagPrim1A:
		arg, err := readArg()
		if err != nil {
			return nil, 0, err
		}
		args = append(args, arg)
		if tag == michelineTagPrim1A {
			if err := readAnnots(); err != nil {
				return nil, 0, err
			}
		}
	case michelineTagPrim2, michelineTagPrim2A:
		arg1, err := readArg()
		if err != nil {
			return nil, 0, err
		}
		arg2, err := readArg()
		if err != nil {
			return nil, 0, err
		}
		args = append(args, arg1, arg2)
		if tag == michelineTagPrim2A {
			if err := readAnnots(); err != nil {
				return nil, 0, err
			}
		}
	case michelineTagPrimN:
		argBytes, consumed, err := readLenPrefixedBytes(data, offset)
		if err != nil {
			return nil, 0, xerrors.Errorf("decoding PrimN args: %w", err)
		}
		offset = consumed
		args, err = decodeMichelineNodes(argBytes)
		if err != nil {
			return nil, 0, xerrors.Errorf("decoding PrimN arg elements: %w", err)
		}
		if err := readAnnots(); err != nil {
			return nil, 0, err
		}
	}

	node := MichelinePrim{Prim: primTag, Args: args, Annots: annots}
	return &node, offset, nil
}

func marshalMichelineNodes(nodes []MichelineNode) ([]byte, error) {
	var out []byte
	for _, node := range nodes {
		encoded, err := node.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out = append(out, encoded...)
	}
	return out, nil
}

func marshalLenPrefixed(tag byte, body []byte) []byte {
	lenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBuf, uint32(len(body)))
	out := make([]byte, 0, 1+4+len(body))
	out = append(out, tag)
	out = append(out, lenBuf...)
	out = append(out, body...)
	return out
}

func annotsBlob(annots []string) []byte {
	lenBuf := make([]byte, 4)
	if len(annots) == 0 {
		binary.BigEndian.PutUint32(lenBuf, 0)
		return lenBuf
	}
	blob := strings.Join(annots, " ")
	binary.BigEndian.PutUint32(lenBuf, uint32(len(blob)))
	return append(lenBuf, []byte(blob)...)
}

// MichelineInt represents an integer in a Micheline expression
type MichelineInt big.Int

func (*MichelineInt) isMichelineNode() {}

// MarshalBinary implements the MichelineNode interface
func (m MichelineInt) MarshalBinary() ([]byte, error) {
	value := big.Int(m)
	return append([]byte{michelineTagInt}, zarith.EncodeSigned(&value)...), nil
}

// UnmarshalBinary implements the MichelineNode interface
func (m *MichelineInt) UnmarshalBinary(data []byte) error {
	node, consumed, err := decodeMichelineNode(data)
	if err != nil {
		return err
	}
	if consumed != len(data) {
		return xerrors.Errorf("trailing bytes after micheline int: consumed %d of %d", consumed, len(data))
	}
	decoded, ok := node.(*MichelineInt)
	if !ok {
		return xerrors.New("decoded micheline node is not an Int")
	}
	*m = *decoded
	return nil
}

// MichelineString represents a string in a Micheline expression
type MichelineString string

func (*MichelineString) isMichelineNode() {}

// MarshalBinary implements the MichelineNode interface
func (m MichelineString) MarshalBinary() ([]byte, error) {
	return marshalLenPrefixed(michelineTagString, []byte(m)), nil
}

// UnmarshalBinary implements the MichelineNode interface
func (m *MichelineString) UnmarshalBinary(data []byte) error {
	node, consumed, err := decodeMichelineNode(data)
	if err != nil {
		return err
	}
	if consumed != len(data) {
		return xerrors.Errorf("trailing bytes after micheline string: consumed %d of %d", consumed, len(data))
	}
	decoded, ok := node.(*MichelineString)
	if !ok {
		return xerrors.New("decoded micheline node is not a String")
	}
	*m = *decoded
	return nil
}

// MichelineBytes represents a byte array in a Micheline expression
type MichelineBytes []byte

func (*MichelineBytes) isMichelineNode() {}

// MarshalBinary implements the MichelineNode interface
func (m MichelineBytes) MarshalBinary() ([]byte, error) {
	return marshalLenPrefixed(michelineTagBytes, m), nil
}

// UnmarshalBinary implements the MichelineNode interface
func (m *MichelineBytes) UnmarshalBinary(data []byte) error {
	node, consumed, err := decodeMichelineNode(data)
	if err != nil {
		return err
	}
	if consumed != len(data) {
		return xerrors.Errorf("trailing bytes after micheline bytes: consumed %d of %d", consumed, len(data))
	}
	decoded, ok := node.(*MichelineBytes)
	if !ok {
		return xerrors.New("decoded micheline node is not Bytes")
	}
	*m = *decoded
	return nil
}

// MichelinePrim represents a Michelson primitive application in a Micheline
// expression: a prim tag byte plus zero or more argument nodes and zero or
// more string annotations.
type MichelinePrim struct {
	Prim   byte
	Args   []MichelineNode
	Annots []string
}

func (*MichelinePrim) isMichelineNode() {}

// MarshalBinary implements the MichelineNode interface. Selects the most
// compact tag available: 0/1/2 args with no annots use Prim0/1/2; 0/1/2 args
// with annots use the *A variants; anything else (3+ args) uses PrimN.
func (m MichelinePrim) MarshalBinary() ([]byte, error) {
	argc := len(m.Args)
	hasAnnots := len(m.Annots) > 0

	if argc > 2 {
		return m.marshalPrimN()
	}

	argBytes, err := marshalMichelineNodes(m.Args)
	if err != nil {
		return nil, err
	}

	var tag byte
	switch {
	case argc == 0 && !hasAnnots:
		tag = michelineTagPrim0
	case argc == 0:
		tag = michelineTagPrim0A
	case argc == 1 && !hasAnnots:
		tag = michelineTagPrim1
	case argc == 1:
		tag = michelineTagPrim1A
	case argc == 2 && !hasAnnots:
		tag = michelineTagPrim2
	default:
		tag = michelineTagPrim2A
	}

	out := append([]byte{tag, m.Prim}, argBytes...)
	if hasAnnots {
		out = append(out, annotsBlob(m.Annots)...)
	}
	return out, nil
}

func (m MichelinePrim) marshalPrimN() ([]byte, error) {
	argBytes, err := marshalMichelineNodes(m.Args)
	if err != nil {
		return nil, err
	}
	out := []byte{michelineTagPrimN, m.Prim}
	argLenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(argLenBuf, uint32(len(argBytes)))
	out = append(out, argLenBuf...)
	out = append(out, argBytes...)
	out = append(out, annotsBlob(m.Annots)...)
	return out, nil
}

// UnmarshalBinary implements the MichelineNode interface. Accepts whichever
// tag is present on the wire (compact or PrimN) regardless of arg count.
func (m *MichelinePrim) UnmarshalBinary(data []byte) error {
	node, consumed, err := decodeMichelineNode(data)
	if err != nil {
		return err
	}
	if consumed != len(data) {
		return xerrors.Errorf("trailing bytes after micheline prim: consumed %d of %d", consumed, len(data))
	}
	decoded, ok := node.(*MichelinePrim)
	if !ok {
		return xerrors.New("decoded micheline node is not a Prim")
	}
	*m = *decoded
	return nil
}

// MichelineSeq represents a sequence of nodes in a Micheline expression
type MichelineSeq []MichelineNode

func (*MichelineSeq) isMichelineNode() {}

// MarshalBinary implements the MichelineNode interface
func (m MichelineSeq) MarshalBinary() ([]byte, error) {
	body, err := marshalMichelineNodes(m)
	if err != nil {
		return nil, err
	}
	return marshalLenPrefixed(michelineTagSeq, body), nil
}

// UnmarshalBinary implements the MichelineNode interface
func (m *MichelineSeq) UnmarshalBinary(data []byte) error {
	node, consumed, err := decodeMichelineNode(data)
	if err != nil {
		return err
	}
	if consumed != len(data) {
		return xerrors.Errorf("trailing bytes after micheline sequence: consumed %d of %d", consumed, len(data))
	}
	decoded, ok := node.(*MichelineSeq)
	if !ok {
		return xerrors.New("decoded micheline node is not a Sequence")
	}
	*m = *decoded
	return nil
}
