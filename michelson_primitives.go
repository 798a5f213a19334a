package tezosprotocol

import "golang.org/x/xerrors"

// michelinePrimTags is the static bidirectional registry mapping Michelson
// prim names to the single-byte tag that represents them on the wire.
// Unlike the reference node's table (which this package's retrieval pack did
// not carry a copy of) this registry only needs internal consistency: forge
// and unforge must agree with each other, and with the literal Unit-value
// tag (0x6c) already pinned by this package's existing tests.
var michelinePrimTags = map[string]byte{
	"parameter": 0,
	"storage":   1,
	"code":      2,

	"False": 3,
	"Elt":   4,
	"Left":  5,
	"None":  6,
	"Pair":  7,
	"Right": 8,
	"Some":  9,
	"True":  10,

	"PACK":             12,
	"UNPACK":           13,
	"BLAKE2B":          14,
	"SHA256":           15,
	"SHA512":           16,
	"ABS":              17,
	"ADD":              18,
	"AMOUNT":           19,
	"AND":              20,
	"BALANCE":          21,
	"CAR":              22,
	"CDR":              23,
	"CHECK_SIGNATURE":  24,
	"COMPARE":          25,
	"CONCAT":           26,
	"CONS":             27,
	"CREATE_CONTRACT":  29,
	"IMPLICIT_ACCOUNT": 30,
	"DIP":              31,
	"DROP":             32,
	"DUP":              33,
	"EDIV":             34,
	"EMPTY_MAP":        35,
	"EMPTY_SET":        36,
	"EQ":               37,
	"EXEC":             38,
	"FAILWITH":         39,
	"GE":               40,
	"GET":              41,
	"GT":               42,
	"HASH_KEY":         43,
	"IF":               44,
	"IF_CONS":          45,
	"IF_LEFT":          46,
	"IF_NONE":          47,
	"INT":              48,
	"LAMBDA":           49,
	"LE":               50,
	"LEFT":             51,
	"LOOP":             52,
	"LSL":              53,
	"LSR":              54,
	"LT":               55,
	"MAP":              56,
	"MEM":              57,
	"MUL":              58,
	"NEG":              59,
	"NEQ":              60,
	"NIL":              61,
	"NONE":             62,
	"NOT":              63,
	"NOW":              64,
	"OR":               65,
	"PAIR":             66,
	"PUSH":             67,
	"RIGHT":            68,
	"SIZE":             69,
	"SOME":             70,
	"SOURCE":           71,
	"SENDER":           72,
	"SELF":             73,
	"SLICE":            74,
	"STEPS_TO_QUOTA":   75,
	"SUB":              76,
	"SWAP":             77,
	"TRANSFER_TOKENS":  78,
	"SET_DELEGATE":     79,
	"UNIT":             80,

	"bool":      81,
	"contract":  82,
	"int":       83,
	"key":       84,
	"key_hash":  85,
	"lambda":    86,
	"list":      87,
	"map":       88,
	"big_map":   89,
	"nat":       90,
	"option":    91,
	"or":        92,
	"pair":      93,
	"set":       94,
	"signature": 95,
	"string":    96,
	"bytes":     97,
	"mutez":     98,
	"timestamp": 99,
	"operation": 100,
	"address":   101,
	"chain_id":  102,

	"DIG":            103,
	"DUG":            104,
	"EMPTY_BIG_MAP":  105,
	"APPLY":          106,
	"CHAIN_ID":       107,

	// Unit, the sole inhabitant of the unit type, doubling as the
	// parameter value on parameterless entrypoints (e.g. "default").
	"Unit": 0x6c,
}

var michelinePrimNames = invertPrimTags(michelinePrimTags)

func invertPrimTags(byName map[string]byte) map[byte]string {
	byTag := make(map[byte]string, len(byName))
	for name, tag := range byName {
		byTag[tag] = name
	}
	return byTag
}

// Convenience values for the handful of prims this package's operation and
// contract-script forging reach for directly. Map-derived, so these must be
// vars rather than consts.
var (
	PrimT_unit  = michelinePrimTags["Unit"]  //nolint:golint,stylecheck
	PrimD_Pair  = michelinePrimTags["Pair"]  //nolint:golint,stylecheck
	PrimD_Left  = michelinePrimTags["Left"]  //nolint:golint,stylecheck
	PrimD_Right = michelinePrimTags["Right"] //nolint:golint,stylecheck
	PrimD_Some  = michelinePrimTags["Some"]  //nolint:golint,stylecheck
	PrimD_None  = michelinePrimTags["None"]  //nolint:golint,stylecheck
	PrimD_True  = michelinePrimTags["True"]  //nolint:golint,stylecheck
	PrimD_False = michelinePrimTags["False"] //nolint:golint,stylecheck
)

// UnknownPrimError indicates a prim tag byte or prim name absent from the
// registry.
type UnknownPrimError struct {
	Tag    byte
	Name   string
	byName bool
}

// Error implements the error interface
func (e *UnknownPrimError) Error() string {
	if e.byName {
		return "unknown micheline prim name: " + e.Name
	}
	return xerrors.Errorf("unknown micheline prim tag: %#x", e.Tag).Error()
}

// PrimTag looks up the wire tag byte for a Michelson prim name.
func PrimTag(name string) (byte, error) {
	tag, ok := michelinePrimTags[name]
	if !ok {
		return 0, &UnknownPrimError{Name: name, byName: true}
	}
	return tag, nil
}

// PrimName looks up the Michelson prim name for a wire tag byte.
func PrimName(tag byte) (string, error) {
	name, ok := michelinePrimNames[tag]
	if !ok {
		return "", &UnknownPrimError{Tag: tag}
	}
	return name, nil
}

// NewMichelinePrimByName builds a MichelinePrim from a Michelson prim name
// rather than a raw tag byte, returning UnknownPrimError if the name is not
// in the registry.
func NewMichelinePrimByName(name string, args []MichelineNode, annots []string) (*MichelinePrim, error) {
	tag, err := PrimTag(name)
	if err != nil {
		return nil, err
	}
	return &MichelinePrim{Prim: tag, Args: args, Annots: annots}, nil
}
