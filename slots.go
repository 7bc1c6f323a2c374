package idlc

// Slot names one of the fixed emission points at which the classifier is
// consulted for every parameter (spec.md §2, §4.5, GLOSSARY).
type Slot int

const (
	SlotDeclareLocals Slot = iota
	SlotMarshalIn
	SlotUnmarshalIn
	SlotCall
	SlotMarshalOut
	SlotUnmarshalOut
	SlotCleanupIn
)

func (s Slot) String() string {
	switch s {
	case SlotDeclareLocals:
		return "DeclareLocals"
	case SlotMarshalIn:
		return "MarshalIn"
	case SlotUnmarshalIn:
		return "UnmarshalIn"
	case SlotCall:
		return "Call"
	case SlotMarshalOut:
		return "MarshalOut"
	case SlotUnmarshalOut:
		return "UnmarshalOut"
	case SlotCleanupIn:
		return "CleanupIn"
	default:
		return "Unknown"
	}
}

// Encoding is one of the four wire encodings available under protocol v2
// (spec.md §4.5, §6). Protocol v1 is binary-only.
type Encoding int

const (
	EncodingYASBinary Encoding = iota
	EncodingYASCompressedBinary
	EncodingYASText
	EncodingYASJSON
)

// encodings lists every v2 encoding in emission order, matching the
// proxy's and stub's `switch` over yas_binary, yas_compressed_binary,
// yas_text, yas_json (spec.md §4.5).
var encodings = []Encoding{
	EncodingYASBinary,
	EncodingYASCompressedBinary,
	EncodingYASText,
	EncodingYASJSON,
}

func (e Encoding) String() string {
	switch e {
	case EncodingYASBinary:
		return "yas_binary"
	case EncodingYASCompressedBinary:
		return "yas_compressed_binary"
	case EncodingYASText:
		return "yas_text"
	case EncodingYASJSON:
		return "yas_json"
	default:
		return "unknown"
	}
}
