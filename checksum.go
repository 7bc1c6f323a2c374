package idlc

import (
	"encoding/binary"
	"hash/fnv"

	"golang.org/x/crypto/sha3"
)

// ProtocolVersion identifies which wire-protocol dialect an interface ID is
// computed for (spec.md §6).
type ProtocolVersion int

const (
	ProtocolV1 ProtocolVersion = 1
	ProtocolV2 ProtocolVersion = 2
)

// InterfaceID returns the version-specific interface identifier spec.md §4.5
// requires get_id to emit: the structural fingerprint under v2, and a
// legacy hash of the fully qualified name under v1.
//
// The original implementation's v1 path uses std::hash<std::string> of the
// qualified name, which spec.md §9 notes is not portable across
// implementations and says a reimplementation MAY substitute a portable
// stable hash if it documents the change. This implementation does: v1 IDs
// are FNV-1a 64-bit over the UTF-8 qualified name, not std::hash. Per
// spec.md this means v1 wire interop is implementation-specific in either
// case, so the substitution changes nothing observable within a single
// implementation's own zones.
func InterfaceID(e *Entity, version ProtocolVersion, fp *Fingerprinter) uint64 {
	if version == ProtocolV1 {
		h := fnv.New64a()
		h.Write([]byte(e.QualifiedName()))
		return h.Sum64()
	}
	return fp.Fingerprint(e)
}

// FileChecksum is the whole-IDL-file checksum supplementing the original's
// component_checksum, distinct from the per-interface fingerprint of
// component D. A driver may use it as a cheap "did this file's bytes
// change at all" pre-check before even building the semantic model; the
// "rewrite only if changed" decision for generated *output* files stays
// external per spec.md §1.
func FileChecksum(source []byte) uint64 {
	sum := sha3.Sum256(source)
	return binary.LittleEndian.Uint64(sum[:8])
}
