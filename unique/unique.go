// Package unique implements a 128-bit dual-mode identifier: a pure-entropy
// token, or an entropy+slot-index composite addressable in O(1).
//
// Identifiers are plain values. They are safe to copy, compare and use as map
// keys, and none of the operations on them can fail.
package unique

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"math/rand/v2"
)

// Bit layout of the 128-bit signed value, expressed over the raw
// two's-complement representation:
//
//	sign bit        indexed when set (value is negative)
//	bits 32..126    entropy
//	bits 0..31      slot index (always zero for unindexed values)
const (
	entropyMaskHi = 0x7FFF_FFFF_FFFF_FFFF
	entropyMaskLo = 0xFFFF_FFFF_0000_0000
	indexMaskLo   = 0x0000_0000_FFFF_FFFF
)

// ID is a 128-bit signed identifier. A non-negative ID is unindexed and holds
// only entropy; a negative ID additionally carries an unsigned 32-bit slot
// index in its low bits.
//
// The effective entropy width is ~92 bits, giving a collision probability of
// roughly one in 2×10^14 generated values. That is safe for single-process
// use but substantially weaker than a GUID; IDs must not be treated as
// cryptographically unique across machines.
type ID struct {
	hi uint64
	lo uint64
}

// Generate returns a fresh unindexed ID. The low 32 bits are always zero,
// reserved for a later Reindex.
func Generate() ID {
	return ID{
		hi: rand.Uint64() & entropyMaskHi,
		lo: rand.Uint64() & entropyMaskLo,
	}
}

// GenerateWithIndex returns a fresh indexed ID carrying index in its low
// 32 bits.
func GenerateWithIndex(index uint32) ID {
	id := Generate().neg()
	id.lo |= uint64(index)
	return id
}

// Indexed reports whether the ID carries a slot index.
func (id ID) Indexed() bool {
	return id.hi>>63 == 1
}

// Index returns the embedded slot index. The second return value is false for
// unindexed IDs.
func (id ID) Index() (uint32, bool) {
	if !id.Indexed() {
		return 0, false
	}
	return uint32(id.lo & indexMaskLo), true
}

// Reindex returns a copy of the ID carrying the given index, preserving the
// generated entropy. The second return value is false when the ID already
// carries exactly that index, in which case the ID is returned unchanged.
func (id ID) Reindex(index uint32) (ID, bool) {
	if id.Indexed() {
		if cur := uint32(id.lo & indexMaskLo); cur == index {
			return id, false
		}
		return ID{hi: id.hi, lo: id.lo&^indexMaskLo | uint64(index)}, true
	}
	out := id.neg()
	out.lo |= uint64(index)
	return out, true
}

// Compare orders IDs as 128-bit signed integers: -1, 0 or +1.
func (id ID) Compare(other ID) int {
	if id.hi != other.hi {
		if int64(id.hi) < int64(other.hi) {
			return -1
		}
		return 1
	}
	if id.lo != other.lo {
		if id.lo < other.lo {
			return -1
		}
		return 1
	}
	return 0
}

// neg returns the two's-complement negation of the 128-bit value. Negating a
// freshly generated value keeps the low 32 bits zero, since the carry from
// +1 ripples through them.
func (id ID) neg() ID {
	lo := ^id.lo + 1
	hi := ^id.hi
	if lo == 0 {
		hi++
	}
	return ID{hi: hi, lo: lo}
}

// entropy returns the entropy bits of the raw representation as an unsigned
// 128-bit value.
func (id ID) entropy() *big.Int {
	v := new(big.Int).SetUint64(id.hi & entropyMaskHi)
	v.Lsh(v, 64)
	return v.Or(v, new(big.Int).SetUint64(id.lo&entropyMaskLo))
}

// two128 is 2^128, used to convert between the unsigned raw representation
// and the signed value.
var two128 = new(big.Int).Lsh(big.NewInt(1), 128)

// signed returns the ID as a signed 128-bit big.Int.
func (id ID) signed() *big.Int {
	v := new(big.Int).SetUint64(id.hi)
	v.Lsh(v, 64)
	v.Or(v, new(big.Int).SetUint64(id.lo))
	if id.Indexed() {
		v.Sub(v, two128)
	}
	return v
}

func (id ID) String() string {
	if idx, ok := id.Index(); ok {
		return fmt.Sprintf("UniqueId(%s:%d)", id.entropy(), idx)
	}
	return fmt.Sprintf("UniqueId(%s)", id.entropy())
}

// MarshalJSON encodes the ID as a decimal JSON number. The value may exceed
// the float64-safe integer range; readers must parse it with full precision.
func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(id.signed().String()), nil
}

// UnmarshalJSON decodes a decimal JSON number (quoted or bare) into the ID.
func (id *ID) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return fmt.Errorf("unique: invalid identifier literal %q", s)
	}
	if v.Sign() < 0 {
		v.Add(v, two128)
	}
	if v.Sign() < 0 || v.Cmp(two128) >= 0 {
		return fmt.Errorf("unique: identifier out of 128-bit range: %s", data)
	}
	var raw [16]byte
	v.FillBytes(raw[:])
	id.hi = binary.BigEndian.Uint64(raw[0:8])
	id.lo = binary.BigEndian.Uint64(raw[8:16])
	return nil
}
