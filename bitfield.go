// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"fmt"
	"math/bits"
)

// BitField is a fixed-length bit vector indexed by committee position.
// Unlike a growable bit set, its length is part of its identity: a claims
// bitfield is only valid if its length equals the committee size it
// refers to.
type BitField struct {
	bits   []byte
	length uint32
}

// NewBitField returns a bitfield of the given length with exactly the
// given indices set. An out-of-range index is an error.
func NewBitField(indices []uint32, length uint32) (BitField, error) {
	b := EmptyBitField(length)
	for _, i := range indices {
		if err := b.Set(i); err != nil {
			return BitField{}, err
		}
	}
	return b, nil
}

// EmptyBitField returns an all-zero bitfield of the given length.
func EmptyBitField(length uint32) BitField {
	return BitField{
		bits:   make([]byte, (length+7)/8),
		length: length,
	}
}

// Len returns the number of bits the field spans, set or not.
func (b BitField) Len() uint32 {
	return b.length
}

// IsSet returns true if bit i is set. Out-of-range indices read as unset.
func (b BitField) IsSet(i uint32) bool {
	if i >= b.length {
		return false
	}
	return b.bits[i/8]&(1<<(i%8)) != 0
}

// Set sets bit i.
func (b BitField) Set(i uint32) error {
	if i >= b.length {
		return fmt.Errorf("%w: %d >= %d", ErrIndexOutOfBounds, i, b.length)
	}
	b.bits[i/8] |= 1 << (i % 8)
	return nil
}

// Clear clears bit i.
func (b BitField) Clear(i uint32) error {
	if i >= b.length {
		return fmt.Errorf("%w: %d >= %d", ErrIndexOutOfBounds, i, b.length)
	}
	b.bits[i/8] &^= 1 << (i % 8)
	return nil
}

// Count returns the number of set bits.
func (b BitField) Count() int {
	count := 0
	for _, x := range b.bits {
		count += bits.OnesCount8(x)
	}
	return count
}

// Copy returns an independent copy of the bitfield.
func (b BitField) Copy() BitField {
	c := BitField{
		bits:   make([]byte, len(b.bits)),
		length: b.length,
	}
	copy(c.bits, b.bits)
	return c
}

// Bytes returns the little-endian byte image of the bitfield.
func (b BitField) Bytes() []byte {
	out := make([]byte, len(b.bits))
	copy(out, b.bits)
	return out
}

// Equal returns true if both bitfields have the same length and bits.
func (b BitField) Equal(other BitField) bool {
	if b.length != other.length {
		return false
	}
	for i := range b.bits {
		if b.bits[i] != other.bits[i] {
			return false
		}
	}
	return true
}

// String returns the list of set indices.
func (b BitField) String() string {
	indices := make([]uint32, 0, b.Count())
	for i := uint32(0); i < b.length; i++ {
		if b.IsSet(i) {
			indices = append(indices, i)
		}
	}
	return fmt.Sprintf("%v", indices)
}
