// Package memory provides the bump allocator that backs the game world.
// An Arena hands out aligned sub-ranges of a caller-supplied byte block and
// never frees them individually; callers address their memory through Block
// handles instead of raw pointers.
package memory

import (
	"errors"
	"fmt"
	"math"
	"unsafe"
)

// DefaultAlignment is used by PushSize when no alignment option is given.
const DefaultAlignment = 4

var (
	// ErrOutOfMemory is returned when a push does not fit in the arena.
	ErrOutOfMemory = errors.New("memory: arena exhausted")
	// ErrBadAlignment is returned for alignments that are not a power of two.
	ErrBadAlignment = errors.New("memory: alignment must be a power of two")
	// ErrBadSize is returned for negative sizes and counts.
	ErrBadSize = errors.New("memory: size must not be negative")
)

// Kilobytes converts n kilobytes to bytes.
func Kilobytes(n int) int { return n * 1024 }

// Megabytes converts n megabytes to bytes.
func Megabytes(n int) int { return Kilobytes(n) * 1024 }

// Gigabytes converts n gigabytes to bytes.
func Gigabytes(n int) int { return Megabytes(n) * 1024 }

// Block is a handle to a reserved range of an arena.
type Block struct {
	Offset int // Start of the range, relative to the arena base
	Size   int // Requested size in bytes (padding excluded)
}

// End returns the offset one past the last byte of the block.
func (b Block) End() int {
	return b.Offset + b.Size
}

// Arena is a monotonic allocator over a fixed byte buffer.
// Used never decreases and never exceeds Size.
type Arena struct {
	base []byte
	used int
}

// NewArena creates an arena over base. The arena does not copy or zero it.
func NewArena(base []byte) *Arena {
	return &Arena{base: base}
}

// Size returns the total capacity in bytes.
func (a *Arena) Size() int {
	return len(a.base)
}

// Used returns the high-water mark in bytes.
func (a *Arena) Used() int {
	return a.used
}

// Remaining returns the number of bytes not yet reserved.
func (a *Arena) Remaining() int {
	return len(a.base) - a.used
}

// PushOption configures a single push.
type PushOption func(*pushOptions)

type pushOptions struct {
	alignment int
}

// WithAlignment overrides the default 4-byte alignment.
func WithAlignment(n int) PushOption {
	return func(o *pushOptions) {
		o.alignment = n
	}
}

// alignmentOffset returns the padding needed so base+used lands on alignment.
// The address of the first byte is used so that alignment holds for the real
// memory, not just the relative offset.
func (a *Arena) alignmentOffset(alignment int) int {
	mask := alignment - 1
	ptr := a.address() + uintptr(a.used)
	if rem := int(ptr & uintptr(mask)); rem > 0 {
		return alignment - rem
	}
	return 0
}

func (a *Arena) address() uintptr {
	if len(a.base) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(a.base)))
}

// PushSize reserves size bytes and returns a handle to them.
// The reserved bytes are not zeroed. On failure Used is unchanged.
func (a *Arena) PushSize(size int, opts ...PushOption) (Block, error) {
	o := pushOptions{alignment: DefaultAlignment}
	for _, opt := range opts {
		opt(&o)
	}

	if size < 0 {
		return Block{}, fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	if o.alignment <= 0 || o.alignment&(o.alignment-1) != 0 {
		return Block{}, fmt.Errorf("%w: %d", ErrBadAlignment, o.alignment)
	}

	padding := a.alignmentOffset(o.alignment)
	if padding > a.Remaining() || size > a.Remaining()-padding {
		return Block{}, fmt.Errorf("%w: need %d bytes (+%d padding), %d remaining",
			ErrOutOfMemory, size, padding, a.Remaining())
	}

	b := Block{Offset: a.used + padding, Size: size}
	a.used += padding + size
	return b, nil
}

// Bytes returns the slice backing b.
func (a *Arena) Bytes(b Block) []byte {
	return a.base[b.Offset:b.End():b.End()]
}

// Address returns the absolute address of the first byte of b.
// Only meaningful for alignment checks; never dereference it.
func (a *Arena) Address(b Block) uintptr {
	return a.address() + uintptr(b.Offset)
}

// SubArena reserves size bytes and returns a child arena over them.
func (a *Arena) SubArena(size int, opts ...PushOption) (*Arena, error) {
	b, err := a.PushSize(size, opts...)
	if err != nil {
		return nil, err
	}
	return NewArena(a.Bytes(b)), nil
}

// PushStruct reserves room for one T, sized and aligned for T.
func PushStruct[T any](a *Arena) (Block, error) {
	var zero T
	return a.PushSize(int(unsafe.Sizeof(zero)), WithAlignment(int(unsafe.Alignof(zero))))
}

// PushArray reserves room for count contiguous T values, aligned for T.
func PushArray[T any](a *Arena, count int) (Block, error) {
	if count < 0 {
		return Block{}, fmt.Errorf("%w: count %d", ErrBadSize, count)
	}
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if elemSize > 0 && count > math.MaxInt/elemSize {
		return Block{}, fmt.Errorf("%w: %d elements of %d bytes", ErrOutOfMemory, count, elemSize)
	}
	return a.PushSize(elemSize*count, WithAlignment(int(unsafe.Alignof(zero))))
}
