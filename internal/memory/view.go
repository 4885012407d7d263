package memory

import "encoding/binary"

// Uint32View addresses a block as a little-endian uint32 array.
type Uint32View struct {
	buf []byte
}

// Uint32s returns a uint32 view over b. Trailing bytes that do not form a
// whole element are ignored.
func (a *Arena) Uint32s(b Block) Uint32View {
	return Uint32View{buf: a.Bytes(b)}
}

// Len returns the number of elements in the view.
func (v Uint32View) Len() int {
	return len(v.buf) / 4
}

// Get returns element i. Panics if i is out of range.
func (v Uint32View) Get(i int) uint32 {
	return binary.LittleEndian.Uint32(v.buf[i*4:])
}

// Set stores x at element i. Panics if i is out of range.
func (v Uint32View) Set(i int, x uint32) {
	binary.LittleEndian.PutUint32(v.buf[i*4:], x)
}

// Fill stores x in every element.
func (v Uint32View) Fill(x uint32) {
	for i := 0; i < v.Len(); i++ {
		v.Set(i, x)
	}
}
