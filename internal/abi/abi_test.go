package abi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceMemory is a linear memory backed by a byte slice.
type sliceMemory []byte

func (m sliceMemory) Read(offset, byteCount uint32) ([]byte, bool) {
	end := uint64(offset) + uint64(byteCount)
	if end > uint64(len(m)) {
		return nil, false
	}
	return m[offset:end], true
}

func TestPackPtrLen(t *testing.T) {
	tests := []struct {
		name   string
		ptr    uint32
		length uint32
		want   uint64
	}{
		{
			name:   "typical values",
			ptr:    0x12345678,
			length: 0xABCDEF00,
			want:   (uint64(0x12345678) << PtrHighBits) | uint64(0xABCDEF00),
		},
		{
			name:   "zero pointer zero length",
			ptr:    0,
			length: 0,
			want:   0,
		},
		{
			name:   "max pointer",
			ptr:    0xFFFFFFFF,
			length: 1,
			want:   (uint64(0xFFFFFFFF) << PtrHighBits) | 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			packed := PackPtrLen(tt.ptr, tt.length)
			assert.Equal(t, tt.want, packed, "packed value mismatch")

			gotPtr, gotLen := UnpackPtrLen(packed)
			assert.Equal(t, tt.ptr, gotPtr, "unpacked pointer mismatch")
			assert.Equal(t, tt.length, gotLen, "unpacked length mismatch")
		})
	}
}

func TestReadBytes(t *testing.T) {
	mem := make(sliceMemory, 64)
	copy(mem[16:], "hello")

	data, err := ReadBytes(mem, PackPtrLen(16, 5))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	// The result does not alias guest memory.
	data[0] = 'j'
	assert.Equal(t, byte('h'), mem[16])
}

func TestReadBytes_Errors(t *testing.T) {
	mem := make(sliceMemory, 64)

	_, err := ReadBytes(mem, PackPtrLen(0, 4))
	assert.ErrorContains(t, err, "null pointer")

	_, err = ReadBytes(mem, PackPtrLen(60, 8))
	assert.ErrorContains(t, err, "out of range")

	_, err = ReadBytes(mem, PackPtrLen(1, MaxPayload+1))
	assert.ErrorContains(t, err, "exceeds limit")

	_, err = ReadBytes(nil, PackPtrLen(8, 4))
	assert.ErrorContains(t, err, "no memory")

	data, err := ReadBytes(mem, 0)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestReadString(t *testing.T) {
	mem := make(sliceMemory, 32)
	copy(mem[4:], "device busy")

	s, err := ReadString(mem, PackPtrLen(4, 11))
	require.NoError(t, err)
	assert.Equal(t, "device busy", s)
}

func TestReadJSON(t *testing.T) {
	doc := `[{"name":"sine","routine":"gen_sine"}]`
	mem := make(sliceMemory, 128)
	copy(mem[8:], doc)

	var entries []map[string]string
	require.NoError(t, ReadJSON(mem, PackPtrLen(8, uint32(len(doc))), &entries))
	assert.Equal(t, "gen_sine", entries[0]["routine"])

	assert.ErrorContains(t, ReadJSON(mem, 0, &entries), "empty JSON document")

	copy(mem[100:], "{bad")
	assert.Error(t, ReadJSON(mem, PackPtrLen(100, 4), &entries))
}
