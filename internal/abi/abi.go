// Package abi decodes values exchanged with WebAssembly modules through
// their linear memory.
package abi

import (
	"encoding/json"
	"fmt"
)

// PtrHighBits is the shift of the pointer half of a packed value.
const PtrHighBits = 32

// MaxPayload bounds the size of a single value read from guest memory.
const MaxPayload = 16 * 1024 * 1024 // 16 MB

// Memory is the read side of a module's linear memory.
// wazero's api.Memory satisfies it.
type Memory interface {
	Read(offset, byteCount uint32) ([]byte, bool)
}

// PackPtrLen packs a pointer and length into a single uint64.
// Pointer is stored in the high 32 bits, length in the low 32 bits.
func PackPtrLen(ptr, length uint32) uint64 {
	return (uint64(ptr) << PtrHighBits) | uint64(length)
}

// UnpackPtrLen unpacks a uint64 into its original pointer and length.
func UnpackPtrLen(packed uint64) (ptr, length uint32) {
	ptr = uint32(packed >> PtrHighBits) //nolint:gosec // G115: Packed format stores 32-bit values
	length = uint32(packed)             //nolint:gosec // G115: Packed format stores 32-bit values
	return ptr, length
}

// ReadBytes copies the region described by packed out of mem.
// A zero length yields an empty slice. A null pointer with a non-zero
// length is invalid.
func ReadBytes(mem Memory, packed uint64) ([]byte, error) {
	ptr, length := UnpackPtrLen(packed)
	if length == 0 {
		return []byte{}, nil
	}
	if ptr == 0 {
		return nil, fmt.Errorf("abi: null pointer with length %d", length)
	}
	if mem == nil {
		return nil, fmt.Errorf("abi: module exports no memory")
	}
	if length > MaxPayload {
		return nil, fmt.Errorf("abi: payload of %d bytes exceeds limit of %d", length, MaxPayload)
	}

	data, ok := mem.Read(ptr, length)
	if !ok {
		return nil, fmt.Errorf("abi: region [%#x, +%d) is out of range", ptr, length)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// ReadString reads a UTF-8 string described by packed.
func ReadString(mem Memory, packed uint64) (string, error) {
	data, err := ReadBytes(mem, packed)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadJSON decodes the JSON document described by packed into v.
func ReadJSON(mem Memory, packed uint64, v any) error {
	data, err := ReadBytes(mem, packed)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("abi: empty JSON document")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("abi: %w", err)
	}
	return nil
}
