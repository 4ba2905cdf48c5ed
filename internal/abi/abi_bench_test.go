package abi

import (
	"testing"
)

// BenchmarkPackPtrLen measures pointer packing performance.
func BenchmarkPackPtrLen(b *testing.B) {
	ptr := uint32(0x12345678)
	length := uint32(256)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		packed := PackPtrLen(ptr, length)
		_ = packed
	}
}

// BenchmarkReadJSON measures decoding a table description from guest memory.
func BenchmarkReadJSON(b *testing.B) {
	doc := `[{"name":"add","inputs":"dd","outputs":"d","perform":"op_add"},{"name":"neg","inputs":"d","outputs":"d","perform":"op_neg"}]`
	mem := make(sliceMemory, 512)
	copy(mem[64:], doc)
	packed := PackPtrLen(64, uint32(len(doc)))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v []map[string]any
		if err := ReadJSON(mem, packed, &v); err != nil {
			b.Fatal(err)
		}
	}
}
