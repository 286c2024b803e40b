package fallback

import (
	"testing"
)

// benchmarkValues returns a set of values for targeted benchmarking
func benchmarkValues() map[string]any {
	large := make([]any, 1024)
	for i := range large {
		large[i] = int64(i)
	}

	nested := map[string]any{
		"id":     "record-12345",
		"score":  98.5,
		"tags":   []any{"alpha", "beta", "gamma"},
		"active": true,
		"nested": map[string]any{
			"a": int64(1),
			"b": []any{1.0, 2.0, 3.0},
		},
	}

	return map[string]any{
		"SmallString": "v",
		"MediumString": "medium length value for testing generic" +
			" byte level serialization",
		"SmallSlice": []any{int64(1), int64(2), int64(3)},
		"LargeSlice": large,
		"NestedMap":  nested,
	}
}

// BenchmarkEncode benchmarks encoding for all implementations with various value shapes
func BenchmarkEncode(b *testing.B) {
	values := benchmarkValues()

	for name, factory := range testCodecs {
		for valName, val := range values {
			b.Run(name+"_"+valName, func(b *testing.B) {
				codec := factory()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					_, err := codec.Encode(val)
					if err != nil {
						b.Fatalf("Failed to encode: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkDecode benchmarks decoding for all implementations with various value shapes
func BenchmarkDecode(b *testing.B) {
	values := benchmarkValues()

	for name, factory := range testCodecs {
		for valName, val := range values {
			b.Run(name+"_"+valName, func(b *testing.B) {
				codec := factory()
				data, err := codec.Encode(val)
				if err != nil {
					b.Fatalf("Failed to encode: %v", err)
				}
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					if _, err := codec.Decode(data); err != nil {
						b.Fatalf("Failed to decode: %v", err)
					}
				}
			})
		}
	}
}
