package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsontree/internal/analyzer"
	"github.com/mcncl/jsontree/internal/parser"
	"github.com/mcncl/jsontree/internal/tokenizer"
)

// generateNestedJSON creates a deeply nested JSON structure for benchmarking
func generateNestedJSON(depth int, width int) map[string]interface{} {
	if depth <= 0 {
		return map[string]interface{}{
			"leaf_value": "data",
			"timestamp":  time.Now().Format(time.RFC3339),
			"count":      rand.Intn(100),
			"enabled":    rand.Intn(2) == 1,
		}
	}

	result := make(map[string]interface{})
	for i := 0; i < width; i++ {
		key := fmt.Sprintf("nested_%d_%d", depth, i)
		result[key] = generateNestedJSON(depth-1, width)
	}
	return result
}

// generateArrayJSON creates an array of flat records
func generateArrayJSON(size int) []map[string]interface{} {
	rng := rand.New(rand.NewSource(42))
	array := make([]map[string]interface{}, size)
	for i := 0; i < size; i++ {
		array[i] = map[string]interface{}{
			"id":       i,
			"guid":     fmt.Sprintf("%08x-%04x-%04x-%04x-%012x", rng.Uint32(), rng.Uint32()&0xffff, rng.Uint32()&0xffff, rng.Uint32()&0xffff, rng.Int63()&0xffffffffffff),
			"name":     fmt.Sprintf("Item %d", i),
			"value":    rng.Float64() * 100,
			"active":   i%2 == 0,
			"category": fmt.Sprintf("Category %d", i%5),
			"tags":     []string{"tag1", "tag2", "tag3"}[0 : rng.Intn(3)+1],
		}
	}
	return array
}

func marshal(b *testing.B, v interface{}) []byte {
	b.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	require.NoError(b, err)
	return data
}

// BenchmarkDeepNesting benchmarks parsing deeply nested objects
func BenchmarkDeepNesting(b *testing.B) {
	depths := []struct {
		name  string
		depth int
		width int
	}{
		{"Depth3Width3", 3, 3},
		{"Depth5Width2", 5, 2},
		{"Depth2Width10", 2, 10},
	}

	for _, depth := range depths {
		b.Run(depth.name, func(b *testing.B) {
			data := marshal(b, generateNestedJSON(depth.depth, depth.width))
			b.SetBytes(int64(len(data)))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_, err := parser.Parse(bytes.NewReader(data))
				require.NoError(b, err)
			}
		})
	}
}

// BenchmarkNestingLimit benchmarks arrays nested right up to the default limit
func BenchmarkNestingLimit(b *testing.B) {
	doc := strings.Repeat("[", parser.DefaultMaxDepth) + strings.Repeat("]", parser.DefaultMaxDepth)
	b.SetBytes(int64(len(doc)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := parser.ParseString(doc)
		require.NoError(b, err)
	}
}

// BenchmarkArrayProcessing benchmarks parsing and analyzing arrays of records
func BenchmarkArrayProcessing(b *testing.B) {
	sizes := []struct {
		name      string
		arraySize int
	}{
		{"Array100", 100},
		{"Array1000", 1000},
		{"Array5000", 5000},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			data := marshal(b, generateArrayJSON(size.arraySize))
			a := analyzer.NewAnalyzer()
			b.SetBytes(int64(len(data)))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				ir, err := parser.Parse(bytes.NewReader(data))
				require.NoError(b, err)
				a.Analyze(ir)
			}
		})
	}
}

// BenchmarkTokenize benchmarks the tokenizer on its own
func BenchmarkTokenize(b *testing.B) {
	data := marshal(b, generateArrayJSON(1000))
	b.SetBytes(int64(len(data)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := tokenizer.New(bytes.NewReader(data)).Tokenize()
		require.NoError(b, err)
	}
}

// BenchmarkLargeFile benchmarks parsing from disk
func BenchmarkLargeFile(b *testing.B) {
	if testing.Short() {
		b.Skip("skipping benchmark in short mode")
	}

	jsonFile := filepath.Join(b.TempDir(), "large.json")
	data := marshal(b, generateArrayJSON(10000))
	require.NoError(b, os.WriteFile(jsonFile, data, 0644))
	b.SetBytes(int64(len(data)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := parser.ParseFile(jsonFile)
		require.NoError(b, err)
	}
}
