package bench

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mbeckers/serdex/cmd/util"
	"github.com/mbeckers/serdex/lib/buffer"
	"github.com/mbeckers/serdex/lib/serde"
	"github.com/mbeckers/serdex/lib/table"
	"github.com/mbeckers/serdex/lib/tensor"
	"github.com/mbeckers/serdex/lib/wire"
)

var (
	// BenchCmd represents the benchmark command
	BenchCmd = &cobra.Command{
		Use:     "bench",
		Short:   "Benchmarking tool for the serialization pipeline",
		RunE:    run,
		PreRunE: processBenchConfig,
	}

	benchCtx        serde.ISerializationContext
	benchSkip       = make([]string, 0)
	benchVectorSize = 1024
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// add flags
	key := "skip"
	BenchCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. serialize,envelope)"))
	key = "vector-size"
	BenchCmd.Flags().Int(key, 1024, util.WrapString("Number of elements in the benchmark arrays"))
	key = "csv"
	BenchCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processBenchConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	benchVectorSize = viper.GetInt("vector-size")
	benchSkip = strings.Split(viper.GetString("skip"), ",")

	var err error
	benchCtx, err = util.GetContext()
	return err
}

func run(_ *cobra.Command, _ []string) error {

	fmt.Println("Benchmarking tool for the serdex serialization pipeline")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Printf("Fallback:    %s\n", viper.GetString("fallback"))
	fmt.Printf("Context:     %s\n", viper.GetString("context"))
	fmt.Printf("Vector size: %d\n", benchVectorSize)
	fmt.Println()

	fmt.Println("starting benchmarks...")

	// Prepare benchmark values
	value, err := benchValue()
	if err != nil {
		return err
	}
	node, err := benchCtx.Serialize(value)
	if err != nil {
		return err
	}
	envelope, err := wire.EncodeNode(node)
	if err != nil {
		return err
	}

	// Create results map
	results := make(map[string]testing.BenchmarkResult)

	serializeResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("serialize") {
			return
		}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := benchCtx.Serialize(value); err != nil {
				b.Fatalf("serialize failed: %v", err)
			}
		}
	})

	results["serialize"] = serializeResult
	printResult("serialize", serializeResult)

	deserializeResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("deserialize") {
			return
		}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := benchCtx.Deserialize(node); err != nil {
				b.Fatalf("deserialize failed: %v", err)
			}
		}
	})

	results["deserialize"] = deserializeResult
	printResult("deserialize", deserializeResult)

	envelopeResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("envelope") {
			return
		}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := wire.EncodeNode(node); err != nil {
				b.Fatalf("envelope encode failed: %v", err)
			}
		}
	})

	results["envelope"] = envelopeResult
	printResult("envelope", envelopeResult)

	unenvelopeResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("unenvelope") {
			return
		}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := wire.DecodeNode(envelope); err != nil {
				b.Fatalf("envelope decode failed: %v", err)
			}
		}
	})

	results["unenvelope"] = unenvelopeResult
	printResult("unenvelope", unenvelopeResult)

	pipelineResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("pipeline") {
			return
		}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			n, err := benchCtx.Serialize(value)
			if err != nil {
				b.Fatalf("serialize failed: %v", err)
			}
			data, err := wire.EncodeNode(n)
			if err != nil {
				b.Fatalf("envelope encode failed: %v", err)
			}
			decoded, err := wire.DecodeNode(data)
			if err != nil {
				b.Fatalf("envelope decode failed: %v", err)
			}
			if _, err := benchCtx.Deserialize(decoded); err != nil {
				b.Fatalf("deserialize failed: %v", err)
			}
		}
	})

	results["pipeline"] = pipelineResult
	printResult("pipeline", pipelineResult)

	// Envelope size distribution across vector sizes
	sizeHist := buffer.NewSizeHistogram()
	for _, n := range []int{16, benchVectorSize / 4, benchVectorSize} {
		if n <= 0 {
			continue
		}
		v, err := benchValueSized(n)
		if err != nil {
			return err
		}
		nd, err := benchCtx.Serialize(v)
		if err != nil {
			return err
		}
		env, err := wire.EncodeNode(nd)
		if err != nil {
			return err
		}
		sizeHist.AddSample(len(env))
	}
	fmt.Println()
	fmt.Printf("envelope sizes: avg=%dB median~%dB p90~%dB (%d samples)\n",
		sizeHist.AverageSize(), sizeHist.MedianEstimate(),
		sizeHist.GetPercentileEstimate(90), sizeHist.GetCount())

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range benchSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// benchValue builds a representative table with one float and one int column
func benchValue() (*table.Table, error) {
	return benchValueSized(benchVectorSize)
}

func benchValueSized(size int) (*table.Table, error) {
	floats := make([]float64, size)
	ints := make([]int64, size)
	for i := 0; i < size; i++ {
		floats[i] = float64(i) * 0.5
		ints[i] = int64(i)
	}

	fcol, err := tensor.FromFloat64s(floats)
	if err != nil {
		return nil, err
	}
	icol, err := tensor.FromInt64s(ints)
	if err != nil {
		return nil, err
	}
	return table.FromColumns([]string{"measure", "index"}, []*tensor.Dense{fcol, icol})
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"Fallback", "Context", "VectorSize",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, result := range results {
		var nsPerOp float64
		var opsPerSec float64
		var skipped string

		if result.NsPerOp() == 0 {
			skipped = "true"
			nsPerOp = 0
			opsPerSec = 0
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			viper.GetString("fallback"),
			viper.GetString("context"),
			strconv.Itoa(benchVectorSize),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
