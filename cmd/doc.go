// Package cmd implements the command-line interface of serdex. It provides a
// hierarchical command structure for encoding values into binary envelopes,
// decoding them back and benchmarking the serialization pipeline.
//
// The package is organized into several subpackages:
//
//   - node: Commands for working with serialized nodes (encode, decode, inspect)
//   - bench: Benchmarking tool for the serialization pipeline
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See serdex -help for a list of all commands.
package cmd
