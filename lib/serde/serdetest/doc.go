// Package serdetest provides a reusable conformance test suite for
// serialization context configurations. Any code that constructs contexts
// (different fallback codecs, preloaded handler sets, cloned variants) can
// run RunContextTests against a factory to verify the registry contract:
// fallback availability, registered round trips, idempotent registration,
// clone isolation, strict tag lookup and ancestry dispatch.
//
// The suite intentionally tests behavior that must hold for every valid
// context, independent of which codecs are registered. Configuration
// specific behavior (e.g. which representation a particular codec produces)
// belongs in the tests of the package that owns the configuration.
package serdetest
