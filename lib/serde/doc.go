// Package serde implements an extensible, type-directed serialization
// registry. A SerializationContext maps runtime type identities to codecs
// (paired serializer/deserializer functions) and dispatches arbitrary values
// to the most specific registered codec, falling back to a generic byte
// codec when no specific match exists.
//
// The package focuses on:
//   - Open-ended extensibility: new types are registered at runtime without
//     modifying the dispatcher
//   - Polymorphic resolution: a concrete value maps to the most specific
//     applicable entry, with a documented, deterministic ancestry walk
//   - Composability: a codec's representation may be a tuple of sub-values,
//     each of which is serialized recursively by the same context
//   - Fallback safety: every context carries a catch-all byte codec, so any
//     value can always be serialized
//   - Context isolation: Clone produces independently mutable copies, the
//     mechanism behind specialized context variants
//
// Key Components:
//
//   - ISerializationContext: The registry interface. Created with New (a
//     fallback byte codec is mandatory), mutated via RegisterType, copied
//     via Clone. Serialize resolves a value's type and produces a tagged
//     Node; Deserialize inverts the process by strict tag lookup.
//
//   - Representation: A closed sum type, either Bytes (a terminal opaque
//     buffer) or Tuple (an ordered sequence of primitives and sub-values
//     that the context serializes recursively).
//
//   - Node: A fully serialized value, the tag of the codec that produced it
//     plus its representation with all nested values reduced to nodes.
//
//   - Entry: One registration (type identity, tag, codec pair). The
//     fallback entry is a distinguished Entry with no associated type.
//
// Registration Policy:
//
//	Last registration wins. Re-registering a type or reusing a tag silently
//	replaces the previous binding (a debug log line records the overwrite),
//	and registering an identical tuple twice is a no-op. Tags are unique
//	within a context: rebinding a tag to a new type evicts the old type's
//	entry.
//
// Type Resolution:
//
//	Dispatch tries, in order: exact type, pointed-to type for pointers, the
//	unnamed structural type for named slices/arrays/maps, registered
//	interface types in registration order, and finally the fallback. The
//	registration-order tie-break for interfaces is deliberate and tested.
//
// Thread Safety:
//
//	Registration and lookup are guarded by a read/write mutex and a
//	concurrent resolution cache, so lookups may run concurrently with each
//	other and with registration. The intended pattern is still to register
//	codecs during initialization and treat the context as read-only
//	afterwards. Serialize and Deserialize never mutate the registry.
//
// Usage:
//
//	ctx := serde.New(fallback.NewMsgpackCodec())
//	err := ctx.RegisterType(reflect.TypeOf(MyType{}), "MyType", ser, de)
//	node, err := ctx.Serialize(value)
//	back, err := ctx.Deserialize(node)
package serde
