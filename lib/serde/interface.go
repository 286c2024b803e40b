package serde

import "reflect"

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// SerializeFunc converts a value into its intermediate representation.
// The returned representation is either a terminal Bytes or a Tuple whose
// non-primitive elements will be serialized recursively by the context.
type SerializeFunc func(v any) (Representation, error)

// DeserializeFunc reconstructs a value from its intermediate representation.
// Tuple representations arrive with every nested node already rehydrated,
// so the function only needs to invert the matching SerializeFunc.
//
// Serialize and deserialize functions form a contract: a deserializer must
// accept exactly the shapes its serializer can produce. The registry does
// not verify this, round-trip correctness is on the codec author.
type DeserializeFunc func(r Representation) (any, error)

// Entry is a single registration: a type identity, its tag and the codec
// function pair. The fallback entry has a nil Type.
type Entry struct {
	Type        reflect.Type
	Tag         TypeTag
	Serialize   SerializeFunc
	Deserialize DeserializeFunc
}

// ISerializationContext is the registry mapping runtime types to codecs.
// Contexts are created via New with a mandatory fallback byte codec, mutated
// only through RegisterType, and copied with Clone.
type ISerializationContext interface {
	// RegisterType binds a type to a tag and a codec function pair.
	// Re-registering a type or tag silently overwrites the previous binding
	// (last registration wins); registering the identical tuple twice is a
	// no-op. The tag must be non-empty and must not be the reserved
	// FallbackTag.
	RegisterType(t reflect.Type, tag TypeTag, ser SerializeFunc, de DeserializeFunc) error

	// Clone produces an independent copy of the context. The clone holds
	// copies of all entries (codec function references are shared) and can
	// be mutated without affecting the original, and vice versa.
	Clone() ISerializationContext

	// Serialize resolves the value's runtime type to a codec, invokes it and
	// recursively serializes any non-primitive tuple elements. The returned
	// node carries the tag of the codec that produced it.
	Serialize(v any) (*Node, error)

	// Deserialize looks up the codec strictly by the node's tag (no ancestry
	// walk), rehydrates nested nodes first and invokes the deserializer.
	// Fails with ErrCUnknownTag if the tag is not registered in this context.
	Deserialize(n *Node) (any, error)

	// Resolve returns the entry that Serialize would dispatch the given
	// value to. Exposed for inspection and tests.
	Resolve(v any) Entry

	// Lookup returns the entry bound to a tag, if any.
	Lookup(tag TypeTag) (Entry, bool)

	// Tags returns all registered tags in registration order, excluding the
	// reserved fallback tag.
	Tags() []TypeTag
}
