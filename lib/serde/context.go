package serde

import (
	"reflect"
	"sync"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/mbeckers/serdex/lib/buffer"
	"github.com/mbeckers/serdex/lib/fallback"
)

var log = logger.GetLogger("serde")

// defaultMaxDepth bounds recursion through nested tuple representations.
// Cyclic object graphs are unsupported and surface as a depth error.
const defaultMaxDepth = 64

// --------------------------------------------------------------------------
// Context Implementation
// --------------------------------------------------------------------------

// contextImpl implements ISerializationContext.
//
// Thread-safety: the entry maps are guarded by a read/write mutex, so
// registration may run concurrently with lookups (writers exclusive, readers
// concurrent). The hot type-resolution path is additionally cached in a
// concurrent map that is invalidated on every registration. The intended
// usage is still to register during an initialization phase and treat the
// context as read-only afterwards.
type contextImpl struct {
	mutex    sync.RWMutex
	entries  map[reflect.Type]*Entry
	byTag    map[TypeTag]*Entry
	order    []reflect.Type // registration order, drives the interface walk
	fb       *Entry
	cache    *xsync.MapOf[reflect.Type, *Entry]
	metrics  bool
	maxDepth int
}

// Option configures a context at construction time.
type Option func(*contextImpl)

// WithMetrics enables per-tag operation counters
// (serdex_serialize_total, serdex_deserialize_total, serdex_codec_errors_total).
func WithMetrics() Option {
	return func(c *contextImpl) {
		c.metrics = true
	}
}

// WithMaxDepth overrides the maximum nesting depth of tuple representations.
func WithMaxDepth(depth int) Option {
	return func(c *contextImpl) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// New creates an empty serialization context. The fallback byte codec is
// mandatory: every context must be able to serialize arbitrary values, so a
// context without a catch-all is invalid by construction and this function
// panics rather than return one.
func New(codec fallback.IByteCodec, opts ...Option) ISerializationContext {
	if codec == nil {
		panic("serde: a context requires a fallback byte codec")
	}

	fb := &Entry{
		Tag: FallbackTag,
		Serialize: func(v any) (Representation, error) {
			data, err := codec.Encode(v)
			if err != nil {
				return nil, err
			}
			return Bytes{Buffer: buffer.New(data)}, nil
		},
		Deserialize: func(r Representation) (any, error) {
			b, ok := r.(Bytes)
			if !ok {
				return nil, NewError(ErrCInvalidRepresentation,
					"fallback codec expects a byte representation")
			}
			return codec.Decode(b.Buffer.Bytes())
		},
	}

	c := &contextImpl{
		entries:  make(map[reflect.Type]*Entry),
		byTag:    map[TypeTag]*Entry{FallbackTag: fb},
		fb:       fb,
		cache:    xsync.NewMapOf[reflect.Type, *Entry](),
		maxDepth: defaultMaxDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serde/interface.go)
// --------------------------------------------------------------------------

func (c *contextImpl) RegisterType(t reflect.Type, tag TypeTag, ser SerializeFunc, de DeserializeFunc) error {
	if t == nil {
		return NewError(ErrCInvalidRegistration, "type must not be nil")
	}
	if tag == "" {
		return NewError(ErrCInvalidRegistration, "tag must not be empty")
	}
	if tag == FallbackTag {
		return NewError(ErrCInvalidRegistration, "tag is reserved for the fallback entry")
	}
	if ser == nil || de == nil {
		return NewError(ErrCInvalidRegistration, "serializer and deserializer must not be nil")
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	// last registration wins: a tag moving to a different type evicts the
	// previous type's entry so a tag always identifies exactly one type
	if prev, ok := c.byTag[tag]; ok && prev.Type != t {
		log.Debugf("tag %q rebound from %v to %v", tag, prev.Type, t)
		delete(c.entries, prev.Type)
	}
	if prev, ok := c.entries[t]; ok && prev.Tag != tag {
		log.Debugf("type %v rebound from tag %q to %q", t, prev.Tag, tag)
		delete(c.byTag, prev.Tag)
	}

	entry := &Entry{Type: t, Tag: tag, Serialize: ser, Deserialize: de}
	if _, known := c.entries[t]; !known {
		c.order = append(c.order, t)
	}
	c.entries[t] = entry
	c.byTag[tag] = entry

	// registration changes dispatch results, so cached resolutions are stale
	c.cache.Clear()
	return nil
}

func (c *contextImpl) Clone() ISerializationContext {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	clone := &contextImpl{
		entries:  make(map[reflect.Type]*Entry, len(c.entries)),
		byTag:    make(map[TypeTag]*Entry, len(c.byTag)),
		order:    append([]reflect.Type(nil), c.order...),
		cache:    xsync.NewMapOf[reflect.Type, *Entry](),
		metrics:  c.metrics,
		maxDepth: c.maxDepth,
	}

	// entries are copied, codec function references are shared until overridden
	for t, e := range c.entries {
		cp := *e
		clone.entries[t] = &cp
		clone.byTag[cp.Tag] = &cp
	}
	fbCopy := *c.fb
	clone.fb = &fbCopy
	clone.byTag[FallbackTag] = &fbCopy

	return clone
}

func (c *contextImpl) Serialize(v any) (*Node, error) {
	return c.serializeValue(v, 0)
}

func (c *contextImpl) Deserialize(n *Node) (any, error) {
	return c.deserializeNode(n, 0)
}

// deserializeNode performs one tag lookup and rehydrates nested nodes.
// Node trees from untrusted envelopes can nest arbitrarily deep, so
// rehydration carries the same depth bound as serialization.
func (c *contextImpl) deserializeNode(n *Node, depth int) (any, error) {
	if n == nil {
		return nil, NewError(ErrCInvalidRepresentation, "cannot deserialize nil node")
	}
	if depth > c.maxDepth {
		return nil, &Error{
			Code:      ErrCCodecFailure,
			Tag:       n.Tag,
			Direction: DirectionDeserialize,
			Msg:       "max nesting depth exceeded (cyclic values are unsupported)",
		}
	}

	entry, ok := c.lookupEntry(n.Tag)
	if !ok {
		c.countError(n.Tag, DirectionDeserialize)
		return nil, &Error{
			Code:      ErrCUnknownTag,
			Tag:       n.Tag,
			Direction: DirectionDeserialize,
			Msg:       "no codec registered for tag in this context",
		}
	}

	var repr Representation
	switch r := n.Repr.(type) {
	case Bytes:
		if r.Buffer == nil {
			return nil, &Error{
				Code:      ErrCInvalidRepresentation,
				Tag:       n.Tag,
				Direction: DirectionDeserialize,
				Msg:       "byte representation holds no buffer",
			}
		}
		repr = r
	case Tuple:
		// rehydrate nested nodes before handing the tuple to the codec
		elems := make([]any, len(r.Elements))
		for i, el := range r.Elements {
			if child, isNode := el.(*Node); isNode {
				v, err := c.deserializeNode(child, depth+1)
				if err != nil {
					return nil, err
				}
				elems[i] = v
				continue
			}
			elems[i] = el
		}
		repr = Tuple{Elements: elems}
	default:
		return nil, &Error{
			Code:      ErrCInvalidRepresentation,
			Tag:       n.Tag,
			Direction: DirectionDeserialize,
			Msg:       "node holds neither bytes nor a tuple",
		}
	}

	v, err := entry.Deserialize(repr)
	if err != nil {
		c.countError(n.Tag, DirectionDeserialize)
		return nil, &Error{
			Code:      ErrCCodecFailure,
			Tag:       n.Tag,
			Direction: DirectionDeserialize,
			Msg:       "deserializer failed",
			Err:       err,
		}
	}

	c.countOp(n.Tag, DirectionDeserialize)
	return v, nil
}

func (c *contextImpl) Resolve(v any) Entry {
	return *c.resolve(v)
}

func (c *contextImpl) Lookup(tag TypeTag) (Entry, bool) {
	e, ok := c.lookupEntry(tag)
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

func (c *contextImpl) Tags() []TypeTag {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	tags := make([]TypeTag, 0, len(c.order))
	for _, t := range c.order {
		if e, ok := c.entries[t]; ok {
			tags = append(tags, e.Tag)
		}
	}
	return tags
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// serializeValue performs one dispatch step and recurses into tuple elements
func (c *contextImpl) serializeValue(v any, depth int) (*Node, error) {
	if depth > c.maxDepth {
		return nil, &Error{
			Code:      ErrCCodecFailure,
			TypeName:  typeName(v),
			Direction: DirectionSerialize,
			Msg:       "max nesting depth exceeded (cyclic values are unsupported)",
		}
	}

	entry := c.resolve(v)

	repr, err := entry.Serialize(v)
	if err != nil {
		c.countError(entry.Tag, DirectionSerialize)
		return nil, &Error{
			Code:      ErrCCodecFailure,
			Tag:       entry.Tag,
			TypeName:  typeName(v),
			Direction: DirectionSerialize,
			Msg:       "serializer failed",
			Err:       err,
		}
	}

	var node *Node
	switch r := repr.(type) {
	case Bytes:
		if r.Buffer == nil {
			return nil, &Error{
				Code:      ErrCInvalidRepresentation,
				Tag:       entry.Tag,
				TypeName:  typeName(v),
				Direction: DirectionSerialize,
				Msg:       "serializer produced a byte representation without a buffer",
			}
		}
		node = &Node{Tag: entry.Tag, Repr: r}
	case Tuple:
		elems := make([]any, len(r.Elements))
		for i, el := range r.Elements {
			if IsPrimitive(el) {
				elems[i] = el
				continue
			}
			child, err := c.serializeValue(el, depth+1)
			if err != nil {
				return nil, err
			}
			elems[i] = child
		}
		node = &Node{Tag: entry.Tag, Repr: Tuple{Elements: elems}}
	default:
		return nil, &Error{
			Code:      ErrCInvalidRepresentation,
			Tag:       entry.Tag,
			TypeName:  typeName(v),
			Direction: DirectionSerialize,
			Msg:       "serializer produced neither bytes nor a tuple",
		}
	}

	c.countOp(entry.Tag, DirectionSerialize)
	return node, nil
}

// lookupEntry returns the entry for a tag (including the fallback tag)
func (c *contextImpl) lookupEntry(tag TypeTag) (*Entry, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	e, ok := c.byTag[tag]
	return e, ok
}

// typeName returns a printable name for a value's dynamic type
func typeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "nil"
	}
	return t.String()
}
