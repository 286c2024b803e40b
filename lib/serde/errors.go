package serde

import (
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Direction indicates which half of a codec was involved in a failure.
type Direction string

const (
	DirectionSerialize   Direction = "serialize"
	DirectionDeserialize Direction = "deserialize"
)

// Error is a custom error type that wraps a return code (of type ErrCode)
// together with enough context to localize a faulty registration: the tag,
// the Go type name of the offending value and the codec direction.
type Error struct {
	Code      ErrCode   // The return code
	Tag       TypeTag   // The tag of the codec involved, if known
	TypeName  string    // The Go type name of the value involved, if known
	Direction Direction // Which codec half was running
	Msg       string    // The error message
	Err       error     // The underlying error, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := ""
	switch e.Code {
	case ErrCUnknownTag:
		errorCode = "UnknownTag"
	case ErrCCodecFailure:
		errorCode = "CodecFailure"
	case ErrCInvalidRepresentation:
		errorCode = "InvalidRepresentation"
	case ErrCInvalidRegistration:
		errorCode = "InvalidRegistration"
	default:
		errorCode = "Unknown"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("SerializationError (code %s", errorCode))
	if e.Tag != "" {
		sb.WriteString(fmt.Sprintf(", tag %q", e.Tag))
	}
	if e.TypeName != "" {
		sb.WriteString(fmt.Sprintf(", type %s", e.TypeName))
	}
	if e.Direction != "" {
		sb.WriteString(fmt.Sprintf(", %s", e.Direction))
	}
	sb.WriteString("): ")
	sb.WriteString(e.Msg)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type ErrCode uint64

const (
	ErrCSuccess               ErrCode = iota // 0: Operation executed successfully.
	ErrCUnknownTag                           // 1: Deserialize encountered a tag absent from the context.
	ErrCCodecFailure                         // 2: A registered serializer/deserializer failed.
	ErrCInvalidRepresentation                // 3: A codec produced or received a malformed representation.
	ErrCInvalidRegistration                  // 4: RegisterType was called with invalid arguments.
)
