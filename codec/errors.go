package codec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/signadot/typecodec/encode"
	"github.com/signadot/typecodec/ir"
	"github.com/signadot/typecodec/schema"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrDecoding      = errors.New("decoding error")
	ErrEncoding      = errors.New("encoding error")

	// configuration
	ErrUnparameterizedCollection = errors.New("unparameterized collection")
	ErrUnsupportedStyle          = errors.New("unsupported style")
	ErrUnsupportedShape          = errors.New("unsupported shape")
	ErrPolymorphicRegistration   = errors.New("polymorphic registration")
	ErrInvalidConfig             = errors.New("invalid config")

	// decoding
	ErrTypeMismatch         = errors.New("type mismatch")
	ErrUnknownEnumValue     = errors.New("unknown enum value")
	ErrMissingDiscriminator = errors.New("missing discriminator")
	ErrUnknownDiscriminator = errors.New("unknown discriminator")
	ErrMissingProperty      = errors.New("missing property")
	ErrMalformed            = errors.New("malformed value")
	ErrOutOfRange           = errors.New("out of range")
	ErrDepthExceeded        = errors.New("depth exceeded")

	// encoding
	ErrUnregisteredSubtype = errors.New("unregistered subtype")
	ErrUnsupportedValue    = errors.New("unsupported value")
	ErrCycle               = errors.New("cycle")
	ErrDuplicateKey        = errors.New("duplicate key")
)

// ConfigurationError is returned when a codec cannot be built. It never
// occurs while encoding or decoding.
type ConfigurationError struct {
	Type    string // descriptor id
	Kind    error
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	buf := &strings.Builder{}
	buf.WriteString("configuration error")
	if e.Type != "" {
		fmt.Fprintf(buf, " for %s", e.Type)
	}
	writeDetail(buf, e.Kind, e.Message, e.Err)
	return buf.String()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration || (e.Kind != nil && target == e.Kind)
}

// DecodingError reports a JSON value that cannot be decoded.
type DecodingError struct {
	// FieldPath locates the value below the decoded root in segment form
	// (".pets[0].name"). Path renders it for messages.
	FieldPath string
	Kind      error
	Expected  string
	Node      *ir.Node
	Message   string
	Err       error
}

func (e *DecodingError) Path() string {
	return ir.TrimPath(e.FieldPath)
}

func (e *DecodingError) Error() string {
	buf := &strings.Builder{}
	buf.WriteString("decoding error")
	if e.FieldPath != "" {
		fmt.Fprintf(buf, " at %s", e.Path())
	}
	msg := e.Message
	if msg == "" && e.Expected != "" {
		msg = fmt.Sprintf("expected %s, got %s", e.Expected, encode.String(e.Node))
	}
	writeDetail(buf, e.Kind, msg, e.Err)
	return buf.String()
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}

func (e *DecodingError) Is(target error) bool {
	return target == ErrDecoding || (e.Kind != nil && target == e.Kind)
}

// EncodingError reports a value that cannot be encoded.
type EncodingError struct {
	FieldPath string
	Kind      error
	Message   string
	Err       error
}

func (e *EncodingError) Path() string {
	return ir.TrimPath(e.FieldPath)
}

func (e *EncodingError) Error() string {
	buf := &strings.Builder{}
	buf.WriteString("encoding error")
	if e.FieldPath != "" {
		fmt.Fprintf(buf, " at %s", e.Path())
	}
	writeDetail(buf, e.Kind, e.Message, e.Err)
	return buf.String()
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding || (e.Kind != nil && target == e.Kind)
}

func writeDetail(buf *strings.Builder, kind error, msg string, err error) {
	if kind != nil {
		fmt.Fprintf(buf, ": %v", kind)
	}
	if msg != "" {
		fmt.Fprintf(buf, ": %s", msg)
	}
	if err != nil && (msg == "" || !strings.Contains(msg, err.Error())) {
		fmt.Fprintf(buf, ": %v", err)
	}
}

func configErr(t *schema.Type, kind error, format string, args ...any) *ConfigurationError {
	e := &ConfigurationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
	if t != nil {
		e.Type = t.ID()
	}
	return e
}

func mismatch(expected string, n *ir.Node) *DecodingError {
	return &DecodingError{Kind: ErrTypeMismatch, Expected: expected, Node: n}
}

func decodeErr(kind error, n *ir.Node, format string, args ...any) *DecodingError {
	return &DecodingError{Kind: kind, Node: n, Message: fmt.Sprintf(format, args...)}
}

func encodeErr(kind error, format string, args ...any) *EncodingError {
	return &EncodingError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// withPath prefixes the field path of a decoding or encoding error with
// seg. Errors are created per call, so they are updated in place.
func withPath(err error, seg string) error {
	if err == nil {
		return nil
	}
	var de *DecodingError
	if errors.As(err, &de) {
		de.FieldPath = seg + de.FieldPath
		return err
	}
	var ee *EncodingError
	if errors.As(err, &ee) {
		ee.FieldPath = seg + ee.FieldPath
	}
	return err
}
