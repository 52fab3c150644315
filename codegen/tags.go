package codegen

import (
	"fmt"
	"go/ast"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/signadot/typecodec/parse"
	"github.com/signadot/typecodec/schema"
)

// TagKey is the struct tag key read for field options.
const TagKey = "codec"

// FieldTag holds the options of a codec struct tag.
type FieldTag struct {
	// Name is the declared property name; empty derives it from the field.
	Name     string
	Skip     bool
	Required bool
	Include  schema.Include
	// Default is JSON text used when the property is missing or null.
	Default string
}

// ParseFieldTag parses the content of a codec tag, such as
// "name,omitempty,default=[1,2]". Everything after default= belongs to the
// default.
func ParseFieldTag(tag string) (FieldTag, error) {
	var ft FieldTag
	if tag == "-" {
		ft.Skip = true
		return ft, nil
	}
	rest := tag
	if i := strings.Index(rest, "default="); i >= 0 {
		if i > 0 && rest[i-1] != ',' {
			return ft, fmt.Errorf("malformed tag %q", tag)
		}
		ft.Default = rest[i+len("default="):]
		rest = strings.TrimSuffix(rest[:i], ",")
		if _, err := parse.Parse([]byte(ft.Default)); err != nil {
			return ft, fmt.Errorf("default %q: %w", ft.Default, err)
		}
	}
	parts := strings.Split(rest, ",")
	ft.Name = strings.TrimSpace(parts[0])
	for _, p := range parts[1:] {
		switch strings.TrimSpace(p) {
		case "":
		case "omitempty":
			ft.Include = schema.IncludeNonNull
		case "always":
			ft.Include = schema.IncludeAlways
		case "required":
			ft.Required = true
		default:
			return ft, fmt.Errorf("unknown option %q in tag %q", p, tag)
		}
	}
	if ft.Required && ft.Default != "" {
		return ft, fmt.Errorf("tag %q: required property with a default", tag)
	}
	return ft, nil
}

// fieldTag extracts the codec tag of a field.
func fieldTag(field *ast.Field) (string, error) {
	if field.Tag == nil {
		return "", nil
	}
	raw, err := strconv.Unquote(field.Tag.Value)
	if err != nil {
		return "", fmt.Errorf("malformed struct tag %s: %w", field.Tag.Value, err)
	}
	return reflect.StructTag(raw).Get(TagKey), nil
}

// parseDirectiveArgs parses key=value pairs separated by spaces or commas.
func parseDirectiveArgs(s string) (map[string]string, error) {
	res := map[string]string{}
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || unicode.IsSpace(r) }) {
		k, v, ok := strings.Cut(f, "=")
		if !ok || k == "" || v == "" {
			return nil, fmt.Errorf("malformed directive argument %q", f)
		}
		switch k {
		case "name", "tag":
		default:
			return nil, fmt.Errorf("unknown directive argument %q", k)
		}
		res[k] = v
	}
	return res, nil
}

func lowerFirst(s string) string {
	rs := []rune(s)
	upper := 0
	for upper < len(rs) && unicode.IsUpper(rs[upper]) {
		upper++
	}
	// URLPath -> urlPath, HTTP2 -> http2
	if upper > 1 && upper < len(rs) && unicode.IsLower(rs[upper]) {
		upper--
	}
	for i := 0; i < upper; i++ {
		rs[i] = unicode.ToLower(rs[i])
	}
	return string(rs)
}
