package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step of a Path: a field name or an array index.
type Segment struct {
	Field   string
	Index   int
	IsIndex bool
}

func (s Segment) String() string {
	if s.IsIndex {
		return IndexSegment(s.Index)
	}
	return FieldSegment(s.Field)
}

// Path is a parsed location within a JSON value, such as $.pets[0].name.
type Path []Segment

func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, s := range p {
		b.WriteString(s.String())
	}
	return b.String()
}

// FieldSegment renders a field name as a path segment, quoting it when it
// contains path syntax.
func FieldSegment(f string) string {
	if f != "" && !strings.ContainsAny(f, "'.*$[]") {
		return "." + f
	}
	return ".'" + strings.ReplaceAll(f, "'", `\'`) + "'"
}

func IndexSegment(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

// TrimPath renders a relative path without its leading '.', the form used
// in error messages ("pets[0].name").
func TrimPath(p string) string {
	return strings.TrimPrefix(p, ".")
}

// ParsePath parses a path starting at the root '$'.
func ParsePath(p string) (Path, error) {
	rest, ok := strings.CutPrefix(p, "$")
	if !ok {
		return nil, fmt.Errorf("%w: path %q should start with '$'", ErrPath, p)
	}
	var res Path
	for rest != "" {
		var (
			seg Segment
			err error
		)
		switch rest[0] {
		case '.':
			seg.Field, rest, err = scanField(rest[1:])
		case '[':
			seg.IsIndex = true
			seg.Index, rest, err = scanIndex(rest[1:])
		default:
			err = fmt.Errorf("expected '.' or '[' at %q", rest)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrPath, p, err)
		}
		res = append(res, seg)
	}
	return res, nil
}

func scanIndex(s string) (int, string, error) {
	digits, rest, ok := strings.Cut(s, "]")
	if !ok {
		return 0, "", fmt.Errorf("unterminated index")
	}
	i, err := strconv.ParseUint(digits, 10, 31)
	if err != nil {
		return 0, "", fmt.Errorf("bad index %q", digits)
	}
	return int(i), rest, nil
}

func scanField(s string) (string, string, error) {
	if s == "" {
		return "", "", fmt.Errorf("expected field at end of path")
	}
	if s[0] != '\'' {
		if i := strings.IndexAny(s, ".["); i >= 0 {
			return s[:i], s[i:], nil
		}
		return s, "", nil
	}
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\' && i+1 < len(s):
			i++
			b.WriteByte(s[i])
		case c == '\'':
			return b.String(), s[i+1:], nil
		default:
			b.WriteByte(c)
		}
	}
	return "", "", fmt.Errorf("unterminated quoted field")
}

// GetPath returns the node at path p ("$.a[1]") below y.
func (y *Node) GetPath(p string) (*Node, error) {
	path, err := ParsePath(p)
	if err != nil {
		return nil, err
	}
	res := y
	for _, s := range path {
		if s.IsIndex {
			if res.Type != ArrayType {
				return nil, fmt.Errorf("%w: index %d into %s", ErrPath, s.Index, res.Type)
			}
			if s.Index >= len(res.Values) {
				return nil, fmt.Errorf("%w: index %d out of range", ErrPath, s.Index)
			}
			res = res.Values[s.Index]
			continue
		}
		if res.Type != ObjectType {
			return nil, fmt.Errorf("%w: field %q of %s", ErrPath, s.Field, res.Type)
		}
		next := Get(res, s.Field)
		if next == nil {
			return nil, fmt.Errorf("%w: no field %q", ErrPath, s.Field)
		}
		res = next
	}
	return res, nil
}
