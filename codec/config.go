package codec

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/ncruces/go-strftime"
	"github.com/signadot/typecodec/parse"
)

// ByteMode selects the wire form of byte sequences.
type ByteMode string

const (
	Base64Bytes ByteMode = "base64"
	ArrayBytes  ByteMode = "array"
)

// MapStyle selects the wire form of maps.
type MapStyle string

const (
	// SimpleMaps encodes maps as JSON objects.
	SimpleMaps MapStyle = "simple"
	// EntryMaps encodes maps as {"entry":[{"key":K,"value":V},...]}.
	EntryMaps MapStyle = "entry"
)

// Config holds the defaults every codec consults while encoding and
// decoding.
type Config struct {
	// DateFormat is a strftime pattern ("%Y-%m-%d") or a Go reference
	// layout. Empty encodes timestamps as epoch milliseconds.
	DateFormat string `yaml:"dateFormat"`
	// TimeZone is an IANA zone name used to format timestamps and to parse
	// those whose text carries no zone. Empty means UTC.
	TimeZone string `yaml:"timeZone"`
	// IgnoreNulls omits null properties and map entries instead of writing
	// explicit nulls.
	IgnoreNulls bool     `yaml:"ignoreNulls"`
	ByteArrays  ByteMode `yaml:"byteArrays"`
	MapStyle    MapStyle `yaml:"mapStyle"`
	// MaxDepth bounds nesting while encoding and decoding.
	MaxDepth int `yaml:"maxDepth"`
}

func DefaultConfig() Config {
	return Config{
		ByteArrays: Base64Bytes,
		MapStyle:   SimpleMaps,
		MaxDepth:   parse.DefaultMaxDepth,
	}
}

// LoadConfig reads a YAML configuration file. Unset fields keep their
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	d, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(d, &cfg); err != nil {
		return cfg, &ConfigurationError{Kind: ErrInvalidConfig, Message: path, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	_, err := c.settings()
	return err
}

// settings is a validated configuration snapshot.
type settings struct {
	Config
	loc *time.Location
	// layout is the Go time layout, empty for epoch milliseconds.
	layout string
}

func (c Config) settings() (*settings, error) {
	s := &settings{Config: c, loc: time.UTC}
	if s.ByteArrays == "" {
		s.ByteArrays = Base64Bytes
	}
	if s.MapStyle == "" {
		s.MapStyle = SimpleMaps
	}
	if s.MaxDepth == 0 {
		s.MaxDepth = parse.DefaultMaxDepth
	}
	bad := func(format string, args ...any) error {
		return &ConfigurationError{Kind: ErrInvalidConfig, Message: fmt.Sprintf(format, args...)}
	}
	switch s.ByteArrays {
	case Base64Bytes, ArrayBytes:
	default:
		return nil, bad("unknown byte array mode %q", s.ByteArrays)
	}
	if err := checkStyle(s.MapStyle); err != nil {
		return nil, err
	}
	if s.MaxDepth < 0 {
		return nil, bad("negative max depth %d", s.MaxDepth)
	}
	if s.TimeZone != "" {
		loc, err := time.LoadLocation(s.TimeZone)
		if err != nil {
			return nil, &ConfigurationError{Kind: ErrInvalidConfig, Message: "time zone", Err: err}
		}
		s.loc = loc
	}
	switch {
	case s.DateFormat == "":
	case strings.Contains(s.DateFormat, "%"):
		layout, err := strftime.Layout(s.DateFormat)
		if err != nil {
			return nil, &ConfigurationError{Kind: ErrInvalidConfig, Message: "date format " + s.DateFormat, Err: err}
		}
		s.layout = layout
	default:
		s.layout = s.DateFormat
	}
	return s, nil
}

func checkStyle(s MapStyle) error {
	switch s {
	case SimpleMaps, EntryMaps:
		return nil
	}
	return &ConfigurationError{Kind: ErrUnsupportedStyle, Message: fmt.Sprintf("map style %q", s)}
}
