package codec

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("testdata/config.yaml")
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		DateFormat:  "%Y-%m-%dT%H:%M:%S",
		TimeZone:    "UTC",
		IgnoreNulls: true,
		ByteArrays:  ArrayBytes,
		MapStyle:    EntryMaps,
		MaxDepth:    64,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if _, err := LoadConfig("testdata/bad_config.yaml"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("bad byte mode got %v", err)
	}
	if _, err := LoadConfig("testdata/missing.yaml"); err == nil {
		t.Errorf("missing file accepted")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		err  error
	}{
		{name: "zero value", cfg: Config{}},
		{name: "defaults", cfg: DefaultConfig()},
		{name: "go layout", cfg: Config{DateFormat: "2006-01-02"}},
		{name: "byte mode", cfg: Config{ByteArrays: "hex"}, err: ErrInvalidConfig},
		{name: "map style", cfg: Config{MapStyle: "pairs"}, err: ErrUnsupportedStyle},
		{name: "negative depth", cfg: Config{MaxDepth: -1}, err: ErrInvalidConfig},
		{name: "zone", cfg: Config{TimeZone: "Nowhere/Special"}, err: ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.err == nil {
				if err != nil {
					t.Errorf("unexpected %v", err)
				}
				return
			}
			if !errors.Is(err, tt.err) || !errors.Is(err, ErrConfiguration) {
				t.Errorf("got %v want %v", err, tt.err)
			}
		})
	}
}

func TestConfigure(t *testing.T) {
	r := newResolver(t)
	if err := r.Configure(Config{MapStyle: "pairs"}); err == nil {
		t.Fatal("bad config accepted")
	}
	if got := r.Config().MapStyle; got != SimpleMaps {
		t.Errorf("rejected config applied: %q", got)
	}
	if _, err := NewResolver(WithConfig(Config{ByteArrays: "hex"})); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("resolver with bad config got %v", err)
	}
}
