package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"github.com/signadot/typecodec/codec"
	"github.com/signadot/typecodec/encode"
	"github.com/signadot/typecodec/schema"
	"go.uber.org/zap"
)

type MainConfig struct {
	Color   bool   `cli:"name=color desc='encode with color'"`
	WireOut bool   `cli:"name=wire desc='output in compact format'"`
	Config  string `cli:"name=config desc='codec configuration file (yaml)'"`
	Gops    bool   `cli:"name=gops desc='start a gops agent for diagnostics'"`
	Verbose bool   `cli:"name=v desc='log codec construction to stderr'"`

	Main *cli.Command
}

// colors reports whether output to w is colored: -color forces it,
// otherwise terminals get color.
func (cfg *MainConfig) colors(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name == "color" && opt.Value != nil {
			return false
		}
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{encode.EncodeWire(cfg.WireOut)}
	if cfg.colors(w) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

func (cfg *MainConfig) logger() *zap.Logger {
	if !cfg.Verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l.Named("tcodec")
}

// session is a resolver over the descriptors of one file.
type session struct {
	res   *codec.Resolver
	types []*schema.Type
}

func (cfg *MainConfig) session(schemaFile string) (*session, error) {
	if schemaFile == "" {
		return nil, fmt.Errorf("%w: a descriptor file is required (-s)", cli.ErrUsage)
	}
	ccfg := codec.DefaultConfig()
	if cfg.Config != "" {
		c, err := codec.LoadConfig(cfg.Config)
		if err != nil {
			return nil, fmt.Errorf("error loading config %s: %w", cfg.Config, err)
		}
		ccfg = c
	}
	reg := schema.NewRegistry()
	types, err := schema.LoadFile(schemaFile, reg)
	if err != nil {
		return nil, fmt.Errorf("error loading descriptors: %w", err)
	}
	res, err := codec.NewResolver(
		codec.WithConfig(ccfg),
		codec.WithRegistry(reg),
		codec.WithLogger(cfg.logger()))
	if err != nil {
		return nil, err
	}
	return &session{res: res, types: types}, nil
}

// codecFor resolves typeExpr, a descriptor name or type expression such as
// "list<zoo.Animal>", against the descriptors in schemaFile.
func (cfg *MainConfig) codecFor(schemaFile, typeExpr string) (*codec.Codec, error) {
	s, err := cfg.session(schemaFile)
	if err != nil {
		return nil, err
	}
	if typeExpr == "" {
		return nil, fmt.Errorf("%w: a type is required (-t)", cli.ErrUsage)
	}
	t, err := schema.ParseTypeExpr(typeExpr, s.res.Registry())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return s.res.CodecFor(t)
}

type NormalizeConfig struct {
	*MainConfig
	Schema string `cli:"name=s aliases=schema desc='descriptor file (yaml)'"`
	Type   string `cli:"name=t aliases=type desc='descriptor name or type expression'"`

	Normalize *cli.Command
}

type CheckConfig struct {
	*MainConfig
	Schema string `cli:"name=s aliases=schema desc='descriptor file (yaml)'"`

	Check *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Schema string `cli:"name=s aliases=schema desc='descriptor file (yaml)'"`
	Type   string `cli:"name=t aliases=type desc='descriptor name or type expression'"`

	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig
	Schema    string `cli:"name=s aliases=schema desc='descriptor file (yaml)'"`
	Type      string `cli:"name=t aliases=type desc='descriptor name or type expression'"`
	PatchFile string `cli:"name=p aliases=patch desc='patch file'"`
	Merge     bool   `cli:"name=merge desc='treat the patch as an RFC 7386 merge patch'"`

	Patch *cli.Command
}

type TypesConfig struct {
	*MainConfig
	Schema string `cli:"name=s aliases=schema desc='descriptor file (yaml)'"`

	Types *cli.Command
}
