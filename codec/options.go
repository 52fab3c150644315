package codec

import (
	"github.com/signadot/typecodec/schema"
	"go.uber.org/zap"
)

type options struct {
	cfg Config
	reg *schema.Registry
	log *zap.Logger
}

type Option func(*options)

// WithConfig sets the initial configuration. It is validated by
// NewResolver.
func WithConfig(cfg Config) Option { return func(o *options) { o.cfg = cfg } }

// WithRegistry sets the registry in which polymorphic subtypes are
// discovered.
func WithRegistry(reg *schema.Registry) Option { return func(o *options) { o.reg = reg } }

func WithLogger(l *zap.Logger) Option { return func(o *options) { o.log = l } }

type codecOpts struct {
	style MapStyle
}

// CodecOption adjusts a single CodecFor request.
type CodecOption func(*codecOpts)

// WithMapStyle fixes the map style of every map reached from the
// requested type, overriding Config.MapStyle.
func WithMapStyle(s MapStyle) CodecOption { return func(o *codecOpts) { o.style = s } }
