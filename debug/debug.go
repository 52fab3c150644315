package debug

import (
	"os"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

type debug struct {
	Resolve bool
	Decode  bool
	Encode  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Resolve = boolEnv("TYPECODEC_DEBUG_RESOLVE")
	d.Decode = boolEnv("TYPECODEC_DEBUG_DECODE")
	d.Encode = boolEnv("TYPECODEC_DEBUG_ENCODE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

// Resolve reports whether codec construction is logged.
func Resolve() bool {
	return d.Resolve
}
func Decode() bool {
	return d.Decode
}
func Encode() bool {
	return d.Encode
}

func anyOn() bool {
	return Resolve() || Decode() || Encode()
}

var (
	loggerOnce sync.Once
	logger     *zap.Logger
)

// Logger returns a development logger on stderr when any debug switch is
// on, and a no-op logger otherwise.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		logger = zap.NewNop()
		if !anyOn() {
			return
		}
		l, err := zap.NewDevelopment()
		if err != nil {
			return
		}
		logger = l.Named("typecodec")
	})
	return logger
}
