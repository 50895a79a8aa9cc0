// Package obslog builds the zap loggers shared by saferoute's offline
// pipeline and online search engine.
//
// All saferoute packages accept a *zap.Logger (never a global logger) so
// that offline builds and per-request search paths can be traced
// independently; see graphbuild.NewBuilder, safety.NewScorer, pathsearch.Options, and
// request.Config for injection points.
package obslog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production-style zap.Logger scoped to component, with
// ISO8601 timestamps and a stable "service" field. level controls the
// minimum enabled level and may be mutated at runtime via its SetLevel
// method.
func New(component string, level zap.AtomicLevel) *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg),
		zapcore.Lock(zapcore.AddSync(os.Stdout)),
		level,
	)

	return zap.New(core).With(
		zap.String("service", "saferoute"),
		zap.String("component", component),
	)
}

// Nop returns a logger that discards all output, for tests and for
// callers that have not opted into observability.
func Nop() *zap.Logger {
	return zap.NewNop()
}

// InfoLevel and WarnLevel are convenience constructors for the common
// cases; New(component, InfoLevel()) is the default used by the CLIs in
// cmd/saferoute-build and cmd/saferoute-serve.
func InfoLevel() zap.AtomicLevel { return zap.NewAtomicLevelAt(zap.InfoLevel) }
func WarnLevel() zap.AtomicLevel { return zap.NewAtomicLevelAt(zap.WarnLevel) }
