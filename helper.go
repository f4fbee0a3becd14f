package journal

import "github.com/rs/zerolog"

// kindLevel maps a message Kind to the zerolog level used for mirroring.
// State snapshots mirror at debug since they are diagnostic detail; panics
// mirror at error (the durable record carries the full context).
func kindLevel(k Kind) zerolog.Level {
	if k.IsPanic() {
		return zerolog.ErrorLevel
	}
	if _, ok := k.State(); ok {
		return zerolog.DebugLevel
	}
	switch k {
	case Warning:
		return zerolog.WarnLevel
	case Error:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
