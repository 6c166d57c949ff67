// Package logging holds the zerolog conventions shared across foodverse:
// component loggers keyed by "cmp" and context fields added by ContextHook.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component derives a logger from the global one tagged with cmp=name.
func Component(name string) zerolog.Logger {
	return Tag(log.Logger, name)
}

// Tag derives a logger from l tagged with cmp=name.
func Tag(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("cmp", name).Logger()
}
