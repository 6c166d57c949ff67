package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies command and user_id from the event's context onto the
// log line. Events need .Ctx(ctx) for the hook to see them.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if name := GetCommand(ctx); name != "" {
		e.Str("command", name)
	}
	if id := GetUserID(ctx); id != 0 {
		e.Int64("user_id", id)
	}
}
