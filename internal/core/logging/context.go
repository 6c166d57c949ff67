package logging

import "context"

type contextKey string

const (
	commandKey contextKey = "command"
	userIDKey  contextKey = "user_id"
)

// WithCommand records the CLI command being run.
func WithCommand(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, commandKey, name)
}

// WithUserID records the logged in user the work is done for.
func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// GetCommand returns the command name, or "" if not set.
func GetCommand(ctx context.Context) string {
	if name, ok := ctx.Value(commandKey).(string); ok {
		return name
	}
	return ""
}

// GetUserID returns the user id, or 0 if not set.
func GetUserID(ctx context.Context) int64 {
	if id, ok := ctx.Value(userIDKey).(int64); ok {
		return id
	}
	return 0
}
