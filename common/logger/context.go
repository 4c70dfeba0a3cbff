package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields are structured fields automatically attached to every log record
// written within a context. Connection handlers set workspace/user once and
// every downstream log line carries them.
type LogFields struct {
	WorkspaceID *int64
	DealID      *int64
	UserID      *int64
	MessageType *string
	Component   string
}

// WithLogFields enriches ctx with log fields. Repeated calls merge, newer
// non-nil values winning.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	merged := mergeFields(GetLogFields(ctx), fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from ctx, zero value if unset.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing
	if next.WorkspaceID != nil {
		result.WorkspaceID = next.WorkspaceID
	}
	if next.DealID != nil {
		result.DealID = next.DealID
	}
	if next.UserID != nil {
		result.UserID = next.UserID
	}
	if next.MessageType != nil {
		result.MessageType = next.MessageType
	}
	if next.Component != "" {
		result.Component = next.Component
	}
	return result
}

// Ptr returns a pointer to v, for inline LogFields construction.
func Ptr[T any](v T) *T {
	return &v
}
