package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "mealtrack context key " + string(c)
}

// UserIDKey is the key for the authenticated user id in context.Context
const UserIDKey = contextKey("userID")

// UsernameKey is the key for the authenticated username in context.Context
const UsernameKey = contextKey("username")

// RequestIDKey is the key for the per-call request id in context.Context
const RequestIDKey = contextKey("requestID")

// ComponentKey is the key for the emitting component in context.Context
const ComponentKey = contextKey("component")

// OperationKey is the key for the current operation in context.Context
const OperationKey = contextKey("operation")
