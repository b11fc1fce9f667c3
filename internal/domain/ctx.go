package domain

import "context"

type ctxKey uint8

const ctxKeyEmployee ctxKey = iota

// WithEmployee returns a context carrying the authenticated employee. The
// backend client reads it to scope outbound calls; handlers read it instead
// of re-opening the session.
func WithEmployee(ctx context.Context, e *Employee) context.Context {
	return context.WithValue(ctx, ctxKeyEmployee, e)
}

// EmployeeFrom returns the authenticated employee, or nil for anonymous
// requests.
func EmployeeFrom(ctx context.Context) *Employee {
	e, _ := ctx.Value(ctxKeyEmployee).(*Employee)
	return e
}
