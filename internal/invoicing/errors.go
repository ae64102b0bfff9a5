package invoicing

import "fmt"

// AuthError means the provider rejected an authorization code or refresh token.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string { return fmt.Sprintf("invoicing auth: %s: %v", e.Op, e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

// InvoiceError wraps any failure while creating an invoice or its dependencies.
type InvoiceError struct {
	Op  string
	Err error
}

func (e *InvoiceError) Error() string { return fmt.Sprintf("invoicing: %s: %v", e.Op, e.Err) }
func (e *InvoiceError) Unwrap() error { return e.Err }

type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string { return fmt.Sprintf("invoicing query: %s: %v", e.Op, e.Err) }
func (e *QueryError) Unwrap() error { return e.Err }

type ConfigurationError struct {
	Field string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invoicing is not configured: missing %s", e.Field)
}

// APIError is a non-2xx response from the accounting API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}
