// Package mail is the outbound notification sink. Delivery failure is always
// recoverable: callers log it and fall back, they never abort.
package mail

// Service sends a plain-text message to a single address.
type Service interface {
	Send(to string, subject string, body string) error
}
