package emailw

import (
	"crypto/tls"

	"github.com/AndreeJait/email-storm/account"
	"gopkg.in/gomail.v2"
)

type Config struct {
	// InsecureSkipVerify disables certificate checks on STARTTLS and SSL.
	InsecureSkipVerify bool `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

// SendError carries the failure kind (one of the campaign sentinel errors)
// next to the underlying protocol error.
type SendError struct {
	Kind error
	Err  error
}

func (e *SendError) Error() string {
	return e.Kind.Error() + ": " + e.Err.Error()
}

func (e *SendError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

type dialFunc func(acc account.Account) (gomail.SendCloser, error)

type Option func(*Sender)

// WithDialer replaces the SMTP dialer. Used by tests.
func WithDialer(dial func(acc account.Account) (gomail.SendCloser, error)) Option {
	return func(s *Sender) {
		s.dial = dial
	}
}

func tlsConfig(cfg Config, host string) *tls.Config {
	return &tls.Config{
		ServerName:         host,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}
}
