package campaign

import (
	"context"

	"github.com/AndreeJait/email-storm/account"
	"github.com/pkg/errors"
)

// Message is one personalized email ready to hand to a Transmitter.
type Message struct {
	To             string
	Subject        string
	Body           string
	HTML           bool
	BCC            bool
	AttachmentPath string
}

// Transmitter performs one protocol-level send attempt through sender.
// Implementations wrap ErrAuthFailure or ErrConnectionFailure so the
// dispatcher can tell failure kinds apart.
type Transmitter interface {
	Send(ctx context.Context, sender account.Account, msg Message) error
}

// TransmitterFunc adapts a function to Transmitter.
type TransmitterFunc func(ctx context.Context, sender account.Account, msg Message) error

func (f TransmitterFunc) Send(ctx context.Context, sender account.Account, msg Message) error {
	return f(ctx, sender, msg)
}

var (
	ErrAuthFailure         = errors.New("authentication failed")
	ErrConnectionFailure   = errors.New("connection failed")
	ErrTransmissionFailure = errors.New("sending failed")
)

// Classify maps a transmission error to a failure reason. Deadlines count as
// connection failures.
func Classify(err error) Reason {
	switch {
	case errors.Is(err, ErrAuthFailure):
		return ReasonAuthFailure
	case errors.Is(err, ErrConnectionFailure), errors.Is(err, context.DeadlineExceeded):
		return ReasonConnectionFailure
	default:
		return ReasonTransmissionFailure
	}
}
