package account

import (
	"encoding/json"
	"net"
	"strconv"
	"strings"

	"github.com/AndreeJait/email-storm/errow"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pkg/errors"
)

// DefaultSMTPPort is used when a config omits smtpPort.
const DefaultSMTPPort = 587

// Account is one outgoing mail account a campaign can send through.
type Account struct {
	SenderEmail    string `json:"senderEmail" yaml:"sender_email"`
	SenderPassword string `json:"senderPassword" yaml:"sender_password"`
	SmtpServer     string `json:"smtpServer" yaml:"smtp_server"`
	SmtpPort       int    `json:"smtpPort" yaml:"smtp_port"`
}

// UnmarshalJSON accepts smtpPort as a number or a numeric string and falls
// back to DefaultSMTPPort when it is missing.
func (a *Account) UnmarshalJSON(data []byte) error {
	var raw struct {
		SenderEmail    string          `json:"senderEmail"`
		SenderPassword string          `json:"senderPassword"`
		SmtpServer     string          `json:"smtpServer"`
		SmtpPort       json.RawMessage `json:"smtpPort"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	port := DefaultSMTPPort
	if p := strings.TrimSpace(string(raw.SmtpPort)); p != "" && p != "null" {
		p = strings.Trim(p, `"`)
		if p == "" {
			port = 0
		} else {
			n, err := strconv.Atoi(p)
			if err != nil {
				return errors.Errorf("smtpPort: %q is not a number", p)
			}
			port = n
		}
	}

	*a = Account{
		SenderEmail:    raw.SenderEmail,
		SenderPassword: raw.SenderPassword,
		SmtpServer:     raw.SmtpServer,
		SmtpPort:       port,
	}
	return nil
}

func (a Account) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.SenderEmail, validation.Required, is.EmailFormat),
		validation.Field(&a.SenderPassword, validation.Required),
		validation.Field(&a.SmtpServer, validation.Required),
		validation.Field(&a.SmtpPort, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// Address is the host:port to dial.
func (a Account) Address() string {
	return net.JoinHostPort(a.SmtpServer, strconv.Itoa(a.SmtpPort))
}

// Key identifies the mailbox behind the account. Two entries with the same
// key share one sending identity.
func (a Account) Key() string {
	return strings.ToLower(strings.TrimSpace(a.SenderEmail)) + "|" + strings.ToLower(a.Address())
}

// ValidateAll rejects an empty list and any incomplete entry.
func ValidateAll(accounts []Account) error {
	if len(accounts) == 0 {
		return errors.WithStack(errow.ErrNoSenderConfig)
	}
	for i, a := range accounts {
		if err := a.Validate(); err != nil {
			return errors.WithStack(errow.ErrInvalidSenderConfig.WithMessage(
				"email configuration #" + strconv.Itoa(i+1) + ": " + err.Error()))
		}
	}
	return nil
}
