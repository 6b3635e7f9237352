package emailw

import (
	"context"
	"html"
	"io"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/AndreeJait/email-storm/account"
	"github.com/AndreeJait/email-storm/campaign"
	"github.com/AndreeJait/email-storm/loggerw"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

// Sender delivers campaign messages over SMTP, one authenticated session per
// message. Port 465 uses implicit TLS, every other port upgrades with
// STARTTLS when the server offers it.
//
// In BCC mode the recipient only goes into a Bcc header and no To header is
// written. gomail never serializes the Bcc header, so the delivered message
// names no recipient at all; the address only travels in RCPT TO.
type Sender struct {
	cfg        Config
	log        loggerw.Logger
	textPolicy *bluemonday.Policy
	dial       dialFunc
}

var _ campaign.Transmitter = (*Sender)(nil)

func New(cfg Config, log loggerw.Logger, opts ...Option) *Sender {
	s := &Sender{
		cfg:        cfg,
		log:        log,
		textPolicy: bluemonday.StrictPolicy(),
	}
	s.dial = s.dialSMTP
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sender) dialSMTP(acc account.Account) (gomail.SendCloser, error) {
	dialer := gomail.NewDialer(acc.SmtpServer, acc.SmtpPort, acc.SenderEmail, acc.SenderPassword)
	dialer.TLSConfig = tlsConfig(s.cfg, acc.SmtpServer)
	return dialer.Dial()
}

// Send implements campaign.Transmitter. The SMTP client has no context
// support, so a ctx that expires mid-session abandons it: a message already
// handed to the server may still be delivered.
func (s *Sender) Send(ctx context.Context, acc account.Account, msg campaign.Message) error {
	if err := ctx.Err(); err != nil {
		return &SendError{Kind: campaign.ErrConnectionFailure, Err: err}
	}
	m := s.build(acc, msg)

	done := make(chan error, 1)
	go func() {
		done <- s.deliver(ctx, acc, msg.To, m)
	}()

	select {
	case <-ctx.Done():
		return &SendError{Kind: campaign.ErrConnectionFailure, Err: ctx.Err()}
	case err := <-done:
		if err != nil {
			s.log.WithFields(loggerw.Fields{
				"sender":    acc.SenderEmail,
				"server":    acc.Address(),
				"recipient": msg.To,
			}).Errorf("failed to send email: %v", err)
		}
		return err
	}
}

func (s *Sender) deliver(ctx context.Context, acc account.Account, to string, m *gomail.Message) error {
	sc, err := s.dial(acc)
	if err != nil {
		return classifyDialError(err)
	}
	defer sc.Close()

	// the caller gave up while we were dialing
	if err = ctx.Err(); err != nil {
		return &SendError{Kind: campaign.ErrConnectionFailure, Err: err}
	}

	if err = gomail.Send(sc, m); err != nil {
		return &SendError{Kind: campaign.ErrTransmissionFailure, Err: err}
	}

	mode := "TO"
	if len(m.GetHeader("Bcc")) > 0 {
		mode = "BCC"
	}
	s.log.WithFields(loggerw.Fields{
		"sender":    acc.SenderEmail,
		"recipient": to,
		"mode":      mode,
	}).Infof("email sent with subject %q", strings.Join(m.GetHeader("Subject"), ""))
	return nil
}

func (s *Sender) build(acc account.Account, msg campaign.Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", acc.SenderEmail)
	m.SetHeader("Subject", msg.Subject)

	if msg.BCC {
		m.SetHeader("Bcc", msg.To)
	} else {
		m.SetHeader("To", msg.To)
	}

	if msg.HTML {
		m.SetBody("text/plain", s.plainText(msg.Body))
		m.AddAlternative("text/html", msg.Body)
	} else {
		m.SetBody("text/plain", msg.Body)
	}

	if msg.AttachmentPath != "" {
		s.attach(m, msg.AttachmentPath)
	}
	return m
}

// attach reads the file up front so an unreadable attachment only drops the
// attachment, not the message.
func (s *Sender) attach(m *gomail.Message, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Errorf("error attaching file %s: %v", path, err)
		return
	}
	m.Attach(filepath.Base(path),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}),
		gomail.SetHeader(map[string][]string{
			"Content-Type": {"application/octet-stream"},
		}),
	)
	s.log.Debugf("attached file: %s", filepath.Base(path))
}

func (s *Sender) plainText(body string) string {
	return strings.TrimSpace(html.UnescapeString(s.textPolicy.Sanitize(body)))
}

// classifyDialError sorts errors from connect, TLS and AUTH. SMTP replies
// 530/534/535 and 454 during dial come from the AUTH exchange.
func classifyDialError(err error) error {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		switch tpErr.Code {
		case 454, 530, 534, 535:
			return &SendError{Kind: campaign.ErrAuthFailure, Err: err}
		}
		return &SendError{Kind: campaign.ErrTransmissionFailure, Err: err}
	}
	if strings.Contains(err.Error(), "unencrypted connection") {
		return &SendError{Kind: campaign.ErrAuthFailure, Err: err}
	}
	return &SendError{Kind: campaign.ErrConnectionFailure, Err: err}
}
