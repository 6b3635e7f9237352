package emailw

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AndreeJait/email-storm/account"
	"github.com/AndreeJait/email-storm/campaign"
	"github.com/AndreeJait/email-storm/loggerw"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeSendCloser struct {
	from    string
	to      []string
	raw     bytes.Buffer
	sendErr error
	closed  bool
}

func (f *fakeSendCloser) Send(from string, to []string, msg io.WriterTo) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.from = from
	f.to = to
	_, err := msg.WriteTo(&f.raw)
	return err
}

func (f *fakeSendCloser) Close() error {
	f.closed = true
	return nil
}

var testAccount = account.Account{
	SenderEmail:    "sender@x.com",
	SenderPassword: "secret",
	SmtpServer:     "smtp.x.com",
	SmtpPort:       587,
}

func newTestSender(sc *fakeSendCloser, dialErr error) *Sender {
	return New(Config{}, loggerw.Discard(), WithDialer(func(account.Account) (gomail.SendCloser, error) {
		if dialErr != nil {
			return nil, dialErr
		}
		return sc, nil
	}))
}

func TestSender_Send(t *testing.T) {
	attachment := filepath.Join(t.TempDir(), "brochure.pdf")
	require.NoError(t, os.WriteFile(attachment, []byte("%PDF-1.4 test"), 0o600))

	tests := []struct {
		name        string
		msg         campaign.Message
		contains    []string
		notContains []string
	}{
		{
			name:     "plain text to recipient",
			msg:      campaign.Message{To: "al@x.com", Subject: "Hello Al", Body: "plain body"},
			contains: []string{"To: al@x.com", "From: sender@x.com", "Subject: Hello Al", "text/plain", "plain body"},
			notContains: []string{
				"text/html",
			},
		},
		{
			name:        "bcc mode hides the recipient",
			msg:         campaign.Message{To: "al@x.com", Subject: "Hi", Body: "body", BCC: true},
			notContains: []string{"To: al@x.com", "Bcc:"},
		},
		{
			name:     "html body carries a text alternative",
			msg:      campaign.Message{To: "al@x.com", Subject: "Hi", Body: "<p>Fish &amp; chips</p>", HTML: true},
			contains: []string{"multipart/alternative", "text/html", "<p>Fish &amp; chips</p>", "Fish & chips"},
		},
		{
			name:     "attachment by base name",
			msg:      campaign.Message{To: "al@x.com", Subject: "Hi", Body: "body", AttachmentPath: attachment},
			contains: []string{"application/octet-stream", `filename="brochure.pdf"`},
		},
		{
			name:        "unreadable attachment is skipped",
			msg:         campaign.Message{To: "al@x.com", Subject: "Hi", Body: "body", AttachmentPath: attachment + ".missing"},
			contains:    []string{"body"},
			notContains: []string{"application/octet-stream"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := &fakeSendCloser{}
			err := newTestSender(sc, nil).Send(context.Background(), testAccount, tt.msg)
			require.NoError(t, err)

			assert.Equal(t, "sender@x.com", sc.from)
			assert.Equal(t, []string{"al@x.com"}, sc.to)
			assert.True(t, sc.closed)

			raw := sc.raw.String()
			for _, want := range tt.contains {
				assert.Contains(t, raw, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, raw, unwanted)
			}
		})
	}
}

func TestSender_SendErrors(t *testing.T) {
	tests := []struct {
		name    string
		dialErr error
		sendErr error
		want    campaign.Reason
	}{
		{
			name:    "auth rejected",
			dialErr: &textproto.Error{Code: 535, Msg: "5.7.8 Username and Password not accepted"},
			want:    campaign.ReasonAuthFailure,
		},
		{
			name:    "connection refused",
			dialErr: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
			want:    campaign.ReasonConnectionFailure,
		},
		{
			name:    "other smtp reply during dial",
			dialErr: &textproto.Error{Code: 421, Msg: "service not available"},
			want:    campaign.ReasonTransmissionFailure,
		},
		{
			name:    "recipient rejected",
			sendErr: &textproto.Error{Code: 550, Msg: "mailbox unavailable"},
			want:    campaign.ReasonTransmissionFailure,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := &fakeSendCloser{sendErr: tt.sendErr}
			err := newTestSender(sc, tt.dialErr).Send(context.Background(), testAccount, campaign.Message{
				To: "al@x.com", Subject: "Hi", Body: "body",
			})
			require.Error(t, err)

			var sendErr *SendError
			assert.True(t, errors.As(err, &sendErr))
			assert.Equal(t, tt.want, campaign.Classify(err))
		})
	}
}

func TestSender_SendHonoursContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	s := New(Config{}, loggerw.Discard(), WithDialer(func(account.Account) (gomail.SendCloser, error) {
		<-release
		return &fakeSendCloser{}, nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := s.Send(ctx, testAccount, campaign.Message{To: "al@x.com", Subject: "Hi", Body: "body"})
	require.Error(t, err)
	assert.Equal(t, campaign.ReasonConnectionFailure, campaign.Classify(err))
}

type notifyingSendCloser struct {
	*fakeSendCloser
	closed chan struct{}
}

func (n notifyingSendCloser) Close() error {
	defer close(n.closed)
	return n.fakeSendCloser.Close()
}

func TestSender_SendAfterDeadline(t *testing.T) {
	t.Run("expired context never dials", func(t *testing.T) {
		dials := 0
		s := New(Config{}, loggerw.Discard(), WithDialer(func(account.Account) (gomail.SendCloser, error) {
			dials++
			return &fakeSendCloser{}, nil
		}))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := s.Send(ctx, testAccount, campaign.Message{To: "al@x.com", Subject: "Hi", Body: "body"})
		assert.Equal(t, campaign.ReasonConnectionFailure, campaign.Classify(err))
		assert.Zero(t, dials)
	})

	t.Run("slow dial does not transmit", func(t *testing.T) {
		sc := notifyingSendCloser{fakeSendCloser: &fakeSendCloser{}, closed: make(chan struct{})}
		release := make(chan struct{})
		s := New(Config{}, loggerw.Discard(), WithDialer(func(account.Account) (gomail.SendCloser, error) {
			<-release
			return sc, nil
		}))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		err := s.Send(ctx, testAccount, campaign.Message{To: "al@x.com", Subject: "Hi", Body: "body"})
		assert.Equal(t, campaign.ReasonConnectionFailure, campaign.Classify(err))

		close(release)
		select {
		case <-sc.closed:
		case <-time.After(time.Second):
			t.Fatal("session was not closed")
		}
		assert.Empty(t, sc.to)
		assert.Zero(t, sc.raw.Len())
	})
}
