package campaign

import (
	"context"
	"strings"
	"time"

	"github.com/AndreeJait/email-storm/account"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultSendTimeout bounds a single Transmitter call.
const DefaultSendTimeout = 60 * time.Second

// Options are the per-campaign delivery flags shared by every message.
type Options struct {
	HTML           bool   `json:"html"`
	BCC            bool   `json:"bcc"`
	AttachmentPath string `json:"attachment_path,omitempty"`
}

// Request is one campaign: contacts, the template pair and the senders to
// rotate through.
type Request struct {
	Contacts        []Record
	SubjectTemplate string
	BodyTemplate    string
	Variables       []string
	Accounts        []account.Account
	Options         Options
}

// Dispatcher personalizes and sends one message per contact, rotating
// through the request's accounts. Every contact ends with exactly one
// outcome; per-contact problems are reported in the Result, never returned.
type Dispatcher struct {
	transmitter Transmitter
	observer    Observer
	delayer     Delayer
	rotation    *Rotation
	sendTimeout time.Duration
	concurrent  bool
	maxWorkers  int
}

type Option func(*Dispatcher)

func WithObserver(o Observer) Option {
	return func(d *Dispatcher) {
		if o != nil {
			d.observer = o
		}
	}
}

// WithDelayer sets the pacing between consecutive sends.
func WithDelayer(delayer Delayer) Option {
	return func(d *Dispatcher) {
		if delayer != nil {
			d.delayer = delayer
		}
	}
}

// WithRotation shares r between campaigns so the next campaign continues
// where the previous one stopped. Without it every campaign starts at the
// first account.
func WithRotation(r *Rotation) Option {
	return func(d *Dispatcher) {
		d.rotation = r
	}
}

// WithSendTimeout bounds every Transmitter call. Zero or less disables it.
func WithSendTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		d.sendTimeout = timeout
	}
}

// WithConcurrency runs one serial worker per distinct account, at most
// maxWorkers at a time (0 means one per account).
func WithConcurrency(maxWorkers int) Option {
	return func(d *Dispatcher) {
		d.concurrent = true
		d.maxWorkers = maxWorkers
	}
}

func NewDispatcher(transmitter Transmitter, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		transmitter: transmitter,
		observer:    NopObserver(),
		delayer:     NoDelay{},
		sendTimeout: DefaultSendTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type job struct {
	index   int
	row     int
	email   string
	subject string
	body    string
	sender  account.Account
}

// Dispatch runs the campaign to completion and returns its result.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Result {
	outcomes := make([]outcome, len(req.Contacts))
	d.observer.Started(len(req.Contacts), len(req.Accounts), req.Options)

	if len(req.Accounts) == 0 {
		for i, rec := range req.Contacts {
			d.fail(outcomes, i, Failure{
				Row:    i + 1,
				Email:  strings.TrimSpace(rec.Email()),
				Reason: ReasonNoSenderConfig,
			})
		}
		return d.finish(outcomes)
	}

	rotation := d.rotation
	if rotation == nil {
		rotation = NewRotation()
	}

	jobs := make([]job, 0, len(req.Contacts))
	for i, rec := range req.Contacts {
		email, reason, ok := ValidateAddress(rec.Email())
		if !ok {
			d.fail(outcomes, i, Failure{Row: i + 1, Email: email, Reason: reason})
			continue
		}
		jobs = append(jobs, job{
			index:   i,
			row:     i + 1,
			email:   email,
			subject: Render(req.SubjectTemplate, rec, req.Variables),
			body:    Render(req.BodyTemplate, rec, req.Variables),
			sender:  req.Accounts[rotation.Next(len(req.Accounts))],
		})
	}

	if d.concurrent {
		d.runPerAccount(ctx, req.Options, jobs, outcomes)
	} else {
		d.runQueue(ctx, req.Options, jobs, outcomes)
	}
	return d.finish(outcomes)
}

func (d *Dispatcher) runPerAccount(ctx context.Context, opts Options, jobs []job, outcomes []outcome) {
	var keys []string
	queues := make(map[string][]job)
	for _, jb := range jobs {
		key := jb.sender.Key()
		if _, ok := queues[key]; !ok {
			keys = append(keys, key)
		}
		queues[key] = append(queues[key], jb)
	}

	var g errgroup.Group
	if d.maxWorkers > 0 {
		g.SetLimit(d.maxWorkers)
	}
	for _, key := range keys {
		queue := queues[key]
		g.Go(func() error {
			d.runQueue(ctx, opts, queue, outcomes)
			return nil
		})
	}
	_ = g.Wait()
}

// runQueue sends jobs one after another. Each job writes only its own slot
// of outcomes.
func (d *Dispatcher) runQueue(ctx context.Context, opts Options, jobs []job, outcomes []outcome) {
	for n, jb := range jobs {
		if n > 0 {
			_ = d.delayer.Delay(ctx)
		}
		if ctx.Err() != nil {
			d.fail(outcomes, jb.index, Failure{
				Row:    jb.row,
				Email:  jb.email,
				Reason: ReasonTransmissionFailure,
				Detail: "campaign cancelled",
			})
			continue
		}
		d.transmit(ctx, opts, jb, outcomes)
	}
}

func (d *Dispatcher) transmit(ctx context.Context, opts Options, jb job, outcomes []outcome) {
	d.observer.Attempt(jb.row, jb.email, jb.sender.SenderEmail)

	sendCtx, cancel := ctx, context.CancelFunc(func() {})
	if d.sendTimeout > 0 {
		sendCtx, cancel = context.WithTimeout(ctx, d.sendTimeout)
	}
	defer cancel()

	err := d.send(sendCtx, jb.sender, Message{
		To:             jb.email,
		Subject:        jb.subject,
		Body:           jb.body,
		HTML:           opts.HTML,
		BCC:            opts.BCC,
		AttachmentPath: opts.AttachmentPath,
	})
	if err != nil {
		d.fail(outcomes, jb.index, Failure{
			Row:    jb.row,
			Email:  jb.email,
			Reason: Classify(err),
			Detail: err.Error(),
		})
		return
	}

	outcomes[jb.index] = outcome{email: jb.email}
	d.observer.Succeeded(jb.row, jb.email, jb.sender.SenderEmail)
}

func (d *Dispatcher) send(ctx context.Context, sender account.Account, msg Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic while sending to %s: %v", msg.To, r)
		}
	}()
	return d.transmitter.Send(ctx, sender, msg)
}

func (d *Dispatcher) fail(outcomes []outcome, index int, f Failure) {
	outcomes[index] = outcome{failure: &f}
	d.observer.Failed(f)
}

func (d *Dispatcher) finish(outcomes []outcome) Result {
	res := buildResult(outcomes)
	d.observer.Finished(res)
	return res
}

// ValidateAddress trims raw and checks it has an @ whose domain part
// contains a dot.
func ValidateAddress(raw string) (email string, reason Reason, ok bool) {
	email = strings.TrimSpace(raw)
	if email == "" {
		return "", ReasonMissingAddress, false
	}
	at := strings.LastIndex(email, "@")
	if at < 0 || !strings.Contains(email[at+1:], ".") {
		return email, ReasonMalformedAddress, false
	}
	return email, "", true
}
