package campaign

import "github.com/AndreeJait/email-storm/loggerw"

// Observer receives dispatch progress. With concurrency enabled its methods
// are called from several goroutines.
type Observer interface {
	Started(contacts, accounts int, opts Options)
	Attempt(row int, recipient, sender string)
	Succeeded(row int, recipient, sender string)
	Failed(f Failure)
	Finished(res Result)
}

type nopObserver struct{}

func (nopObserver) Started(int, int, Options) {}
func (nopObserver) Attempt(int, string, string) {}
func (nopObserver) Succeeded(int, string, string) {}
func (nopObserver) Failed(Failure) {}
func (nopObserver) Finished(Result) {}

// NopObserver discards every event.
func NopObserver() Observer {
	return nopObserver{}
}

type logObserver struct {
	log loggerw.Logger
}

// LogObserver writes each event to log.
func LogObserver(log loggerw.Logger) Observer {
	return &logObserver{log: log}
}

func (o *logObserver) Started(contacts, accounts int, opts Options) {
	o.log.WithFields(loggerw.Fields{
		"contacts": contacts,
		"senders":  accounts,
		"html":     opts.HTML,
		"bcc":      opts.BCC,
	}).Info("starting email campaign")
}

func (o *logObserver) Attempt(row int, recipient, sender string) {
	o.log.WithFields(loggerw.Fields{
		"row":       row,
		"recipient": recipient,
		"sender":    sender,
	}).Info("attempting to send email")
}

func (o *logObserver) Succeeded(row int, recipient, sender string) {
	o.log.WithFields(loggerw.Fields{
		"row":       row,
		"recipient": recipient,
		"sender":    sender,
	}).Info("email sent")
}

func (o *logObserver) Failed(f Failure) {
	o.log.WithFields(loggerw.Fields{
		"row":       f.Row,
		"recipient": f.Email,
		"reason":    f.Reason,
		"detail":    f.Detail,
	}).Warning("email not sent")
}

func (o *logObserver) Finished(res Result) {
	o.log.Infof("email campaign finished: %d sent successfully, %d failed", res.SuccessCount(), res.FailedCount())
}
