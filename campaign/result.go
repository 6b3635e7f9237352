package campaign

import "fmt"

// Reason tags why a contact did not receive its message.
type Reason string

const (
	ReasonMissingAddress      Reason = "missing_address"
	ReasonMalformedAddress    Reason = "malformed_address"
	ReasonNoSenderConfig      Reason = "no_sender_configuration"
	ReasonAuthFailure         Reason = "auth_failure"
	ReasonConnectionFailure   Reason = "connection_failure"
	ReasonTransmissionFailure Reason = "transmission_failure"
)

var reasonLabels = map[Reason]string{
	ReasonMissingAddress:      "no email address found",
	ReasonMalformedAddress:    "invalid format",
	ReasonNoSenderConfig:      "no sender configuration",
	ReasonAuthFailure:         "authentication failed",
	ReasonConnectionFailure:   "connection failed",
	ReasonTransmissionFailure: "sending failed",
}

// Label is the human readable form used in summaries.
func (r Reason) Label() string {
	if label, ok := reasonLabels[r]; ok {
		return label
	}
	return string(r)
}

// Failure is the terminal outcome of a contact that was not sent.
type Failure struct {
	Row    int    `json:"row"`
	Email  string `json:"email"`
	Reason Reason `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// String renders the failure the way the campaign summary lists it.
func (f Failure) String() string {
	if f.Email == "" {
		return fmt.Sprintf("Row %d (%s)", f.Row, f.Reason.Label())
	}
	return fmt.Sprintf("%s (%s)", f.Email, f.Reason.Label())
}

// Result is returned once per campaign. Both slices follow input order.
type Result struct {
	Successful []string  `json:"successful"`
	Failed     []Failure `json:"failed"`
}

func (r Result) SuccessCount() int {
	return len(r.Successful)
}

func (r Result) FailedCount() int {
	return len(r.Failed)
}

func (r Result) Total() int {
	return len(r.Successful) + len(r.Failed)
}

// FailedStrings flattens Failed into one line per contact.
func (r Result) FailedStrings() []string {
	out := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		out = append(out, f.String())
	}
	return out
}

// outcome holds exactly one of success or failure for a row.
type outcome struct {
	email   string
	failure *Failure
}

func buildResult(outcomes []outcome) Result {
	res := Result{
		Successful: []string{},
		Failed:     []Failure{},
	}
	for _, o := range outcomes {
		if o.failure != nil {
			res.Failed = append(res.Failed, *o.failure)
			continue
		}
		res.Successful = append(res.Successful, o.email)
	}
	return res
}
