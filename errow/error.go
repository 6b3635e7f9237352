package errow

import "fmt"

type ErrorWCode int

type ErrorW struct {
	Message string
	Code    ErrorWCode
}

func (e ErrorW) Error() string {
	return fmt.Sprintf("[%d] - %s", e.Code, e.Message)
}

// WithMessage returns a copy of e carrying a more specific message.
func (e ErrorW) WithMessage(message string) ErrorW {
	e.Message = message
	return e
}

// Is matches on code so copies produced by WithMessage still satisfy errors.Is.
func (e ErrorW) Is(target error) bool {
	t, ok := target.(ErrorW)
	return ok && t.Code == e.Code
}
