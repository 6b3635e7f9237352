package response

import (
	"net/http"
	"sort"

	"github.com/AndreeJait/email-storm/errow"
	"github.com/AndreeJait/email-storm/loggerw"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorResponse is the response that represents an error.
type ErrorResponse struct {
	HTTPCode  int              `json:"-"`
	Success   bool             `json:"success" example:"false"`
	Message   string           `json:"message"`
	ErrorCode errow.ErrorWCode `json:"error_code,omitempty"`
	RequestID string           `json:"request_id"`
	Internal  error            `json:"-"`
}

type ErrResponseFunc func(errInner error) ErrorResponse

// Error is required by the error interface.
func (e ErrorResponse) Error() string {
	return e.Message
}

// StatusCode is required by CustomHTTPErrorHandler
func (e ErrorResponse) StatusCode() int {
	return e.HTTPCode
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// newErrorResponse takes code and message from the ErrorW inside err, or from
// fallback when there is none.
func newErrorResponse(err error, httpCode int, fallback errow.ErrorW) ErrorResponse {
	if _, ok := err.(stackTracer); !ok {
		err = errors.WithStack(err)
	}

	val := fallback
	var inner errow.ErrorW
	if errors.As(err, &inner) {
		val = inner
	}

	return ErrorResponse{
		HTTPCode:  httpCode,
		Message:   val.Message,
		ErrorCode: val.Code,
		Internal:  err,
	}
}

// ErrInternalServerError creates a new error response representing an internal server error (HTTP 500)
func ErrInternalServerError(err error) ErrorResponse {
	return newErrorResponse(err, http.StatusInternalServerError, errow.ErrInternalServer)
}

func ErrUnauthorized(err error) ErrorResponse {
	return newErrorResponse(err, http.StatusUnauthorized, errow.ErrUnauthorized)
}

// ErrForbidden creates a new error response representing an authorization failure (HTTP 403)
func ErrForbidden(err error) ErrorResponse {
	return newErrorResponse(err, http.StatusForbidden, errow.ErrForbidden)
}

// ErrSessionExpired answers 440, the login time-out status.
func ErrSessionExpired(err error) ErrorResponse {
	return newErrorResponse(err, 440, errow.ErrSessionExpired)
}

func ErrNotFound(err error) ErrorResponse {
	return newErrorResponse(err, http.StatusNotFound, errow.ErrResourceNotFound)
}

// ErrBadRequest creates a new error response representing a bad request (HTTP 400)
func ErrBadRequest(err error) ErrorResponse {
	return newErrorResponse(err, http.StatusBadRequest, errow.ErrBadRequest)
}

func ErrUnprocessableEntity(err error) ErrorResponse {
	return newErrorResponse(err, http.StatusUnprocessableEntity, errow.ErrUnprocessableEntity)
}

func HTTPError(err error, statusCode int, errorCode errow.ErrorWCode, message string) ErrorResponse {
	if _, ok := err.(stackTracer); !ok {
		err = errors.WithStack(err)
	}

	return ErrorResponse{
		HTTPCode:  statusCode,
		Message:   message,
		ErrorCode: errorCode,
		Internal:  err,
	}
}

func CustomHttpErrorHandler(log loggerw.Logger,
	mapErrorResponse map[errow.ErrorWCode]ErrResponseFunc, withStack bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		requestID := loggerw.GetRequestID(c.Request().Context())
		reqLog := log.WithField("request_id", requestID)

		errorResponse := resolve(err, mapErrorResponse)
		errorResponse.RequestID = requestID

		if withStack {
			if stderr, ok := errorResponse.Internal.(stackTracer); ok {
				reqLog.Errorf("%+v", stderr)
			}
		}

		reqLog.Error(errorResponse.Internal)

		if errJson := c.JSON(errorResponse.HTTPCode, errorResponse); errJson != nil {
			reqLog.Error(errJson)
		}
	}
}

func resolve(err error, mapErrorResponse map[errow.ErrorWCode]ErrResponseFunc) ErrorResponse {
	var errorResponse ErrorResponse
	if errors.As(err, &errorResponse) {
		return errorResponse
	}

	var httpErr *echo.HTTPError
	switch {
	case errors.Is(err, echo.ErrNotFound):
		return HTTPError(err, http.StatusNotFound, errow.ErrResourceNotFound.Code, "requested endpoint is not registered")
	case errors.As(err, &validation.Errors{}) || errors.As(err, &validation.ErrorObject{}):
		return HTTPError(err, http.StatusBadRequest, errow.ErrBadRequest.Code, err.Error())
	case errors.As(err, &httpErr):
		return HTTPError(err, httpErr.Code, errow.ErrBadRequest.Code, http.StatusText(httpErr.Code))
	}

	if converted, ok := ConvertError(err, mapErrorResponse).(ErrorResponse); ok {
		return converted
	}
	return ErrInternalServerError(err)
}

// ConvertError picks the handler registered for the highest code range that
// contains the error's code. Errors without an errow code pass through.
func ConvertError(err error, mapError map[errow.ErrorWCode]ErrResponseFunc) error {
	var arrKey []int
	for key := range mapError {
		arrKey = append(arrKey, int(key))
	}
	sort.Slice(arrKey, func(i, j int) bool {
		return arrKey[i] > arrKey[j]
	})

	var val errow.ErrorW
	if errors.As(err, &val) {
		for _, key := range arrKey {
			if int(val.Code) >= key {
				return mapError[errow.ErrorWCode(key)](err)
			}
		}
	}
	return err
}

var MapDefaultErrResponse = map[errow.ErrorWCode]ErrResponseFunc{
	errow.ErrInternalServer.Code:      ErrInternalServerError,
	errow.ErrSessionExpired.Code:      ErrSessionExpired,
	errow.ErrUnprocessableEntity.Code: ErrUnprocessableEntity,
	errow.ErrResourceNotFound.Code:    ErrNotFound,
	errow.ErrForbidden.Code:           ErrForbidden,
	errow.ErrUnauthorized.Code:        ErrUnauthorized,
	errow.ErrBadRequest.Code:          ErrBadRequest,
}
