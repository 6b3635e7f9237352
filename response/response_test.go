package response

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AndreeJait/email-storm/errow"
	"github.com/AndreeJait/email-storm/loggerw"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHTTP int
		wantCode errow.ErrorWCode
		wantMsg  string
	}{
		{name: "bad request", err: errow.ErrInvalidJSONArray, wantHTTP: 400, wantCode: errow.InvalidJSONArray, wantMsg: errow.ErrInvalidJSONArray.Message},
		{name: "wrapped with message", err: errors.Wrap(errow.ErrInvalidSenderConfig.WithMessage("email configuration #2: bad"), "save"), wantHTTP: 400, wantCode: errow.InvalidSenderConfig, wantMsg: "email configuration #2: bad"},
		{name: "unauthorized", err: errow.ErrLicenseRequired, wantHTTP: 401, wantCode: errow.LicenseRequired},
		{name: "unprocessable", err: errow.ErrMissingEmailColumn, wantHTTP: 422, wantCode: errow.MissingEmailColumn},
		{name: "session expired", err: errow.ErrSessionExpired, wantHTTP: 440, wantCode: errow.SessionExpired},
		{name: "internal", err: errow.ErrConfigFileCorrupt, wantHTTP: 500, wantCode: errow.ConfigFileCorrupt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ConvertError(tt.err, MapDefaultErrResponse).(ErrorResponse)
			require.True(t, ok)
			assert.Equal(t, tt.wantHTTP, got.HTTPCode)
			assert.Equal(t, tt.wantCode, got.ErrorCode)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, got.Message)
			}
		})
	}

	plain := errors.New("plain")
	assert.Equal(t, plain, ConvertError(plain, MapDefaultErrResponse))
}

func TestCustomHttpErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHTTP int
		wantCode errow.ErrorWCode
	}{
		{name: "coded error", err: errow.ErrCSVEmpty, wantHTTP: 422, wantCode: errow.CSVEmpty},
		{name: "validation error", err: validation.Errors{"senderEmail": errors.New("cannot be blank")}, wantHTTP: 400, wantCode: errow.BadRequest},
		{name: "route not found", err: echo.ErrNotFound, wantHTTP: 404, wantCode: errow.ResourceNotFound},
		{name: "echo http error", err: echo.NewHTTPError(http.StatusMethodNotAllowed), wantHTTP: 405, wantCode: errow.BadRequest},
		{name: "unknown error", err: errors.New("boom"), wantHTTP: 500, wantCode: errow.InternalServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.HTTPErrorHandler = CustomHttpErrorHandler(loggerw.Discard(), MapDefaultErrResponse, true)

			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			e.HTTPErrorHandler(tt.err, c)

			assert.Equal(t, tt.wantHTTP, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.ErrorCode)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestCustomHttpErrorHandlerStack(t *testing.T) {
	tests := []struct {
		name      string
		withStack bool
	}{
		{name: "stack logged", withStack: true},
		{name: "stack omitted", withStack: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := loggerw.New(&loggerw.Option{Level: loggerw.Error, Output: &buf})
			require.NoError(t, err)

			e := echo.New()
			e.HTTPErrorHandler = CustomHttpErrorHandler(log, MapDefaultErrResponse, tt.withStack)
			rec := httptest.NewRecorder()
			e.HTTPErrorHandler(errors.New("boom"), e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec))

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Contains(t, buf.String(), "boom")
			assert.Equal(t, tt.withStack, strings.Contains(buf.String(), "response_test.go"))
		})
	}
}

func TestSuccessOK(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, SuccessOK(c, Data{"status": "healthy"}, "saved", "twice"))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "saved, twice", body.Message)
	assert.Equal(t, map[string]interface{}{"status": "healthy"}, body.Data)
}
