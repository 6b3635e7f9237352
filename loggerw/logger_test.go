package loggerw

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "app.log")

	log, err := New(&Option{
		Level:       Info,
		Formatter:   JSONFormatter,
		LogFilePath: logFile,
		MaxSize:     1,
		Output:      &buf,
	})
	require.NoError(t, err)

	log.WithFields(Fields{"recipient": "al@x.com", "row": 1}).Info("email sent")
	log.Debug("hidden at info level")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "email sent", line["msg"])
	assert.Equal(t, "al@x.com", line["recipient"])
	assert.NotContains(t, buf.String(), "hidden")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "email sent")
}

func TestLoggerWitRequestID(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&Option{Formatter: TextFormatter, Output: &buf})
	require.NoError(t, err)

	e := echo.New()
	var seen string
	e.Use(LoggerWitRequestID(log, true))
	e.GET("/ok", func(c echo.Context) error {
		seen = GetRequestID(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/fail", func(c echo.Context) error {
		return echo.ErrForbidden
	})

	t.Run("generates id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
		assert.Contains(t, buf.String(), "request handled")
	})

	t.Run("keeps incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, "req-42", seen)
		assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
	})

	t.Run("handler error is rendered once", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.True(t, strings.Contains(buf.String(), "status=403"))
	})
}

func TestLumberjackHookLevels(t *testing.T) {
	levels := (&lumberjackHook{}).Levels()
	assert.Subset(t, levels, []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel})
	assert.NotContains(t, levels, logrus.TraceLevel)
}
