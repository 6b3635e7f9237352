package loggerw

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type (
	Logger interface {
		Info(...interface{})
		Infof(string, ...interface{})
		Debug(...interface{})
		Debugf(string, ...interface{})
		Error(...interface{})
		Errorf(string, ...interface{})
		Warning(...interface{})
		Warningf(string, ...interface{})
		Fatal(...interface{})
		Fatalf(string, ...interface{})
		Print(...interface{})
		Printf(string, ...interface{})
		Println(...interface{})
		WithField(key string, value interface{}) Logger
		WithFields(fields Fields) Logger
		Instance() interface{}
	}

	Fields map[string]interface{}

	Level     string
	Formatter string

	Option struct {
		Level                       Level
		LogFilePath                 string
		Formatter                   Formatter
		MaxSize, MaxBackups, MaxAge int
		Compress                    bool
		// Output replaces stderr as the console sink. Use io.Discard to mute it.
		Output io.Writer
	}

	logger struct {
		instance *logrus.Logger
		entry    *logrus.Entry
	}
)

const (
	Info    Level = "INFO"
	Debug   Level = "DEBUG"
	Warning Level = "WARNING"
	Error   Level = "ERROR"

	JSONFormatter Formatter = "JSON"
	TextFormatter Formatter = "TEXT"
)

func (l *logger) Info(args ...interface{}) {
	l.entry.Info(args...)
}

func (l *logger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *logger) Debug(args ...interface{}) {
	l.entry.Debug(args...)
}

func (l *logger) Debugf(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

func (l *logger) Error(args ...interface{}) {
	l.entry.Error(args...)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

func (l *logger) Warning(args ...interface{}) {
	l.entry.Warning(args...)
}

func (l *logger) Warningf(format string, args ...interface{}) {
	l.entry.Warningf(format, args...)
}

func (l *logger) Fatal(args ...interface{}) {
	l.entry.Fatal(args...)
}

func (l *logger) Fatalf(format string, args ...interface{}) {
	l.entry.Fatalf(format, args...)
}

func (l *logger) Print(args ...interface{}) {
	l.entry.Print(args...)
}

func (l *logger) Println(args ...interface{}) {
	l.entry.Println(args...)
}

func (l *logger) Printf(format string, args ...interface{}) {
	l.entry.Printf(format, args...)
}

func (l *logger) WithField(key string, value interface{}) Logger {
	return &logger{instance: l.instance, entry: l.entry.WithField(key, value)}
}

func (l *logger) WithFields(fields Fields) Logger {
	return &logger{instance: l.instance, entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *logger) Instance() interface{} {
	return l.instance
}

func New(option *Option) (Logger, error) {
	instance := logrus.New()

	switch option.Level {
	case Debug:
		instance.Level = logrus.DebugLevel
	case Warning:
		instance.Level = logrus.WarnLevel
	case Error:
		instance.Level = logrus.ErrorLevel
	default:
		instance.Level = logrus.InfoLevel
	}

	var formatter logrus.Formatter

	if option.Formatter == JSONFormatter {
		formatter = &logrus.JSONFormatter{}
	} else {
		formatter = &logrus.TextFormatter{FullTimestamp: true}
	}

	instance.Formatter = formatter

	if option.Output != nil {
		instance.Out = option.Output
	}

	// - check if log file path does exists
	if option.LogFilePath != "" {
		lbj := &lumberjack.Logger{
			Filename:   option.LogFilePath,
			MaxSize:    option.MaxSize,
			MaxAge:     option.MaxAge,
			MaxBackups: option.MaxBackups,
			LocalTime:  true,
			Compress:   option.Compress,
		}

		instance.Hooks.Add(&lumberjackHook{
			lbj:    lbj,
			logrus: instance,
		})
	}

	return &logger{instance: instance, entry: logrus.NewEntry(instance)}, nil
}

type (
	lumberjackHook struct {
		lbj    *lumberjack.Logger
		logrus *logrus.Logger
	}
)

func (l *lumberjackHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel, logrus.InfoLevel, logrus.DebugLevel}
}

func (l *lumberjackHook) Fire(entry *logrus.Entry) error {
	b, err := l.logrus.Formatter.Format(entry)

	if err != nil {
		return errors.WithStack(err)
	}

	if _, err := l.lbj.Write(b); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Discard returns a logger that writes nowhere. Handy in tests.
func Discard() Logger {
	log, _ := New(&Option{Level: Error, Output: io.Discard})
	return log
}

type contextKey int

var RequestIDHeader = "X-Request-ID"

const (
	requestIDKey contextKey = iota
)

func GetRequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey).(string); ok {
		return reqID
	}
	return ""
}

// getRequestID extracts the correlation ID from the HTTP request
func getRequestID(req *http.Request) string {
	return req.Header.Get(RequestIDHeader)
}

// WithRequest returns a context which knows the request ID and correlation ID in the given request.
func WithRequest(ctx context.Context, req *http.Request) (context.Context, string) {
	id := getRequestID(req)
	if id == "" {
		id = uuid.New().String()
		req.Header.Set(RequestIDHeader, id)
	}
	ctx = context.WithValue(ctx, requestIDKey, id)
	return ctx, id
}
