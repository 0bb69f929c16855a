package log

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type ctxKey string

const loggerKey ctxKey = "logger"

var (
	ErrUnknownFormat = errors.New("unknown log format")
)

// Init configures the standard logrus logger. format is "text" or "json".
func Init(level string, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "parse log level %q", level)
	}
	logrus.SetLevel(lvl)
	switch strings.ToLower(format) {
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	default:
		return errors.Wrap(ErrUnknownFormat, format)
	}
	return nil
}

// 컨텍스트에서 로거를 가져오는 헬퍼 함수
func getLogger(ctx context.Context) *logrus.Entry {
	logger, ok := ctx.Value(loggerKey).(*logrus.Entry)
	if !ok {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return logger
}

// 로거에 필드를 추가하는 헬퍼 함수
func WithFields(ctx context.Context, fields map[string]interface{}) context.Context {
	logger := getLogger(ctx).WithFields(fields)
	return context.WithValue(ctx, loggerKey, logger)
}

func CallerFileLine() string {
	_, file, line, ok := runtime.Caller(3)
	if ok {
		return fmt.Sprintf("%s:%d", file, line)
	}
	return ""
}

func CallerFunc() string {
	pc, _, _, ok := runtime.Caller(3)
	if ok {
		return runtime.FuncForPC(pc).Name()
	}
	return ""
}

func getLoggerWithStack(ctx context.Context) *logrus.Entry {
	if !logrus.IsLevelEnabled(logrus.DebugLevel) {
		return getLogger(ctx)
	}
	return getLogger(ctx).WithFields(logrus.Fields{
		"file": CallerFileLine(),
		"func": CallerFunc(),
	})
}

func Info(ctx context.Context, args ...interface{}) {
	getLoggerWithStack(ctx).Info(args...)
}

func Infof(ctx context.Context, format string, args ...interface{}) {
	getLoggerWithStack(ctx).Infof(format, args...)
}

func Debug(ctx context.Context, args ...interface{}) {
	getLoggerWithStack(ctx).Debug(args...)
}

func Debugf(ctx context.Context, format string, args ...interface{}) {
	getLoggerWithStack(ctx).Debugf(format, args...)
}

func Warnf(ctx context.Context, format string, args ...interface{}) {
	getLoggerWithStack(ctx).Warnf(format, args...)
}

func Errorf(ctx context.Context, format string, args ...interface{}) {
	getLoggerWithStack(ctx).Errorf(format, args...)
}
