package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Logger writes leveled, structured log lines through zerolog.
type Logger struct {
	logger zerolog.Logger
}

// consoleLevels are the level labels of the console format.
var consoleLevels = map[string]string{
	"trace": "[TRC]",
	"debug": "[DBG]",
	"info":  "[INF]",
	"warn":  "[WRN]",
	"error": "[ERR]",
	"fatal": "[FTL]",
}

// New builds the logger described by cfg. Lines carry the service name
// unless it is empty or "default". An unparsable level logs at info.
func New(cfg *Config, serviceName string) *Logger {
	out := io.Writer(os.Stdout)
	if strings.EqualFold(cfg.Output, "stderr") {
		out = os.Stderr
	}

	var zl zerolog.Logger
	switch strings.ToLower(cfg.Format) {
	case "console", "text":
		zl = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
			NoColor:    cfg.NoColor,
			FormatLevel: func(i interface{}) string {
				lvl := fmt.Sprint(i)
				if label, ok := consoleLevels[lvl]; ok {
					return label
				}
				return "[" + strings.ToUpper(lvl) + "]"
			},
			FormatFieldName: func(i interface{}) string { return fmt.Sprint(i) + ":" },
		})
	default:
		zl = zerolog.New(out)
	}

	ctx := zl.Level(parseLevel(cfg.Level)).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	if serviceName != "" && serviceName != "default" {
		ctx = ctx.Str("service", serviceName)
	}
	return &Logger{logger: ctx.Logger()}
}

// NewDefault builds a console logger at info level on stdout.
func NewDefault(serviceName string) *Logger {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return New(cfg, serviceName)
}

// NewFromWriter builds a JSON logger writing to w.
func NewFromWriter(w io.Writer, level string) *Logger {
	return &Logger{logger: zerolog.New(w).Level(parseLevel(level))}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// WithComponent tags every line with name under FieldComponent.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{logger: l.logger.With().Str(FieldComponent, name).Logger()}
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Error(), msg, fields)
}

// emit is a no-op for a nil event, which zerolog returns below the level.
func emit(e *zerolog.Event, msg string, fields []map[string]interface{}) {
	for _, fm := range fields {
		e.Fields(fm)
	}
	e.Msg(msg)
}

var global atomic.Pointer[Logger]

// SetGlobalLogger replaces the global logger. Component loggers derived
// from the previous one are rebuilt on their next Get.
func SetGlobalLogger(l *Logger) {
	global.Store(l)
	dropDerived()
}

// GetGlobalLogger returns the global logger, installing a default console
// logger on first use.
func GetGlobalLogger() *Logger {
	if l := global.Load(); l != nil {
		return l
	}
	global.CompareAndSwap(nil, NewDefault("default"))
	return global.Load()
}

// Debug logs through the global logger.
func Debug(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Debug(msg, fields...)
}

// Info logs through the global logger.
func Info(msg string, fields ...map[string]interface{}) {
	GetGlobalLogger().Info(msg, fields...)
}
