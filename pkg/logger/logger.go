package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var (
	levelNames = map[Level]string{
		DEBUG: "DEBUG",
		INFO:  "INFO",
		WARN:  "WARN",
		ERROR: "ERROR",
	}
	levelColors = map[Level]string{
		DEBUG: "\033[36m",
		INFO:  "\033[32m",
		WARN:  "\033[33m",
		ERROR: "\033[31m",
	}
	reset = "\033[0m"
)

type Logger struct {
	mu       sync.Mutex
	level    Level
	out      io.Writer
	prefix   string
	useColor bool
}

var (
	std     *Logger
	stdOnce sync.Once
)

// Init 初始化全局日志器，logFile 为空时输出到 stderr
func Init(level string, useColor bool, logFile string) {
	stdOnce.Do(func() {
		out := io.Writer(os.Stderr)
		if logFile != "" {
			if f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666); err == nil {
				out = f
				useColor = false
			}
		}
		std = &Logger{
			level:    parseLevel(level),
			out:      out,
			useColor: useColor,
		}
	})
}

func Get() *Logger {
	if std == nil {
		Init("INFO", true, "")
	}
	return std
}

func SetLevel(level string) {
	l := Get()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = parseLevel(level)
}

func parseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

func Debug(format string, v ...interface{}) {
	Get().log(DEBUG, format, v...)
}

func Info(format string, v ...interface{}) {
	Get().log(INFO, format, v...)
}

func Warn(format string, v ...interface{}) {
	Get().log(WARN, format, v...)
}

func Error(format string, v ...interface{}) {
	Get().log(ERROR, format, v...)
}

func Fatal(format string, v ...interface{}) {
	Get().log(ERROR, format, v...)
	os.Exit(1)
}

// WithPrefix 返回带固定前缀的子日志器，级别与输出继承全局
func WithPrefix(prefix string) *Logger {
	parent := Get()
	return &Logger{
		level:    parent.level,
		out:      parent.out,
		prefix:   prefix,
		useColor: parent.useColor,
	}
}

func (l *Logger) Debug(format string, v ...interface{}) { l.log(DEBUG, format, v...) }
func (l *Logger) Info(format string, v ...interface{})  { l.log(INFO, format, v...) }
func (l *Logger) Warn(format string, v ...interface{})  { l.log(WARN, format, v...) }
func (l *Logger) Error(format string, v ...interface{}) { l.log(ERROR, format, v...) }

func (l *Logger) log(level Level, format string, v ...interface{}) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, v...)
	levelStr := levelNames[level]

	var tag string
	if l.useColor {
		tag = fmt.Sprintf("%s[%s]%s", levelColors[level], levelStr, reset)
	} else {
		tag = fmt.Sprintf("[%s]", levelStr)
	}
	if l.prefix != "" {
		tag = fmt.Sprintf("[%s] %s", l.prefix, tag)
	}

	fmt.Fprintf(l.out, "%s %s %s\n", time.Now().Format("2006/01/02 15:04:05"), tag, msg)
}
