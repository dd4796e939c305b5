package logger

import (
	"fmt"
	"io"
	"runtime"
	"strconv"
	"sync"
	"time"

	golocalv1 "github.com/caiflower/staticweb/pkg/golocal/v1"
)

const (
	_trace = iota
	_debug
	_info
	_warn
	_error
	_fatal

	TraceLevel = "TRACE"
	DebugLevel = "DEBUG"
	InfoLevel  = "INFO"
	WarnLevel  = "WARN"
	ErrorLevel = "ERROR"
	FatalLevel = "FATAL"

	_timeFormat = "2006-01-02 15:04:05"
)

type ILog interface {
	Trace(text string, v ...interface{})
	Debug(text string, v ...interface{})
	Info(text string, v ...interface{})
	Warn(text string, v ...interface{})
	Error(text string, v ...interface{})
	Fatal(text string, v ...interface{})
}

type data struct {
	timestamp time.Time
	traceID   string
	position  string
	level     string
	content   string
}

var defaultLogger = newLoggerHandler(&Config{}, nil)

func Trace(text string, v ...interface{}) {
	defaultLogger.log(TraceLevel, text, v...)
}
func Debug(text string, v ...interface{}) {
	defaultLogger.log(DebugLevel, text, v...)
}
func Info(text string, v ...interface{}) {
	defaultLogger.log(InfoLevel, text, v...)
}
func Warn(text string, v ...interface{}) {
	defaultLogger.log(WarnLevel, text, v...)
}
func Error(text string, v ...interface{}) {
	defaultLogger.log(ErrorLevel, text, v...)
}
func Fatal(text string, v ...interface{}) {
	defaultLogger.log(FatalLevel, text, v...)
}

type LoggerHandler struct {
	lock        sync.RWMutex
	closed      bool
	level       int
	dataQueue   chan data
	logAppender Appender
	running     sync.WaitGroup
}

type Config struct {
	Level       string `yaml:"level" json:"level"`             // 日志级别
	EnableTrace string `yaml:"trace" json:"trace"`             // 是否输出TraceID, True/False。默认True
	QueueLength int    `yaml:"queueLength" json:"queueLength"` // 缓存队列大小，默认50000
	AppenderNum int    `yaml:"appenderNum" json:"appenderNum"` // 日志输出协程数量，默认2
	TimeFormat  string `yaml:"timeFormat" json:"timeFormat"`   // 日志时间输出格式
	Path        string `yaml:"path" json:"path"`               // 日志存储目录，为空时输出到控制台
	FileName    string `yaml:"fileName" json:"fileName"`       // 日志文件名称
	EnableColor string `yaml:"color" json:"color"`             // 是否开启颜色
}

func DefaultLogger() *LoggerHandler {
	return defaultLogger
}

func InitLogger(config *Config) {
	old := defaultLogger
	defaultLogger = newLoggerHandler(config, nil)
	old.Close()
}

func NewLogger(config *Config) *LoggerHandler {
	return newLoggerHandler(config, nil)
}

// NewLoggerWithWriter ignores config.Path and writes every line to w.
func NewLoggerWithWriter(config *Config, w io.Writer) *LoggerHandler {
	return newLoggerHandler(config, w)
}

func newLoggerHandler(config *Config, w io.Writer) *LoggerHandler {
	if config.Level == "" {
		config.Level = InfoLevel
	}
	if config.QueueLength == 0 {
		config.QueueLength = 50000
	}
	if config.AppenderNum <= 0 {
		config.AppenderNum = 2
	}
	if config.TimeFormat == "" {
		config.TimeFormat = _timeFormat
	}
	if config.FileName == "" {
		config.FileName = "app.log"
	}
	enableTrace := true
	if config.EnableTrace != "" {
		enableTrace, _ = strconv.ParseBool(config.EnableTrace)
	}
	enableColor := false
	if config.EnableColor != "" {
		enableColor, _ = strconv.ParseBool(config.EnableColor)
	}

	logger := &LoggerHandler{
		level:       getLevel(config.Level),
		dataQueue:   make(chan data, config.QueueLength),
		logAppender: newLogAppender(config.TimeFormat, config.Path, config.FileName, w, enableTrace, enableColor),
	}

	for i := 0; i < config.AppenderNum; i++ {
		logger.running.Add(1)
		go func() {
			defer logger.running.Done()
			for d := range logger.dataQueue {
				logger.logAppender.write(d)
			}
		}()
	}

	return logger
}

// Close drains the queue and releases the appender. Lines logged afterwards are dropped.
func (lh *LoggerHandler) Close() {
	lh.lock.Lock()
	if lh.closed {
		lh.lock.Unlock()
		return
	}
	lh.closed = true
	close(lh.dataQueue)
	lh.lock.Unlock()

	lh.running.Wait()
	lh.logAppender.close()
}

func (lh *LoggerHandler) Trace(text string, v ...interface{}) {
	lh.log(TraceLevel, text, v...)
}

func (lh *LoggerHandler) Debug(text string, v ...interface{}) {
	lh.log(DebugLevel, text, v...)
}

func (lh *LoggerHandler) Info(text string, v ...interface{}) {
	lh.log(InfoLevel, text, v...)
}

func (lh *LoggerHandler) Warn(text string, v ...interface{}) {
	lh.log(WarnLevel, text, v...)
}

func (lh *LoggerHandler) Error(text string, v ...interface{}) {
	lh.log(ErrorLevel, text, v...)
}

func (lh *LoggerHandler) Fatal(text string, v ...interface{}) {
	lh.log(FatalLevel, text, v...)
}

func getLevel(level string) int {
	switch level {
	case TraceLevel:
		return _trace
	case DebugLevel:
		return _debug
	case InfoLevel:
		return _info
	case WarnLevel:
		return _warn
	case ErrorLevel:
		return _error
	case FatalLevel:
		return _fatal
	default:
		return _trace
	}
}

func getLevelColor(level string) string {
	switch level {
	case TraceLevel:
		return fmt.Sprintf("\033[1;37m%s\033[0m", TraceLevel)
	case DebugLevel:
		return fmt.Sprintf("\033[1;36m%s\033[0m", DebugLevel)
	case InfoLevel:
		return fmt.Sprintf("\033[1;32m%s\033[0m", InfoLevel)
	case WarnLevel:
		return fmt.Sprintf("\033[1;33m%s\033[0m", WarnLevel)
	case ErrorLevel, FatalLevel:
		return fmt.Sprintf("\033[1;31m%s\033[0m", level)
	default:
		return level
	}
}

func (lh *LoggerHandler) log(level string, text string, v ...interface{}) {
	if lh.level > getLevel(level) {
		return
	}

	_, file, line, _ := runtime.Caller(2)
	for i := len(file) - 1; i > 0; i-- {
		if file[i] == '/' {
			file = file[i+1:]
			break
		}
	}

	content := text
	if len(v) > 0 {
		content = fmt.Sprintf(text, v...)
	}

	lh.lock.RLock()
	defer lh.lock.RUnlock()
	if lh.closed {
		return
	}
	lh.dataQueue <- data{
		timestamp: time.Now(),
		level:     level,
		content:   content,
		traceID:   golocalv1.GetTraceID(),
		position:  file + ":" + strconv.Itoa(line),
	}
}
