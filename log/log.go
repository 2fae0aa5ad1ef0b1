package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	appDirName  = ".carousel"
	logBaseName = "carousel.log"
	logFlags    = log.Ldate | log.Ltime | log.Lshortfile
)

var (
	WarningLog *log.Logger
	InfoLog    *log.Logger
	ErrorLog   *log.Logger

	// globalConfig is set by Initialize.
	globalConfig *LogConfig

	carouselLoggers   map[string]*CarouselLoggers
	carouselLoggersMu sync.Mutex

	globalLogFile io.Closer
	// logFileName is where the global log goes; Close reports it.
	logFileName = filepath.Join(os.TempDir(), logBaseName)
)

// LogConfig selects where logs go and how they rotate. Sizes are in
// megabytes, ages in days.
type LogConfig struct {
	LogsEnabled     bool
	LogsDir         string
	LogMaxSize      int
	LogMaxFiles     int
	LogMaxAge       int
	LogCompress     bool
	UseCarouselLogs bool
}

func DefaultLogConfig() *LogConfig {
	return &LogConfig{
		LogsEnabled: true,
		LogMaxSize:  10,
		LogMaxFiles: 5,
		LogMaxAge:   30,
		LogCompress: true,
	}
}

// GetConfigDir is ~/.carousel.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, appDirName), nil
}

// GetLogDir resolves the log directory: the temp dir when logging is off, the
// configured dir, or ~/.carousel/logs, created on demand.
func GetLogDir(cfg *LogConfig) (string, error) {
	switch {
	case cfg != nil && !cfg.LogsEnabled:
		return os.TempDir(), nil
	case cfg != nil && cfg.LogsDir != "":
		return cfg.LogsDir, nil
	}

	configDir, err := GetConfigDir()
	if err != nil {
		return os.TempDir(), fmt.Errorf("failed to get config directory: %w", err)
	}
	dir := filepath.Join(configDir, "logs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return os.TempDir(), fmt.Errorf("failed to create log directory: %w", err)
	}
	return dir, nil
}

func GetLogFilePath(cfg *LogConfig) (string, error) {
	dir, err := GetLogDir(cfg)
	if err != nil {
		return logFileName, err
	}
	return filepath.Join(dir, logBaseName), nil
}

// GetCarouselLogFilePath is the log file of one named carousel. Characters
// outside [A-Za-z0-9_-] in the name become dashes.
func GetCarouselLogFilePath(cfg *LogConfig, name string) (string, error) {
	dir, err := GetLogDir(cfg)
	if err != nil {
		return "", err
	}
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, name)
	return filepath.Join(dir, "carousel_"+safe+".log"), nil
}

// CarouselLoggers write to one carousel's own log file.
type CarouselLoggers struct {
	WarningLog *log.Logger
	InfoLog    *log.Logger
	ErrorLog   *log.Logger
	LogFile    io.Closer
}

// ForCarousel returns the loggers of a named carousel, opening its file on
// first use. It returns nil, nil when per-carousel logs are off.
func ForCarousel(name string) (*CarouselLoggers, error) {
	carouselLoggersMu.Lock()
	defer carouselLoggersMu.Unlock()

	if loggers, ok := carouselLoggers[name]; ok {
		return loggers, nil
	}
	if globalConfig == nil || !globalConfig.UseCarouselLogs {
		return nil, nil
	}

	path, err := GetCarouselLogFilePath(globalConfig, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get carousel log file path: %w", err)
	}
	w := createRotatingWriter(path, globalConfig)
	loggers := &CarouselLoggers{
		InfoLog:    log.New(w, "["+name+"] INFO: ", logFlags),
		WarningLog: log.New(w, "["+name+"] WARNING: ", logFlags),
		ErrorLog:   log.New(w, "["+name+"] ERROR: ", logFlags),
	}
	if c, ok := w.(io.Closer); ok {
		loggers.LogFile = c
	}
	carouselLoggers[name] = loggers
	return loggers, nil
}

// LogFor writes to the global log with a "[name] " prefix, and also to the
// carousel's own file when per-carousel logs are on. Unknown levels are
// dropped.
func LogFor(name, level, format string, v ...interface{}) {
	loggers, err := ForCarousel(name)
	if err != nil {
		ErrorLog.Printf("failed to get carousel loggers for %s: %v", name, err)
	}

	var global, own *log.Logger
	switch level {
	case "info":
		global = InfoLog
		if loggers != nil {
			own = loggers.InfoLog
		}
	case "warning":
		global = WarningLog
		if loggers != nil {
			own = loggers.WarningLog
		}
	case "error":
		global = ErrorLog
		if loggers != nil {
			own = loggers.ErrorLog
		}
	default:
		return
	}

	global.Printf("["+name+"] "+format, v...)
	if own != nil {
		own.Printf(format, v...)
	}
}

func init() {
	carouselLoggers = make(map[string]*CarouselLoggers)

	// Stderr until Initialize runs.
	InfoLog = log.New(os.Stderr, "INFO: ", log.Ldate|log.Ltime)
	WarningLog = log.New(os.Stderr, "WARNING: ", log.Ldate|log.Ltime)
	ErrorLog = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime)
}

// Initialize points the loggers at the configured log file. A nil config
// means DefaultLogConfig. Call Close when done.
func Initialize(cfg *LogConfig) {
	if cfg == nil {
		cfg = DefaultLogConfig()
	}
	globalConfig = cfg

	path, err := GetLogFilePath(cfg)
	if err != nil {
		fmt.Printf("Warning: Using default log file location due to error: %v\n", err)
		path = logFileName
	}
	w := createRotatingWriter(path, cfg)

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	InfoLog = log.New(w, "INFO:", logFlags)
	WarningLog = log.New(w, "WARNING:", logFlags)
	ErrorLog = log.New(w, "ERROR:", logFlags)

	if c, ok := w.(io.Closer); ok {
		globalLogFile = c
	}
	logFileName = path
}

// createRotatingWriter opens path through lumberjack when a max size is
// configured, as a plain append-only file otherwise. If the file cannot be
// opened it falls back to stderr.
func createRotatingWriter(path string, cfg *LogConfig) io.Writer {
	if cfg != nil && cfg.LogMaxSize > 0 {
		return &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.LogMaxSize,
			MaxBackups: cfg.LogMaxFiles,
			MaxAge:     cfg.LogMaxAge,
			Compress:   cfg.LogCompress,
			LocalTime:  true,
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "could not create log directory: %v\n", err)
		return os.Stderr
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not open log file: %v\n", err)
		return os.Stderr
	}
	return f
}

// Close closes the global and per-carousel log files.
func Close() {
	if globalLogFile != nil {
		_ = globalLogFile.Close()
		globalLogFile = nil
	}

	carouselLoggersMu.Lock()
	for name, loggers := range carouselLoggers {
		if loggers.LogFile != nil {
			_ = loggers.LogFile.Close()
		}
		delete(carouselLoggers, name)
	}
	carouselLoggersMu.Unlock()

	fmt.Println("wrote logs to " + logFileName)
}

// Every rate limits a log line to once per timeout.
type Every struct {
	timeout time.Duration
	mu      sync.Mutex
	last    time.Time
}

func NewEvery(timeout time.Duration) *Every {
	return &Every{timeout: timeout}
}

// ShouldLog reports whether timeout has passed since it last returned true.
func (e *Every) ShouldLog() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now()
	if !e.last.IsZero() && now.Sub(e.last) < e.timeout {
		return false
	}
	e.last = now
	return true
}
