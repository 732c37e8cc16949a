package logging

import (
	"fmt"
	"sync"
)

// DefaultLoggerFactory implements LoggerFactory using zap loggers
type DefaultLoggerFactory struct {
	loggers map[string]Logger
	options Options
	mu      sync.RWMutex
}

// NewLoggerFactory creates a new logger factory with default options
func NewLoggerFactory() LoggerFactory {
	return NewLoggerFactoryWithOptions(DefaultOptions())
}

// NewLoggerFactoryWithOptions creates a logger factory for the given level and format
func NewLoggerFactoryWithOptions(opts Options) LoggerFactory {
	return &DefaultLoggerFactory{
		loggers: make(map[string]Logger),
		options: opts,
	}
}

// CreateLogger creates a basic logger for the specified component
func (f *DefaultLoggerFactory) CreateLogger(component string) Logger {
	f.mu.Lock()
	defer f.mu.Unlock()

	if logger, exists := f.loggers[component]; exists {
		return logger
	}

	zapLogger, err := NewZapLoggerWithOptions(component, f.options)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger for component %s: %v", component, err))
	}

	f.loggers[component] = zapLogger
	return zapLogger
}

// CreateStoreLogger creates a logger for roster store operations on one resource
func (f *DefaultLoggerFactory) CreateStoreLogger(resource string) Logger {
	return NewStoreLogger(f.CreateLogger("store"), resource)
}

// CreateCommandLogger creates a logger for Discord command operations
func (f *DefaultLoggerFactory) CreateCommandLogger(commandName string) Logger {
	return NewCommandLogger(f.CreateLogger("commands"), commandName)
}

// DatabaseLoggerFactory extends the default factory with database persistence
type DatabaseLoggerFactory struct {
	*DefaultLoggerFactory
	repository LogRepository
}

// NewDatabaseLoggerFactory creates a logger factory with database persistence
func NewDatabaseLoggerFactory(repository LogRepository, opts Options) LoggerFactory {
	return &DatabaseLoggerFactory{
		DefaultLoggerFactory: &DefaultLoggerFactory{
			loggers: make(map[string]Logger),
			options: opts,
		},
		repository: repository,
	}
}

// CreateLogger creates a database-backed logger for the specified component
func (f *DatabaseLoggerFactory) CreateLogger(component string) Logger {
	f.mu.Lock()
	defer f.mu.Unlock()

	if logger, exists := f.loggers[component]; exists {
		return logger
	}

	baseLogger, err := NewZapLoggerWithOptions(component, f.options)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger for component %s: %v", component, err))
	}

	dbLogger := NewDatabaseLogger(baseLogger, component, f.repository)
	f.loggers[component] = dbLogger
	return dbLogger
}

// CreateStoreLogger creates a database-backed store logger
func (f *DatabaseLoggerFactory) CreateStoreLogger(resource string) Logger {
	return NewStoreLogger(f.CreateLogger("store"), resource)
}

// CreateCommandLogger creates a database-backed command logger
func (f *DatabaseLoggerFactory) CreateCommandLogger(commandName string) Logger {
	return NewCommandLogger(f.CreateLogger("commands"), commandName)
}

// GlobalLoggerFactory provides a singleton logger factory instance
var (
	globalFactory LoggerFactory
	globalMu      sync.RWMutex
)

// GetGlobalLoggerFactory returns the global logger factory instance
func GetGlobalLoggerFactory() LoggerFactory {
	globalMu.RLock()
	factory := globalFactory
	globalMu.RUnlock()
	if factory != nil {
		return factory
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalFactory == nil {
		globalFactory = NewLoggerFactory()
	}
	return globalFactory
}

// SetGlobalLoggerFactory sets the global logger factory (useful for dependency injection)
func SetGlobalLoggerFactory(factory LoggerFactory) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalFactory = factory
}
