package logging

import (
	"sync"
)

// DatabaseLogger wraps a base logger with database persistence
type DatabaseLogger struct {
	base       Logger
	component  string
	context    map[string]interface{}
	repository LogRepository
	pending    *sync.WaitGroup
}

// NewDatabaseLogger creates a new database-backed logger
func NewDatabaseLogger(base Logger, component string, repository LogRepository) *DatabaseLogger {
	return &DatabaseLogger{
		base:       base,
		component:  component,
		context:    make(map[string]interface{}),
		repository: repository,
		pending:    &sync.WaitGroup{},
	}
}

// Info logs informational messages and persists to database
func (d *DatabaseLogger) Info(msg string, fields map[string]interface{}) {
	d.base.Info(msg, fields)
	d.persistLog("INFO", msg, nil, fields)
}

// Error logs error messages and persists to database
func (d *DatabaseLogger) Error(msg string, err error, fields map[string]interface{}) {
	d.base.Error(msg, err, fields)
	d.persistLog("ERROR", msg, err, fields)
}

// Warn logs warning messages and persists to database
func (d *DatabaseLogger) Warn(msg string, fields map[string]interface{}) {
	d.base.Warn(msg, fields)
	d.persistLog("WARN", msg, nil, fields)
}

// Debug logs debug messages and persists to database
func (d *DatabaseLogger) Debug(msg string, fields map[string]interface{}) {
	d.base.Debug(msg, fields)
	d.persistLog("DEBUG", msg, nil, fields)
}

// WithPipeline creates a new logger with pipeline context
func (d *DatabaseLogger) WithPipeline(pipeline string) Logger {
	return d.derive(d.base.WithPipeline(pipeline), map[string]interface{}{"pipeline": pipeline})
}

// WithContext creates a new logger with additional context fields
func (d *DatabaseLogger) WithContext(ctx map[string]interface{}) Logger {
	return d.derive(d.base.WithContext(ctx), ctx)
}

// Wait blocks until every in-flight persistence call has returned
func (d *DatabaseLogger) Wait() {
	d.pending.Wait()
}

func (d *DatabaseLogger) derive(base Logger, ctx map[string]interface{}) *DatabaseLogger {
	newContext := make(map[string]interface{}, len(d.context)+len(ctx))
	for k, v := range d.context {
		newContext[k] = v
	}
	for k, v := range ctx {
		newContext[k] = v
	}

	return &DatabaseLogger{
		base:       base,
		component:  d.component,
		context:    newContext,
		repository: d.repository,
		pending:    d.pending,
	}
}

// persistLog saves the log entry to the database without blocking the caller
func (d *DatabaseLogger) persistLog(level, message string, err error, fields map[string]interface{}) {
	if d.repository == nil {
		return
	}

	allFields := make(map[string]interface{}, len(d.context)+len(fields))
	for k, v := range d.context {
		allFields[k] = v
	}
	for k, v := range fields {
		allFields[k] = v
	}

	entry := LogEntry{
		Component: d.component,
		Level:     level,
		Message:   message,
		Fields:    allFields,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	// Extract common fields
	if component, ok := allFields["component"].(string); ok {
		entry.Component = component
	}
	if id, ok := allFields["umamusume_id"].(int); ok {
		entry.UmamusumeID = id
	}
	if userID, ok := allFields["user_id"].(string); ok {
		entry.UserID = userID
	}
	if channelID, ok := allFields["channel_id"].(string); ok {
		entry.ChannelID = channelID
	}

	d.pending.Add(1)
	go func() {
		defer d.pending.Done()
		if saveErr := d.repository.SaveLog(entry); saveErr != nil {
			// Base logger only, to avoid recursion
			d.base.Error("Failed to persist log to database", saveErr, map[string]interface{}{
				"original_message": message,
				"original_level":   level,
			})
		}
	}()
}
