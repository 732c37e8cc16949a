package logging

import (
	"fmt"
)

// PipelineLogger wraps a base logger with pipeline-specific context
type PipelineLogger struct {
	base     Logger
	pipeline string
	context  map[string]interface{}
}

// NewPipelineLogger creates a new pipeline-specific logger
func NewPipelineLogger(base Logger, pipeline string) *PipelineLogger {
	return &PipelineLogger{
		base:     base,
		pipeline: pipeline,
		context:  make(map[string]interface{}),
	}
}

// Info logs informational messages with pipeline context
func (p *PipelineLogger) Info(msg string, fields map[string]interface{}) {
	p.base.Info(p.prefix(msg), p.enrichFields(fields))
}

// Error logs error messages with pipeline context
func (p *PipelineLogger) Error(msg string, err error, fields map[string]interface{}) {
	p.base.Error(p.prefix(msg), err, p.enrichFields(fields))
}

// Warn logs warning messages with pipeline context
func (p *PipelineLogger) Warn(msg string, fields map[string]interface{}) {
	p.base.Warn(p.prefix(msg), p.enrichFields(fields))
}

// Debug logs debug messages with pipeline context
func (p *PipelineLogger) Debug(msg string, fields map[string]interface{}) {
	p.base.Debug(p.prefix(msg), p.enrichFields(fields))
}

// WithPipeline creates a new logger with updated pipeline context
func (p *PipelineLogger) WithPipeline(pipeline string) Logger {
	return &PipelineLogger{
		base:     p.base,
		pipeline: pipeline,
		context:  p.copyContext(),
	}
}

// WithContext creates a new logger with additional context fields
func (p *PipelineLogger) WithContext(ctx map[string]interface{}) Logger {
	newContext := p.copyContext()
	for k, v := range ctx {
		newContext[k] = v
	}

	return &PipelineLogger{
		base:     p.base,
		pipeline: p.pipeline,
		context:  newContext,
	}
}

func (p *PipelineLogger) prefix(msg string) string {
	return fmt.Sprintf("[%s] %s", p.pipeline, msg)
}

// enrichFields combines pipeline context with provided fields
func (p *PipelineLogger) enrichFields(fields map[string]interface{}) map[string]interface{} {
	enriched := make(map[string]interface{}, len(p.context)+len(fields)+1)

	for k, v := range p.context {
		enriched[k] = v
	}

	// Provided fields can override context
	for k, v := range fields {
		enriched[k] = v
	}

	enriched["pipeline"] = p.pipeline

	return enriched
}

func (p *PipelineLogger) copyContext() map[string]interface{} {
	newContext := make(map[string]interface{}, len(p.context))
	for k, v := range p.context {
		newContext[k] = v
	}
	return newContext
}

// StoreLogger is a pipeline logger for one roster store sub-resource
type StoreLogger struct {
	*PipelineLogger
	resource string
}

// NewStoreLogger creates a logger tagged with the resource it serves
func NewStoreLogger(base Logger, resource string) *StoreLogger {
	pipelineLogger := NewPipelineLogger(base, "store")

	return &StoreLogger{
		PipelineLogger: pipelineLogger.WithContext(map[string]interface{}{
			"resource": resource,
		}).(*PipelineLogger),
		resource: resource,
	}
}

// WithGeneration adds the load generation to the store logger
func (s *StoreLogger) WithGeneration(generation uint64) Logger {
	return s.WithContext(map[string]interface{}{
		"generation": generation,
	})
}

// WithUmamusume adds roster id context to the store logger
func (s *StoreLogger) WithUmamusume(id int) Logger {
	return s.WithContext(map[string]interface{}{
		"umamusume_id": id,
	})
}

// CommandLogger creates a logger specifically for Discord command operations
type CommandLogger struct {
	*PipelineLogger
	commandName string
}

// NewCommandLogger creates a new command logger
func NewCommandLogger(base Logger, commandName string) *CommandLogger {
	pipelineLogger := NewPipelineLogger(base, "commands")

	return &CommandLogger{
		PipelineLogger: pipelineLogger.WithContext(map[string]interface{}{
			"command": commandName,
		}).(*PipelineLogger),
		commandName: commandName,
	}
}

// WithInteraction adds Discord interaction context to the command logger
func (c *CommandLogger) WithInteraction(guildID, userID, channelID string) Logger {
	return c.WithContext(map[string]interface{}{
		"guild_id":   guildID,
		"user_id":    userID,
		"channel_id": channelID,
	})
}
