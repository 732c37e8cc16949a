package logging_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/latoulicious/umaroster/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// MockLogger implements the Logger interface for testing
type MockLogger struct {
	mu         sync.Mutex
	InfoCalls  []LogCall
	ErrorCalls []ErrorCall
	WarnCalls  []LogCall
	DebugCalls []LogCall
}

type LogCall struct {
	Message string
	Fields  map[string]interface{}
}

type ErrorCall struct {
	Message string
	Error   error
	Fields  map[string]interface{}
}

func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) Info(msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InfoCalls = append(m.InfoCalls, LogCall{Message: msg, Fields: fields})
}

func (m *MockLogger) Error(msg string, err error, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorCalls = append(m.ErrorCalls, ErrorCall{Message: msg, Error: err, Fields: fields})
}

func (m *MockLogger) Warn(msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WarnCalls = append(m.WarnCalls, LogCall{Message: msg, Fields: fields})
}

func (m *MockLogger) Debug(msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DebugCalls = append(m.DebugCalls, LogCall{Message: msg, Fields: fields})
}

// The mock ignores derived context and keeps recording into itself
func (m *MockLogger) WithPipeline(pipeline string) logging.Logger {
	return m
}

func (m *MockLogger) WithContext(ctx map[string]interface{}) logging.Logger {
	return m
}

func (m *MockLogger) errorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ErrorCalls)
}

type recordingRepository struct {
	mu      sync.Mutex
	entries []logging.LogEntry
	err     error
}

func (r *recordingRepository) SaveLog(entry logging.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordingRepository) snapshot() []logging.LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]logging.LogEntry(nil), r.entries...)
}

func TestPipelineLogger_BasicLogging(t *testing.T) {
	baseLogger := NewMockLogger()
	pipelineLogger := logging.NewPipelineLogger(baseLogger, "store")

	pipelineLogger.Info("Roster loaded", map[string]interface{}{
		"count": 12,
	})

	require.Len(t, baseLogger.InfoCalls, 1)
	call := baseLogger.InfoCalls[0]
	assert.Contains(t, call.Message, "[store]")
	assert.Contains(t, call.Message, "Roster loaded")
	assert.Equal(t, "store", call.Fields["pipeline"])
	assert.Equal(t, 12, call.Fields["count"])
}

func TestPipelineLogger_ErrorLogging(t *testing.T) {
	baseLogger := NewMockLogger()
	pipelineLogger := logging.NewPipelineLogger(baseLogger, "commands")

	testError := errors.New("command execution failed")
	pipelineLogger.Error("Command failed", testError, map[string]interface{}{
		"command": "fav",
	})

	require.Len(t, baseLogger.ErrorCalls, 1)
	call := baseLogger.ErrorCalls[0]
	assert.Contains(t, call.Message, "[commands]")
	assert.Same(t, testError, call.Error)
	assert.Equal(t, "commands", call.Fields["pipeline"])
}

func TestPipelineLogger_ContextAndOverrides(t *testing.T) {
	baseLogger := NewMockLogger()
	contextLogger := logging.NewPipelineLogger(baseLogger, "store").WithContext(map[string]interface{}{
		"resource":   "roster",
		"generation": uint64(1),
	})

	contextLogger.Warn("Stale result discarded", map[string]interface{}{
		"generation": uint64(2),
	})

	require.Len(t, baseLogger.WarnCalls, 1)
	fields := baseLogger.WarnCalls[0].Fields
	assert.Equal(t, "roster", fields["resource"])
	assert.Equal(t, uint64(2), fields["generation"], "provided fields override context")
	assert.Equal(t, "store", fields["pipeline"])
}

func TestPipelineLogger_WithPipeline(t *testing.T) {
	baseLogger := NewMockLogger()
	renamed := logging.NewPipelineLogger(baseLogger, "store").WithPipeline("gateway")

	renamed.Debug("Fetching", nil)

	require.Len(t, baseLogger.DebugCalls, 1)
	assert.Contains(t, baseLogger.DebugCalls[0].Message, "[gateway]")
	assert.Equal(t, "gateway", baseLogger.DebugCalls[0].Fields["pipeline"])
}

func TestStoreLogger_AddsResourceAndIDs(t *testing.T) {
	baseLogger := NewMockLogger()
	storeLogger := logging.NewStoreLogger(baseLogger, "favourites")

	storeLogger.WithUmamusume(7).Info("Favourite toggled", nil)
	storeLogger.WithGeneration(3).Info("Load committed", nil)

	require.Len(t, baseLogger.InfoCalls, 2)
	assert.Equal(t, "favourites", baseLogger.InfoCalls[0].Fields["resource"])
	assert.Equal(t, 7, baseLogger.InfoCalls[0].Fields["umamusume_id"])
	assert.Equal(t, uint64(3), baseLogger.InfoCalls[1].Fields["generation"])
}

func TestCommandLogger_WithInteraction(t *testing.T) {
	baseLogger := NewMockLogger()
	commandLogger := logging.NewCommandLogger(baseLogger, "roster")

	commandLogger.WithInteraction("guild-1", "user-1", "channel-1").Info("Command executed", nil)

	require.Len(t, baseLogger.InfoCalls, 1)
	fields := baseLogger.InfoCalls[0].Fields
	assert.Equal(t, "roster", fields["command"])
	assert.Equal(t, "guild-1", fields["guild_id"])
	assert.Equal(t, "user-1", fields["user_id"])
	assert.Equal(t, "channel-1", fields["channel_id"])
}

func TestZapLogger_WritesComponentPrefixAndFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := logging.NewZapLoggerFrom(zap.New(core), "gateway")

	logger.WithContext(map[string]interface{}{"url": "https://example.test"}).
		Error("Fetch failed", errors.New("boom"), map[string]interface{}{"status": 502})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "[gateway] Fetch failed", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "https://example.test", fields["url"])
	assert.EqualValues(t, 502, fields["status"])
	assert.Equal(t, "boom", fields["error"])
}

func TestNewZapLoggerWithOptions_RejectsBadLevel(t *testing.T) {
	_, err := logging.NewZapLoggerWithOptions("x", logging.Options{Level: "loud", Format: "json"})
	assert.Error(t, err)

	logger, err := logging.NewZapLoggerWithOptions("x", logging.Options{Level: "debug", Format: "text"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestLoggerFactory_CachesPerComponent(t *testing.T) {
	factory := logging.NewLoggerFactory()

	first := factory.CreateLogger("store")
	second := factory.CreateLogger("store")
	other := factory.CreateLogger("gateway")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
}

func TestDatabaseLogger_PersistsEntries(t *testing.T) {
	base := NewMockLogger()
	repo := &recordingRepository{}
	dbLogger := logging.NewDatabaseLogger(base, "store", repo)

	dbLogger.WithContext(map[string]interface{}{"umamusume_id": 4}).
		Error("Favourite write failed", errors.New("disk full"), map[string]interface{}{
			"user_id": "u-1",
		})
	dbLogger.Wait()

	entries := repo.snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, "store", entries[0].Component)
	assert.Equal(t, "ERROR", entries[0].Level)
	assert.Equal(t, "disk full", entries[0].Error)
	assert.Equal(t, 4, entries[0].UmamusumeID)
	assert.Equal(t, "u-1", entries[0].UserID)
	assert.Len(t, base.ErrorCalls, 1)
}

func TestDatabaseLogger_SaveFailureGoesToBaseOnly(t *testing.T) {
	base := NewMockLogger()
	repo := &recordingRepository{err: errors.New("db down")}
	dbLogger := logging.NewDatabaseLogger(base, "store", repo)

	dbLogger.Info("Roster loaded", nil)
	dbLogger.Wait()

	assert.Empty(t, repo.snapshot())
	assert.Equal(t, 1, base.errorCount())
}

func TestGlobalLoggerFactory_Override(t *testing.T) {
	original := logging.GetGlobalLoggerFactory()
	defer logging.SetGlobalLoggerFactory(original)

	custom := logging.NewLoggerFactoryWithOptions(logging.Options{Level: "warn", Format: "json"})
	logging.SetGlobalLoggerFactory(custom)

	assert.Same(t, custom, logging.GetGlobalLoggerFactory())
}
