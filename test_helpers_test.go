package reqheaders

import (
	"context"
	"sync"
)

// recordingLogger captures warning calls for assertions.
type recordingLogger struct {
	mu    sync.Mutex
	calls []loggedWarning
}

type loggedWarning struct {
	msg   string
	attrs []any
}

func (l *recordingLogger) WarnContext(_ context.Context, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, loggedWarning{msg: msg, attrs: args})
}

func (l *recordingLogger) warnings() []loggedWarning {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]loggedWarning(nil), l.calls...)
}

func (l *recordingLogger) attrValue(call loggedWarning, key string) (any, bool) {
	for i := 0; i+1 < len(call.attrs); i += 2 {
		if call.attrs[i] == key {
			return call.attrs[i+1], true
		}
	}
	return nil, false
}

// recordingMetrics captures metric calls for assertions.
type recordingMetrics struct {
	mu             sync.Mutex
	successes      map[string]int
	absences       map[string]int
	securityEvents map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		successes:      make(map[string]int),
		absences:       make(map[string]int),
		securityEvents: make(map[string]int),
	}
}

func (m *recordingMetrics) RecordDerivationSuccess(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.successes[source]++
}

func (m *recordingMetrics) RecordDerivationAbsent(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.absences[source]++
}

func (m *recordingMetrics) RecordSecurityEvent(event string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.securityEvents[event]++
}

func (m *recordingMetrics) successCount(source string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.successes[source]
}

func (m *recordingMetrics) absentCount(source string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.absences[source]
}

func (m *recordingMetrics) securityEventCount(event string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.securityEvents[event]
}
