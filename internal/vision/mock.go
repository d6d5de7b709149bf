package vision

import (
	"context"
	"sync"
)

// MockClient is a test implementation of the Client interface.
// It allows tests to control the reply and error for each call.
type MockClient struct {
	mu       sync.Mutex
	reply    string
	err      error
	readyErr error
	model    string
	calls    int
	lastJPEG []byte
}

// NewMockClient creates a new MockClient instance.
func NewMockClient() *MockClient {
	return &MockClient{model: DefaultModel}
}

// Model returns the configured model identifier.
func (m *MockClient) Model() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.model
}

// SetModel changes the model identifier. An empty model is ignored.
func (m *MockClient) SetModel(model string) {
	if model == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.model = model
}

// SetReply sets the text returned by Interpret and Probe.
func (m *MockClient) SetReply(reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reply = reply
}

// SetError sets the error returned by Interpret and Probe.
func (m *MockClient) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetReadyError sets the error returned by Ready.
func (m *MockClient) SetReadyError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readyErr = err
}

// Calls returns how many Interpret/Probe calls were made.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastJPEG returns the payload of the most recent Interpret call.
func (m *MockClient) LastJPEG() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastJPEG
}

// Ready returns the pre-configured readiness error.
func (m *MockClient) Ready() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readyErr
}

// Interpret returns the pre-configured reply or error.
func (m *MockClient) Interpret(ctx context.Context, jpeg []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastJPEG = jpeg
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

// Probe returns the pre-configured reply or error.
func (m *MockClient) Probe(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}
