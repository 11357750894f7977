package source

import "context"

// MockSource returns controllable fixed texts for development and testing.
type MockSource struct {
	Label string
	Texts []string
	Err   error
}

func (m *MockSource) Name() string { return m.Label }

func (m *MockSource) Fetch(_ context.Context) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Texts, nil
}
