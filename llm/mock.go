package llm

import "context"

// Mock is a canned TextGenerator for tests and offline runs.
type Mock struct {
	Response string
	Err      error

	// Prompts records every prompt seen, for assertions.
	Prompts []string
}

// NewMock returns a mock that answers with a fixed schema-valid JSON
// body, so mock-mode service runs still produce a full answer.
func NewMock() *Mock {
	return &Mock{Response: `{"title":"Mock answer","answer":"Point conditions summarized from hourly/current series.","key_numbers":[],"figures":[],"method":"mock","citations":[],"limitations":[],"suggested_followups":[]}`}
}

// Generate implements core.TextGenerator.
func (m *Mock) Generate(ctx context.Context, system, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
