package llm

import "github.com/pkoukk/tiktoken-go"

// Counter counts and truncates prompt tokens. It prefers a tiktoken
// encoding and degrades to a chars/4 estimate when the encoding is
// unavailable (e.g. offline BPE download).
type Counter struct {
	enc *tiktoken.Tiktoken
}

// NewCounter creates a counter on the cl100k_base encoding.
func NewCounter() *Counter {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return &Counter{}
	}
	return &Counter{enc: enc}
}

// Count returns the token count of text.
func (c *Counter) Count(text string) int {
	if c.enc != nil {
		return len(c.enc.Encode(text, nil, nil))
	}
	n := len(text) / 4
	if n < 1 && len(text) > 0 {
		n = 1
	}
	return n
}

// Truncate cuts text down to at most budget tokens. A budget of zero or
// less disables truncation.
func (c *Counter) Truncate(text string, budget int) string {
	if budget <= 0 {
		return text
	}
	if c.enc != nil {
		tokens := c.enc.Encode(text, nil, nil)
		if len(tokens) <= budget {
			return text
		}
		return c.enc.Decode(tokens[:budget])
	}
	limit := budget * 4
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
