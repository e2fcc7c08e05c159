package core

import "context"

// TextGenerator produces raw text from a prompt. Implementations are
// not trusted to return pure JSON; callers must extract and validate.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// FigureRenderer renders chart images for answer figures. Both methods
// return a base64-encoded PNG; an empty string means "no figure".
type FigureRenderer interface {
	RenderSeries(variable, unit string, values []float64) (string, error)
	RenderAggregate(variable, unit string, mean, iqr []float64) (string, error)
}

// AnswerWriter assembles a StructuredAnswer from a plan and its execute
// result. Implementations must never fail: absent data becomes empty
// collections and template sentences.
type AnswerWriter interface {
	Write(ctx context.Context, req WriteRequest) StructuredAnswer
}

// WriteRequest is the full input of one answer assembly.
type WriteRequest struct {
	Place    string
	TimeMode TimeMode
	Plan     Plan
	Result   ExecuteResult
}
