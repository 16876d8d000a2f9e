// internal/summarizer/summarizer.go
package summarizer

import "context"

// Summarizer produces a short abstract of a blog post. Summaries are
// best-effort: callers treat errors as per-result warnings, never as
// failures of the result itself.
type Summarizer interface {
	Summarize(ctx context.Context, title, text string) (string, error)
}
