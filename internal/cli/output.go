package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case SignupResult:
		_, _ = fmt.Fprintln(o.w, v.Message)
	case CompareResult:
		_, _ = fmt.Fprintf(o.w, "Similarity: %.4f\n", v.Similarity)
		_, _ = fmt.Fprintf(o.w, "Tokens remaining: %d\n", v.TokensRemaining)
	case RefillResult:
		_, _ = fmt.Fprintln(o.w, v.Message)
		_, _ = fmt.Fprintf(o.w, "Current tokens: %d\n", v.CurrentTokens)
	case HealthResult:
		_, _ = fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// SignupResult response type (matches API)
type SignupResult struct {
	StatusCode int    `json:"Status code"`
	Message    string `json:"Message"`
}

// CompareResult response type
type CompareResult struct {
	StatusCode      int     `json:"Status code"`
	Message         string  `json:"Message"`
	Similarity      float64 `json:"Similarity value"`
	TokensRemaining int     `json:"Tokens remaining"`
}

// RefillResult response type
type RefillResult struct {
	StatusCode    int    `json:"Status code"`
	Message       string `json:"Message"`
	CurrentTokens int    `json:"Current token amount"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}
