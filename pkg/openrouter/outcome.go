package openrouter

import "math"

// Usage is the accounting reported by OpenRouter for one call.
type Usage struct {
	Cost             float64
	PromptTokens     int64
	CompletionTokens int64
	CachedTokens     int64
	TotalTokens      int64
}

// Outcome is the result of a completion: Success, HTTPError, or TransportError.
type Outcome interface {
	outcome()
}

// Success carries the model's reply.
type Success struct {
	Usage   Usage
	Content string
}

// HTTPError is a non-2xx response. Usage is whatever the error body reported.
type HTTPError struct {
	Status int
	Usage  Usage
}

// TransportError is a failure to obtain or decode a response.
type TransportError struct {
	Cause error
}

func (Success) outcome()        {}
func (HTTPError) outcome()      {}
func (TransportError) outcome() {}

// UsageOf returns the usage carried by o, or zero usage for TransportError.
func UsageOf(o Outcome) Usage {
	switch v := o.(type) {
	case Success:
		return v.Usage
	case HTTPError:
		return v.Usage
	}
	return Usage{}
}

// DeriveUsage reads the usage object from a decoded response body.
// Missing, null, non-numeric, and non-finite values are reported as zero.
func DeriveUsage(payload map[string]any) Usage {
	usage, ok := payload["usage"].(map[string]any)
	if !ok {
		return Usage{}
	}

	var cached float64
	if details, ok := usage["prompt_tokens_details"].(map[string]any); ok {
		cached = finite(details["cached_tokens"])
	}

	return Usage{
		Cost:             finite(usage["cost"]),
		PromptTokens:     int64(finite(usage["prompt_tokens"])),
		CompletionTokens: int64(finite(usage["completion_tokens"])),
		CachedTokens:     int64(cached),
		TotalTokens:      int64(finite(usage["total_tokens"])),
	}
}

func finite(v any) float64 {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
