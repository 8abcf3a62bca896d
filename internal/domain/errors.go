package domain

import "fmt"

// InvalidAddressError is returned when a contract address is malformed.
type InvalidAddressError struct {
	Address string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid contract address: %q", e.Address)
}

// NetworkError reports a failure to reach an upstream service or a non-success HTTP status.
type NetworkError struct {
	Service    string
	StatusCode int    // 0 when the request never got a response
	Body       string // raw response body, if any
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API request failed: %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s API request failed: %v", e.Service, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// UpstreamError reports a logical failure returned inside a successful HTTP response.
type UpstreamError struct {
	Service string
	Message string
	Detail  string
}

func (e *UpstreamError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "Unknown error"
	}
	if e.Detail != "" && e.Detail != msg {
		return fmt.Sprintf("%s API error: %s (%s)", e.Service, msg, e.Detail)
	}
	return fmt.Sprintf("%s API error: %s", e.Service, msg)
}

// AnalysisError is returned when the report could not be produced.
type AnalysisError struct {
	Reason string
	Err    error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("analysis failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("analysis failed: %s", e.Reason)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}
