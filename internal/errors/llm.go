package errors

import "net/http"

var ErrLLMDisabled = &Exception{
	Message:    "LLM integration is not configured",
	StatusCode: http.StatusServiceUnavailable,
}

var ErrLLMBusy = &Exception{
	Message:    "too many LLM requests in flight, try again shortly",
	StatusCode: http.StatusServiceUnavailable,
}

var ErrLLMBadOutput = &Exception{
	Message:    "LLM returned an unusable breakdown",
	StatusCode: http.StatusBadGateway,
}

var ErrGoalRequired = &Exception{
	Message:    "goal is required",
	StatusCode: http.StatusBadRequest,
}

var ErrLLMUpstream = &Exception{
	Message:    "LLM request failed",
	StatusCode: http.StatusBadGateway,
}
