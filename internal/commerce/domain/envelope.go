package domain

// Envelope is the response shape of every commerce endpoint.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func OK[T any](data T, message string) Envelope[T] {
	return Envelope[T]{Success: true, Data: &data, Message: message}
}

// Done is a successful envelope without a payload, e.g. after a delete.
func Done(message string) Envelope[struct{}] {
	return Envelope[struct{}]{Success: true, Message: message}
}

func Fail(errMsg string) Envelope[struct{}] {
	return Envelope[struct{}]{Success: false, Error: errMsg}
}
