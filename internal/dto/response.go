package dto

// Envelope is the body of every API response.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func OK(data any) Envelope {
	return Envelope{Code: CodeSuccess, Message: Message(CodeSuccess), Data: data}
}

func Fail(code int) Envelope {
	return Envelope{Code: code, Message: Message(code)}
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Store     string `json:"store"`
}
