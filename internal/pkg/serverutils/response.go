package serverutils

type Response[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

type ErrorBody struct {
	Errors []string `json:"errors"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(messages ...string) ErrorBody {
	if len(messages) == 0 {
		messages = []string{}
	}
	return ErrorBody{Errors: messages}
}
