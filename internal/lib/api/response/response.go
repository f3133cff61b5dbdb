package response

type Response struct {
	Data    interface{} `json:"data,omitempty"`
	Success bool        `json:"success" validate:"required"`
	Message string      `json:"status_message,omitempty"`
}

func Ok(data interface{}) Response {
	return Response{
		Data:    data,
		Success: true,
		Message: "Success",
	}
}

func Error(message string) Response {
	return Response{
		Success: false,
		Message: message,
	}
}

// ErrorWith carries a payload next to the message, e.g. inline field errors.
func ErrorWith(message string, data interface{}) Response {
	return Response{
		Data:    data,
		Success: false,
		Message: message,
	}
}
