package response

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Pagination describes the page returned by a list endpoint
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// SuccessWithMessage returns a success response carrying a human-readable message
func SuccessWithMessage(statusCode int, message string, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
	}
}

// SuccessWithPagination returns a success response for one page of a list
func SuccessWithPagination(statusCode int, data interface{}, page, limit int, total int64) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
		Pagination: &Pagination{Page: page, Limit: limit, Total: total},
	}
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}
