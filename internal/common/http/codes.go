package http

const (
	CodeUnknown          = "UNKNOWN"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeInvalidJSON      = "INVALID_JSON"
	CodeInvalidPath      = "INVALID_PATH"
	CodeValidationFailed = "VALIDATION_FAILED"
)
