package http

const (
	CodeMethodNotAllowed     = "METHOD_NOT_ALLOWED"
	CodeNotFound             = "NOT_FOUND"
	CodeInvalidJSON          = "INVALID_JSON"
	CodeInvalidForm          = "INVALID_FORM"
	CodeInvalidQuery         = "INVALID_QUERY"
	CodeBodyTooLarge         = "BODY_TOO_LARGE"
	CodeMissingAuthorization = "MISSING_AUTHORIZATION"
	CodeInvalidToken         = "INVALID_TOKEN"
	CodeInternal             = "INTERNAL_ERROR"
)
