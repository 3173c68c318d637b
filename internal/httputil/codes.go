package httputil

// Machine-readable error codes returned in ErrorResponse.Code.
const (
	CodeInternalError      = "internal_error"
	CodeInvalidRequestBody = "invalid_request_body"
	CodeValidationFailed   = "validation_failed"
	CodeTooManyRequests    = "too_many_requests"
	CodeRouteNotFound      = "route_not_found"
	CodeMethodNotAllowed   = "method_not_allowed"

	CodeAccessDenied       = "access_denied"
	CodeEmailAlreadyExists = "email_already_exists"

	CodeCourseNotFound = "course_not_found"
	CodeNotCourseOwner = "not_course_owner"
)
