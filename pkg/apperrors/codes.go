package apperrors

// ErrorCode is a stable machine-readable error identifier. Clients key
// remediation UI off these values, so they never change once shipped.
type ErrorCode string

const (
	// System
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Generic business logic
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeLimitExceeded    ErrorCode = "LIMIT_EXCEEDED"

	// Authentication / authorization
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	// Application lifecycle
	CodeNotStarted         ErrorCode = "NOT_STARTED"
	CodeNotEditable        ErrorCode = "NOT_EDITABLE"
	CodeIncomplete         ErrorCode = "INCOMPLETE"
	CodeCannotReapply      ErrorCode = "CANNOT_REAPPLY"
	CodeProofMissing       ErrorCode = "PROOF_MISSING"
	CodeProofNotFound      ErrorCode = "PROOF_NOT_FOUND"
	CodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
	CodePaymentNotVerified ErrorCode = "PAYMENT_NOT_VERIFIED"

	// Onboarding
	CodeNotEligible ErrorCode = "NOT_ELIGIBLE"
)
