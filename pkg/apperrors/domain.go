package apperrors

import (
	"net/http"
)

/*
Predefined errors and factories for the membership-application workflow.
Static guard violations are package vars; errors that carry per-call data
(incomplete submissions, wrapped storage failures) go through factories.
*/

// --- Application lifecycle ---

// ErrApplicationNotStarted - the operation needs an existing application record.
var ErrApplicationNotStarted = New(
	CodeNotStarted,
	"application",
	"You have not started an application yet",
	http.StatusNotFound,
)

// ErrApplicationNotEditable - mutation attempted outside DRAFT/REJECTED.
var ErrApplicationNotEditable = New(
	CodeNotEditable,
	"application",
	"Application can no longer be edited in its current status",
	http.StatusConflict,
)

// ErrCannotReapply - reapply is only reachable from REJECTED.
var ErrCannotReapply = New(
	CodeCannotReapply,
	"application",
	"Reapplying is only possible after a rejection",
	http.StatusConflict,
)

// ErrApplicationExists - a user may hold at most one application record.
var ErrApplicationExists = New(
	CodeAlreadyExists,
	"application",
	"An application already exists for this user",
	http.StatusConflict,
)

// IncompleteDetails travels with INCOMPLETE so the client can highlight the
// exact fields; the missing list follows the canonical required-field order.
type IncompleteDetails struct {
	MissingRequiredFields []string `json:"missingRequiredFields"`
	MissingPaymentProof   bool     `json:"missingPaymentProof"`
}

// NewIncompleteError reports why a submission cannot proceed.
func NewIncompleteError(missingFields []string, missingProof bool) *AppError {
	if missingFields == nil {
		missingFields = []string{}
	}
	return New(
		CodeIncomplete,
		"application",
		"Application is incomplete",
		http.StatusUnprocessableEntity,
	).WithDetails(IncompleteDetails{
		MissingRequiredFields: missingFields,
		MissingPaymentProof:   missingProof,
	})
}

// ErrApplicationNotReviewable - admin action attempted outside PENDING.
var ErrApplicationNotReviewable = New(
	CodeNotEditable,
	"review",
	"Application is not pending review",
	http.StatusConflict,
)

// --- Payment proof & storage ---

// ErrProofMissing - verify-payment attempted before any proof was attached.
var ErrProofMissing = New(
	CodeProofMissing,
	"review",
	"No payment proof has been attached to this application",
	http.StatusConflict,
)

// ErrProofNotFound - a proof key is recorded but the object is confirmed
// absent in storage. Distinct from a storage outage.
var ErrProofNotFound = New(
	CodeProofNotFound,
	"review",
	"Payment proof object was not found in storage",
	http.StatusConflict,
)

// NewStorageUnavailableError wraps a transport or auth failure talking to the
// object store. Never conflated with a confirmed-absent object.
func NewStorageUnavailableError(err error) *AppError {
	return Wrap(err, CodeStorageUnavailable, "storage",
		"Object storage is currently unavailable", http.StatusServiceUnavailable)
}

// ErrPaymentNotVerified - accept decision requires a prior verification.
var ErrPaymentNotVerified = New(
	CodePaymentNotVerified,
	"review",
	"Payment must be verified before the application can be accepted",
	http.StatusConflict,
)

// ErrFileTooLarge - proof upload exceeds the configured size limit.
var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

// ErrInvalidFileType - proof MIME type is not on the allowlist.
var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

// --- Onboarding ---

// ErrNotEligible - onboarding access by a non-accepted, non-admin user.
var ErrNotEligible = New(
	CodeNotEligible,
	"onboarding",
	"Onboarding is only available to accepted members",
	http.StatusForbidden,
)

// ErrOnboardingExists - onboarding response was already submitted.
var ErrOnboardingExists = New(
	CodeAlreadyExists,
	"onboarding",
	"Onboarding has already been completed",
	http.StatusConflict,
)

// --- Resources & auth ---

// ErrNotFound wraps a repository miss for a referenced resource.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrEmailAlreadyExists - registration with an email that is already in use.
var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

// ErrInvalidCredentials - wrong email or password.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrInvalidToken - missing, malformed or expired session token.
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrWeakPassword - password below the minimum length.
var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 8 characters required.",
	http.StatusBadRequest,
)

// ErrInsufficientPermissions - a non-admin attempted an admin operation.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)
