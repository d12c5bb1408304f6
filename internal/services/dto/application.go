package dto

// ApplicationStateResponse is the applicant's view of their own record.
// Not having started yet is a normal state, not an error, on the read path.
type ApplicationStateResponse struct {
	Started     bool        `json:"started"`
	Application interface{} `json:"application,omitempty"`
}

type ProofUploadRequest struct {
	ContentType   string `json:"contentType" validate:"required"`
	ContentLength int64  `json:"contentLength" validate:"required,min=1"`
}

type ProofUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"` // seconds
}

type AttachProofRequest struct {
	Key string `json:"key" validate:"required"`
}
