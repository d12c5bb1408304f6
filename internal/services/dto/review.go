package dto

import (
	"time"

	"memberflow_backend/internal/models"
)

// ApplicationSummary is one row of the admin review list. Drafts never
// appear here.
type ApplicationSummary struct {
	ID              string                   `json:"id"`
	ApplicantName   string                   `json:"applicantName"`
	ApplicantEmail  string                   `json:"applicantEmail"`
	Status          models.ApplicationStatus `json:"status"`
	SubmittedAt     time.Time                `json:"submittedAt"`
	HasPaymentProof bool                     `json:"hasPaymentProof"`
	PaymentVerified bool                     `json:"paymentVerified"`
	ReviewedAt      *time.Time               `json:"reviewedAt,omitempty"`
}

// ApplicationDetail adds the raw answers and a short-lived proof view URL.
// ProofViewURL is best effort: nil when no proof is attached or the storage
// backend is unreachable.
type ApplicationDetail struct {
	Application  *models.Application `json:"application"`
	Applicant    UserResponse        `json:"applicant"`
	ProofViewURL *string             `json:"proofViewUrl,omitempty"`
}

type DecisionRequest struct {
	Outcome string  `json:"outcome" validate:"required,oneof=accepted rejected"`
	Note    *string `json:"note,omitempty" validate:"omitempty,max=2000"`
}
