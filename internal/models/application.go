package models

import (
	"time"

	"memberflow_backend/internal/forms"
)

// Application is the single membership application a user may hold.
// The uniqueIndex on UserID is the invariant: a concurrent double-start
// fails on the constraint, never creates a second row.
type Application struct {
	BaseModel
	UserID  string            `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	Answers forms.Answers     `gorm:"type:jsonb" json:"answers"`
	Status  ApplicationStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`

	PaymentProofKey        *string    `json:"paymentProofKey,omitempty"`
	PaymentProofUploadedAt *time.Time `json:"paymentProofUploadedAt,omitempty"`
	PaymentVerifiedAt      *time.Time `json:"paymentVerifiedAt,omitempty"`
	PaymentVerifiedBy      *string    `gorm:"type:uuid" json:"paymentVerifiedBy,omitempty"`

	// SubmittedAt is set at draft creation and refreshed on every
	// (re)submission.
	SubmittedAt time.Time `gorm:"not null" json:"submittedAt"`

	ReviewedAt   *time.Time `json:"reviewedAt,omitempty"`
	ReviewedBy   *string    `gorm:"type:uuid" json:"reviewedBy,omitempty"`
	DecisionNote *string    `json:"decisionNote,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// ClearReview wipes decision and verification metadata. Called on every
// (re)submission so an accept always requires a fresh verification.
func (a *Application) ClearReview() {
	a.ReviewedAt = nil
	a.ReviewedBy = nil
	a.DecisionNote = nil
	a.PaymentVerifiedAt = nil
	a.PaymentVerifiedBy = nil
}

// ClearVerification invalidates a prior payment verification. Called when a
// new proof object replaces the old one.
func (a *Application) ClearVerification() {
	a.PaymentVerifiedAt = nil
	a.PaymentVerifiedBy = nil
}
