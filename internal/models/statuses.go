package models

type UserRole string
type ApplicationStatus string

const (
	UserRoleMember UserRole = "member"
	UserRoleAdmin  UserRole = "admin"

	ApplicationStatusDraft    ApplicationStatus = "draft"
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Editable reports whether the applicant may still mutate the record
// (draft-save, proof upload). Only drafts and rejected applications are open.
func (s ApplicationStatus) Editable() bool {
	return s == ApplicationStatusDraft || s == ApplicationStatusRejected
}
