package models

// OnboardingResponse is created exactly once per accepted member, atomically
// with the user's completion marker.
type OnboardingResponse struct {
	BaseModel
	UserID                string  `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	ShirtSize             string  `gorm:"type:varchar(8)" json:"shirtSize"`
	DietaryNotes          *string `json:"dietaryNotes,omitempty"`
	EmergencyContact      string  `json:"emergencyContact"`
	AgreedToCodeOfConduct bool    `gorm:"not null" json:"agreedToCodeOfConduct"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}
