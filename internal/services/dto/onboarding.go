package dto

type OnboardingRequest struct {
	ShirtSize             string  `json:"shirtSize" validate:"required,oneof=XS S M L XL XXL"`
	DietaryNotes          *string `json:"dietaryNotes,omitempty" validate:"omitempty,max=500"`
	EmergencyContact      string  `json:"emergencyContact" validate:"required,min=5,max=200"`
	AgreedToCodeOfConduct bool    `json:"agreedToCodeOfConduct" validate:"required"`
}

type OnboardingStatusResponse struct {
	Completed bool        `json:"completed"`
	Response  interface{} `json:"response,omitempty"`
}
