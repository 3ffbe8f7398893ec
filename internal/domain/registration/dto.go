package registration

import "strings"

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required"`
	ConfirmPassword *string `json:"confirmPassword,omitempty"`
	FullName        string  `json:"fullName" validate:"required,max=200"`
	LodgeName       string  `json:"lodgeName" validate:"required,max=200"`
	LodgeNumber     string  `json:"lodgeNumber" validate:"required,max=20"`
	RitualWorkText  string  `json:"ritualWorkText" validate:"required,max=2000"`
	GrandLodge      string  `json:"grandLodge" validate:"required,max=200"`
}

// normalized trims every text field except the passwords.
func (r SignupRequest) normalized() SignupRequest {
	r.Email = strings.TrimSpace(r.Email)
	r.FullName = strings.TrimSpace(r.FullName)
	r.LodgeName = strings.TrimSpace(r.LodgeName)
	r.LodgeNumber = strings.TrimSpace(r.LodgeNumber)
	r.RitualWorkText = strings.TrimSpace(r.RitualWorkText)
	r.GrandLodge = strings.TrimSpace(r.GrandLodge)
	return r
}

type SignupResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Email   string `json:"email"`
}
