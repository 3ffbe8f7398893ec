package profile

// UpdateSelfRequest carries the owner-editable fields. Nil fields are left
// unchanged.
type UpdateSelfRequest struct {
	FullName       *string `json:"full_name" validate:"omitempty,min=1,max=200"`
	LodgeName      *string `json:"lodge_name" validate:"omitempty,min=1,max=200"`
	LodgeNumber    *string `json:"lodge_number" validate:"omitempty,min=1,max=20"`
	GrandLodge     *string `json:"grand_lodge" validate:"omitempty,min=1,max=200"`
	RitualWorkText *string `json:"ritual_work_text" validate:"omitempty,max=2000"`
}

func (r UpdateSelfRequest) fields() map[string]any {
	fields := map[string]any{}
	if r.FullName != nil {
		fields["full_name"] = *r.FullName
	}
	if r.LodgeName != nil {
		fields["lodge_name"] = *r.LodgeName
	}
	if r.LodgeNumber != nil {
		fields["lodge_number"] = *r.LodgeNumber
	}
	if r.GrandLodge != nil {
		fields["grand_lodge"] = *r.GrandLodge
	}
	if r.RitualWorkText != nil {
		fields["ritual_work_text"] = *r.RitualWorkText
	}
	return fields
}

// MyProfileResponse is the member dashboard payload.
type MyProfileResponse struct {
	*Profile
	Editable      bool   `json:"editable"`
	CredentialURL string `json:"credential_url,omitempty"`
}
