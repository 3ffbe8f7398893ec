package admin

import "lodgecred/internal/domain/profile"

type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// UpdateRecordRequest edits admin-maintained fields. An empty string
// clears the field; a missing key leaves it unchanged.
type UpdateRecordRequest struct {
	Rank            *string `json:"rank" validate:"omitempty,max=100"`
	DuesPaidThrough *string `json:"dues_paid_through"`
}

type ListResult struct {
	View     string            `json:"view"`
	Profiles []profile.Profile `json:"profiles"`
	Counts   profile.Counts    `json:"counts"`
}

type RenderKind string

const (
	RenderImage       RenderKind = "image"
	RenderPDF         RenderKind = "pdf"
	RenderNotUploaded RenderKind = "not_uploaded"
)

type RenderedDocument struct {
	Kind   profile.DocumentKind `json:"kind"`
	Label  string               `json:"label"`
	Render RenderKind           `json:"render"`
	URL    *string              `json:"url"`
}

// ReviewProfile is the admin detail view of one member.
type ReviewProfile struct {
	*profile.Profile
	Documents []RenderedDocument `json:"documents"`
}
