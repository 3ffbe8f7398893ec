package profile

import (
	"context"
	"strings"
)

// Service backs the member dashboard.
type Service struct {
	repo          *Repository
	publicBaseURL string
}

func NewService(repo *Repository, publicBaseURL string) *Service {
	return &Service{
		repo:          repo,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *Service) GetMine(ctx context.Context, userID int64) (*MyProfileResponse, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(p), nil
}

func (s *Service) UpdateMine(ctx context.Context, userID int64, req UpdateSelfRequest) (*MyProfileResponse, error) {
	if err := s.repo.UpdateSelf(ctx, userID, req.fields()); err != nil {
		return nil, err
	}
	return s.GetMine(ctx, userID)
}

// CredentialURL is the public page address for a verified profile.
func (s *Service) CredentialURL(id string) string {
	return s.publicBaseURL + "/credentials/" + id
}

func (s *Service) view(p *Profile) *MyProfileResponse {
	out := &MyProfileResponse{Profile: p, Editable: p.Status.SelfEditable()}
	if p.Status == StatusVerified {
		out.CredentialURL = s.CredentialURL(p.ID)
	}
	return out
}
