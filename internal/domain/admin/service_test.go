package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"lodgecred/internal/domain/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

/* ==================== MOCKS ==================== */

type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) List(ctx context.Context, statuses ...profile.Status) ([]profile.Profile, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]profile.Profile), args.Error(1)
}

func (m *MockProfileStore) Counts(ctx context.Context) (profile.Counts, error) {
	args := m.Called(ctx)
	return args.Get(0).(profile.Counts), args.Error(1)
}

func (m *MockProfileStore) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func (m *MockProfileStore) ApplyTransition(ctx context.Context, id string, t profile.Transition) error {
	args := m.Called(ctx, id, t)
	return args.Error(0)
}

func (m *MockProfileStore) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

type countingRefresher struct{ n int }

func (r *countingRefresher) Refresh(context.Context) { r.n++ }

/* ==================== TESTS ==================== */

func TestTransition_VerifyWithoutNote(t *testing.T) {
	store := new(MockProfileStore)
	live := &countingRefresher{}
	svc := NewService(store, profile.NotePolicyRequired, live, nil, nil)
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	store.On("ApplyTransition", mock.Anything, "p-1", mock.MatchedBy(func(tr profile.Transition) bool {
		return tr.Target == profile.StatusVerified &&
			tr.Note == nil &&
			tr.ReviewerID == 7 &&
			tr.VerifiedAt != nil && tr.VerifiedAt.Equal(now)
	})).Return(nil).Once()
	store.On("GetByID", mock.Anything, "p-1").Return(&profile.Profile{ID: "p-1", Status: profile.StatusVerified}, nil).Once()

	p, err := svc.Transition(context.Background(), 7, "p-1", TransitionRequest{Status: "verified"})
	require.NoError(t, err)
	assert.Equal(t, profile.StatusVerified, p.Status)
	assert.Equal(t, 1, live.n)
	store.AssertExpectations(t)
}

func TestTransition_RejectRequiresNote(t *testing.T) {
	store := new(MockProfileStore)
	svc := NewService(store, profile.NotePolicyRequired, nil, nil, nil)

	_, err := svc.Transition(context.Background(), 7, "p-1", TransitionRequest{Status: "REJECTED", Note: "  "})
	assert.ErrorIs(t, err, profile.ErrNoteRequired)
	store.AssertNotCalled(t, "ApplyTransition", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransition_AdvisoryNotePolicy(t *testing.T) {
	store := new(MockProfileStore)
	svc := NewService(store, profile.NotePolicyAdvisory, nil, nil, nil)

	store.On("ApplyTransition", mock.Anything, "p-1", mock.MatchedBy(func(tr profile.Transition) bool {
		return tr.Target == profile.StatusSuspended && tr.Note == nil && tr.VerifiedAt == nil
	})).Return(nil).Once()
	store.On("GetByID", mock.Anything, "p-1").Return(&profile.Profile{ID: "p-1", Status: profile.StatusSuspended}, nil)

	_, err := svc.Transition(context.Background(), 7, "p-1", TransitionRequest{Status: "SUSPENDED"})
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestTransition_StorageErrorSurfaced(t *testing.T) {
	store := new(MockProfileStore)
	live := &countingRefresher{}
	svc := NewService(store, profile.NotePolicyRequired, live, nil, nil)

	store.On("ApplyTransition", mock.Anything, "p-1", mock.Anything).Return(errors.New("deadlock detected")).Once()

	_, err := svc.Transition(context.Background(), 7, "p-1", TransitionRequest{Status: "VERIFIED"})
	assert.EqualError(t, err, "deadlock detected")
	assert.Equal(t, 0, live.n)
}

func TestTransition_ReloadFailureKeepsCommittedState(t *testing.T) {
	store := new(MockProfileStore)
	live := &countingRefresher{}
	svc := NewService(store, profile.NotePolicyRequired, live, nil, nil)
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	store.On("ApplyTransition", mock.Anything, "p-1", mock.Anything).Return(nil).Once()
	store.On("GetByID", mock.Anything, "p-1").Return(nil, errors.New("connection reset")).Once()

	p, err := svc.Transition(context.Background(), 7, "p-1", TransitionRequest{Status: "VERIFIED"})
	require.NoError(t, err)
	assert.Equal(t, "p-1", p.ID)
	assert.Equal(t, profile.StatusVerified, p.Status)
	require.NotNil(t, p.VerifiedAt)
	assert.True(t, p.VerifiedAt.Equal(now))
	require.NotNil(t, p.VerifiedBy)
	assert.Equal(t, int64(7), *p.VerifiedBy)
	assert.Equal(t, 1, live.n)
	store.AssertExpectations(t)
}

func TestTransition_InvalidTarget(t *testing.T) {
	svc := NewService(new(MockProfileStore), profile.NotePolicyRequired, nil, nil, nil)

	_, err := svc.Transition(context.Background(), 7, "p-1", TransitionRequest{Status: "PENDING", Note: "back"})
	assert.ErrorIs(t, err, profile.ErrInvalidTransitionTarget)
}

func TestListProfiles_Views(t *testing.T) {
	store := new(MockProfileStore)
	svc := NewService(store, profile.NotePolicyRequired, nil, nil, nil)
	counts := profile.Counts{Pending: 1, Verified: 2, RejectedOrSuspended: 3, All: 6}

	store.On("Counts", mock.Anything).Return(counts, nil)
	store.On("List", mock.Anything, []profile.Status{profile.StatusRejected, profile.StatusSuspended}).
		Return([]profile.Profile{{ID: "r"}, {ID: "s"}}, nil).Once()
	store.On("List", mock.Anything, []profile.Status{profile.StatusPending}).
		Return(nil, nil).Once()

	res, err := svc.ListProfiles(context.Background(), "rejected")
	require.NoError(t, err)
	assert.Len(t, res.Profiles, 2)
	assert.Equal(t, counts, res.Counts)

	res, err = svc.ListProfiles(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, ViewPending, res.View)
	assert.NotNil(t, res.Profiles)

	_, err = svc.ListProfiles(context.Background(), "archived")
	assert.ErrorIs(t, err, ErrInvalidView)
}

func TestUpdateRecord(t *testing.T) {
	store := new(MockProfileStore)
	svc := NewService(store, profile.NotePolicyRequired, nil, nil, nil)

	rank := " Past Master "
	dues := "2026-06-30"
	store.On("UpdateFields", mock.Anything, "p-1", mock.MatchedBy(func(f map[string]any) bool {
		d, ok := f["dues_paid_through"].(time.Time)
		return f["rank"] == "Past Master" && ok && d.Equal(time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC))
	})).Return(nil).Once()
	store.On("GetByID", mock.Anything, "p-1").Return(&profile.Profile{ID: "p-1"}, nil)

	_, err := svc.UpdateRecord(context.Background(), "p-1", UpdateRecordRequest{Rank: &rank, DuesPaidThrough: &dues})
	require.NoError(t, err)

	bad := "30/06/2026"
	_, err = svc.UpdateRecord(context.Background(), "p-1", UpdateRecordRequest{DuesPaidThrough: &bad})
	assert.ErrorIs(t, err, ErrInvalidDate)
	store.AssertExpectations(t)
}

func TestRenderDocuments(t *testing.T) {
	jpg := "http://x/1/dues_card-1.jpg"
	pdf := "http://x/1/certificate-1.PDF"
	docs := RenderDocuments(&profile.Profile{DuesCardImageURL: &jpg, CertificateImageURL: &pdf})

	require.Len(t, docs, 3)
	assert.Equal(t, RenderImage, docs[0].Render)
	assert.Equal(t, RenderPDF, docs[1].Render)
	assert.Equal(t, RenderNotUploaded, docs[2].Render)
	assert.Equal(t, profile.DocLetterOfIntroduction, docs[2].Kind)
}
