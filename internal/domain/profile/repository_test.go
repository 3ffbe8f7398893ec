package profile

import (
	"context"
	"fmt"
	"testing"
	"time"

	"lodgecred/internal/database"
	"lodgecred/internal/domain/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&auth.User{}, &Profile{}))
	return db
}

func createMember(t *testing.T, db *gorm.DB, status Status) *Profile {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&auth.User{}).Count(&n).Error)

	u := &auth.User{Email: fmt.Sprintf("m%d@example.com", n+1), PasswordHash: "x", Role: auth.RoleMember}
	require.NoError(t, db.Create(u).Error)

	p := &Profile{
		UserID:      u.ID,
		FullName:    "John Smith",
		LodgeName:   "Harmony Lodge",
		LodgeNumber: "42",
		GrandLodge:  "Grand Lodge of Texas",
		Status:      status,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestRepository_CreateAssignsIDAndPending(t *testing.T) {
	db := setupTestDB(t)
	p := createMember(t, db, "")

	assert.Len(t, p.ID, 36)
	assert.Equal(t, StatusPending, p.Status)
	assert.Nil(t, p.DuesCardImageURL)
}

func TestRepository_OneProfilePerIdentity(t *testing.T) {
	db := setupTestDB(t)
	p := createMember(t, db, StatusPending)

	err := NewRepository(db).Create(context.Background(), &Profile{UserID: p.UserID, FullName: "Dup"})
	assert.Error(t, err)
}

func TestRepository_ProfileRequiresIdentity(t *testing.T) {
	db := setupTestDB(t)
	err := NewRepository(db).Create(context.Background(), &Profile{UserID: 999, FullName: "Ghost"})
	assert.Error(t, err)
}

func TestRepository_ApplyTransition(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	p := createMember(t, db, StatusPending)

	tr, err := NewTransition(StatusVerified, "", 7, time.Now(), NotePolicyRequired)
	require.NoError(t, err)
	require.NoError(t, repo.ApplyTransition(ctx, p.ID, tr))

	got, err := repo.GetVerifiedByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusVerified, got.Status)
	require.NotNil(t, got.VerifiedAt)
	require.NotNil(t, got.VerifiedBy)
	assert.Equal(t, int64(7), *got.VerifiedBy)
	assert.Nil(t, got.AdminNote)

	tr, err = NewTransition(StatusSuspended, "Dues lapsed", 8, time.Now(), NotePolicyRequired)
	require.NoError(t, err)
	require.NoError(t, repo.ApplyTransition(ctx, p.ID, tr))

	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSuspended, got.Status)
	assert.Nil(t, got.VerifiedAt)
	assert.Equal(t, int64(8), *got.VerifiedBy)
	assert.Equal(t, "Dues lapsed", *got.AdminNote)

	_, err = repo.GetVerifiedByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	assert.ErrorIs(t, repo.ApplyTransition(ctx, "missing", tr), ErrProfileNotFound)
}

func TestRepository_UpdateDocument(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	p := createMember(t, db, StatusPending)

	require.NoError(t, repo.UpdateDocument(ctx, p.UserID, DocCertificate, "http://x/cert.pdf"))
	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CertificateImageURL)
	assert.Equal(t, "http://x/cert.pdf", *got.CertificateImageURL)
	assert.Nil(t, got.DuesCardImageURL)

	assert.ErrorIs(t, repo.UpdateDocument(ctx, 12345, DocDuesCard, "x"), ErrProfileNotFound)
}

func TestRepository_UpdateSelfLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	editable := createMember(t, db, StatusRejected)
	require.NoError(t, repo.UpdateSelf(ctx, editable.UserID, map[string]any{"lodge_number": "43"}))
	got, _ := repo.GetByID(ctx, editable.ID)
	assert.Equal(t, "43", got.LodgeNumber)

	locked := createMember(t, db, StatusVerified)
	err := repo.UpdateSelf(ctx, locked.UserID, map[string]any{"lodge_number": "99"})
	assert.ErrorIs(t, err, ErrProfileLocked)

	err = repo.UpdateSelf(ctx, 9999, map[string]any{"lodge_number": "1"})
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestRepository_ListAndCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	createMember(t, db, StatusPending)
	createMember(t, db, StatusPending)
	createMember(t, db, StatusVerified)
	createMember(t, db, StatusRejected)
	createMember(t, db, StatusSuspended)

	counts, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{Pending: 2, Verified: 1, RejectedOrSuspended: 2, All: 5}, counts)

	list, err := repo.List(ctx, StatusRejected, StatusSuspended)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
