package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"lodgecred/internal/app"
	"lodgecred/internal/config"
	"lodgecred/internal/database"
	"lodgecred/internal/database/schema"
	"lodgecred/internal/domain/auth"
	"lodgecred/internal/domain/profile"
	"lodgecred/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type E2ETestSuite struct {
	app    *app.App
	router *gin.Engine
	db     *gorm.DB
	mailer *linkMailer
}

type TestResponse struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Error   *ErrorDetail   `json:"error,omitempty"`
	Message string         `json:"message,omitempty"`
	Email   string         `json:"email,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type linkMailer struct {
	links map[string]string
}

func (m *linkMailer) SendAuthLink(_ context.Context, email string, _ auth.CodeType, link string) error {
	m.links[email] = link
	return nil
}

var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, schema.Migrate(db), "Failed to migrate")

	cfg := &config.Config{
		AppEnv:            "test",
		JWTSecret:         "test_secret_key_32_characters_min",
		SessionTTL:        24 * time.Hour,
		AuthCodeTTL:       time.Hour,
		AuthCodePepper:    "pepper",
		CredentialViewTTL: 8 * time.Minute,
		CookieSameSite:    "Lax",
		PublicBaseURL:     "http://lodgecred.test",
		UploadsDir:        t.TempDir(),
		MaxUploadBytes:    5 * 1024 * 1024,
		RequireNote:       true,
	}
	mailer := &linkMailer{links: map[string]string{}}
	a := app.New(cfg, db, mailer, metrics.New(), nil)

	hash, err := auth.HashPassword("admin-password")
	require.NoError(t, err)
	now := time.Now()
	require.NoError(t, db.Create(&auth.User{
		Email:            "admin@test.com",
		PasswordHash:     hash,
		Role:             auth.RoleAdmin,
		FullName:         "Admin User",
		EmailConfirmedAt: &now,
	}).Error, "Failed to create admin user")

	return &E2ETestSuite{app: a, router: a.Router, db: db, mailer: mailer}
}

func (s *E2ETestSuite) makeRequest(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *E2ETestSuite) upload(t *testing.T, token, kind string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("type", kind))
	fw, err := mw.CreateFormFile("file", kind+".jpg")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	t.Helper()
	var resp TestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		log.Printf("Failed to parse response. Status: %d, Body: %s", w.Code, w.Body.String())
		require.NoError(t, err)
	}
	return &resp
}

func (s *E2ETestSuite) login(t *testing.T, email, password string) string {
	t.Helper()
	w := s.makeRequest(http.MethodPost, "/api/v1/auth/login", gin.H{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, _ := parseResponse(t, w).Data["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

// registerMember signs up, follows the confirmation link and logs in.
func (s *E2ETestSuite) registerMember(t *testing.T, email string) string {
	t.Helper()
	w := s.makeRequest(http.MethodPost, "/api/v1/auth/signup", gin.H{
		"email":           email,
		"password":        "Password123!",
		"confirmPassword": "Password123!",
		"fullName":        "John Smith",
		"lodgeName":       "Harmony Lodge",
		"lodgeNumber":     "438",
		"ritualWorkText":  "Canadian Work",
		"grandLodge":      "Grand Lodge of Manitoba",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	link, ok := s.mailer.links[email]
	require.True(t, ok, "no confirmation link mailed")
	u, err := url.Parse(link)
	require.NoError(t, err)

	w = s.makeRequest(http.MethodGet, "/api/v1/auth/callback?"+u.RawQuery, nil, "")
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "http://lodgecred.test/dashboard", w.Header().Get("Location"))

	return s.login(t, email, "Password123!")
}

func (s *E2ETestSuite) myProfileID(t *testing.T, token string) string {
	t.Helper()
	w := s.makeRequest(http.MethodGet, "/api/v1/me/profile", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	id, _ := parseResponse(t, w).Data["id"].(string)
	require.NotEmpty(t, id)
	return id
}

// =============================================================================
// Flow 1: registration, confirmation, login
// =============================================================================

func TestFlow1_RegistrationAndLogin(t *testing.T) {
	suite := setupTestSuite(t)

	t.Run("login before confirmation is refused", func(t *testing.T) {
		w := suite.makeRequest(http.MethodPost, "/api/v1/auth/signup", gin.H{
			"email":          "early@test.com",
			"password":       "Password123!",
			"fullName":       "Early Bird",
			"lodgeName":      "Acacia",
			"lodgeNumber":    "11",
			"ritualWorkText": "Canadian Work",
			"grandLodge":     "Grand Lodge of Alberta",
		}, "")
		require.Equal(t, http.StatusOK, w.Code)
		resp := parseResponse(t, w)
		assert.Equal(t, "Account created successfully. Please check your email to verify your account.", resp.Message)
		assert.Equal(t, "early@test.com", resp.Email)

		w = suite.makeRequest(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "early@test.com", "password": "Password123!"}, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("confirmed member sees a pending profile", func(t *testing.T) {
		token := suite.registerMember(t, "client@test.com")

		w := suite.makeRequest(http.MethodGet, "/api/v1/me/profile", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		data := parseResponse(t, w).Data
		assert.Equal(t, string(profile.StatusPending), data["status"])
		assert.Equal(t, true, data["editable"])
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		w := suite.makeRequest(http.MethodPost, "/api/v1/auth/signup", gin.H{
			"email":          "client@test.com",
			"password":       "Password123!",
			"fullName":       "Someone Else",
			"lodgeName":      "Acacia",
			"lodgeNumber":    "11",
			"ritualWorkText": "Canadian Work",
			"grandLodge":     "Grand Lodge of Alberta",
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "User already registered", parseResponse(t, w).Error.Message)
	})
}

// =============================================================================
// Flow 2: documents, review, public credential
// =============================================================================

func TestFlow2_VerifyAndPublish(t *testing.T) {
	suite := setupTestSuite(t)
	memberToken := suite.registerMember(t, "member@test.com")
	adminToken := suite.login(t, "admin@test.com", "admin-password")
	profileID := suite.myProfileID(t, memberToken)
	duesCard := append(append([]byte{}, jpegHeader...), make([]byte, 2048)...)
	var storedPath string
	var verifiedAt time.Time

	t.Run("member uploads a dues card", func(t *testing.T) {
		w := suite.upload(t, memberToken, "dues_card", duesCard)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		addr, _ := parseResponse(t, w).Data["url"].(string)
		require.True(t, strings.HasPrefix(addr, "http://lodgecred.test/api/v1/documents/"), addr)
		storedPath = strings.TrimPrefix(addr, "http://lodgecred.test")
	})

	t.Run("stored address needs the owner or an admin", func(t *testing.T) {
		w := suite.makeRequest(http.MethodGet, storedPath, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = suite.makeRequest(http.MethodGet, storedPath, nil, memberToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, duesCard, w.Body.Bytes())

		w = suite.makeRequest(http.MethodGet, storedPath, nil, adminToken)
		assert.Equal(t, http.StatusOK, w.Code)

		w = suite.makeRequest(http.MethodGet, strings.Replace(storedPath, "/api/v1/documents/", "/static/documents/", 1), nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("credential is hidden until verified", func(t *testing.T) {
		w := suite.makeRequest(http.MethodGet, "/api/v1/credentials/"+profileID, nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("member cannot reach admin endpoints", func(t *testing.T) {
		w := suite.makeRequest(http.MethodGet, "/api/v1/admin/profiles", nil, memberToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin verifies without a note", func(t *testing.T) {
		w := suite.makeRequest(http.MethodPost, "/api/v1/admin/profiles/"+profileID+"/transition", gin.H{"status": "VERIFIED"}, adminToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		data := parseResponse(t, w).Data
		assert.Equal(t, "VERIFIED", data["status"])
		raw, _ := data["verified_at"].(string)
		var err error
		verifiedAt, err = time.Parse(time.RFC3339Nano, raw)
		require.NoError(t, err, raw)
	})

	t.Run("verified profile is locked for self-edit", func(t *testing.T) {
		w := suite.makeRequest(http.MethodPut, "/api/v1/me/profile", gin.H{"lodge_name": "Other"}, memberToken)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("public view links the dues card", func(t *testing.T) {
		w := suite.makeRequest(http.MethodGet, "/api/v1/credentials/"+profileID, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

		data := parseResponse(t, w).Data
		assert.NotContains(t, data, "admin_note")
		assert.Equal(t, verifiedAt.AddDate(1, 0, 0).Format("January 2, 2006"), data["dues_paid_through"])

		docs, _ := data["documents"].([]any)
		require.Len(t, docs, 1)
		doc := docs[0].(map[string]any)
		assert.Equal(t, "Dues Card", doc["label"])
		assert.Equal(t, true, doc["active"])

		href, _ := doc["href"].(string)
		w = suite.makeRequest(http.MethodGet, href, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, duesCard, w.Body.Bytes())
		assert.Empty(t, w.Header().Get("Location"))
		assert.Equal(t, "private, no-store", w.Header().Get("Cache-Control"))

		w = suite.makeRequest(http.MethodGet, "/api/v1/credentials/"+profileID+"/documents/dues_card", nil, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("document links expire with the view window", func(t *testing.T) {
		w := suite.makeRequest(http.MethodGet, "/api/v1/credentials/"+profileID, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		token, _ := parseResponse(t, w).Data["view_token"].(string)
		require.NotEmpty(t, token)

		suite.app.JWT.WithClock(func() time.Time { return time.Now().Add(9 * time.Minute) })
		defer suite.app.JWT.WithClock(time.Now)

		w = suite.makeRequest(http.MethodGet, "/api/v1/credentials/"+profileID+"/documents/dues_card?token="+url.QueryEscape(token), nil, "")
		assert.Equal(t, http.StatusGone, w.Code)
		assert.Equal(t, "PAGE_EXPIRED", parseResponse(t, w).Error.Code)

		// nothing else hands the blob to an anonymous caller
		w = suite.makeRequest(http.MethodGet, storedPath, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("suspension closes open document links", func(t *testing.T) {
		w := suite.makeRequest(http.MethodGet, "/api/v1/credentials/"+profileID, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		token, _ := parseResponse(t, w).Data["view_token"].(string)
		require.NotEmpty(t, token)

		w = suite.makeRequest(http.MethodPost, "/api/v1/admin/profiles/"+profileID+"/transition",
			gin.H{"status": "SUSPENDED", "note": "Dues lapsed"}, adminToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = suite.makeRequest(http.MethodGet, "/api/v1/credentials/"+profileID+"/documents/dues_card?token="+url.QueryEscape(token), nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NotEqual(t, duesCard, w.Body.Bytes())

		w = suite.makeRequest(http.MethodGet, storedPath, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// =============================================================================
// Flow 3: rejection and resubmission
// =============================================================================

func TestFlow3_RejectAndResubmit(t *testing.T) {
	suite := setupTestSuite(t)
	memberToken := suite.registerMember(t, "member@test.com")
	adminToken := suite.login(t, "admin@test.com", "admin-password")
	profileID := suite.myProfileID(t, memberToken)

	t.Run("rejection needs a note", func(t *testing.T) {
		w := suite.makeRequest(http.MethodPost, "/api/v1/admin/profiles/"+profileID+"/transition", gin.H{"status": "REJECTED"}, adminToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = suite.makeRequest(http.MethodPost, "/api/v1/admin/profiles/"+profileID+"/transition",
			gin.H{"status": "REJECTED", "note": "Certificate missing"}, adminToken)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("member sees the note and can edit again", func(t *testing.T) {
		w := suite.makeRequest(http.MethodGet, "/api/v1/me/profile", nil, memberToken)
		require.Equal(t, http.StatusOK, w.Code)
		data := parseResponse(t, w).Data
		assert.Equal(t, "Certificate missing", data["admin_note"])

		w = suite.makeRequest(http.MethodPut, "/api/v1/me/profile", gin.H{"lodge_number": "439"}, memberToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "439", parseResponse(t, w).Data["lodge_number"])
	})

	t.Run("rejected view counts the profile", func(t *testing.T) {
		w := suite.makeRequest(http.MethodGet, "/api/v1/admin/profiles?view=rejected", nil, adminToken)
		require.Equal(t, http.StatusOK, w.Code)
		data := parseResponse(t, w).Data
		profiles, _ := data["profiles"].([]any)
		assert.Len(t, profiles, 1)
		counts, _ := data["counts"].(map[string]any)
		assert.Equal(t, float64(1), counts["all"])
	})
}
