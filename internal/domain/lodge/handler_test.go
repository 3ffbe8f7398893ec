package lodge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lodgecred/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListGrandLodges(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&GrandLodge{}))

	repo := NewRepository(db)
	ctx := context.Background()
	for _, g := range []GrandLodge{
		{Name: "Grand Lodge of Texas", State: "Texas"},
		{Name: "Grand Lodge of Alabama", State: "Alabama"},
		{Name: "Grand Lodge of Texas", State: "Texas"},
	} {
		g := g
		require.NoError(t, repo.Ensure(ctx, &g))
	}

	r := gin.New()
	NewHandler(repo).RegisterRoutes(r.Group("/api/v1"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/grand-lodges", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []GrandLodge `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, "Alabama", body.Data[0].State)
	assert.Equal(t, "Texas", body.Data[1].State)
}
