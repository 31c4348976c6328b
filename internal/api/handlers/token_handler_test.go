package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mschlachter/ocis-app-tokens/internal/models"
	"github.com/mschlachter/ocis-app-tokens/internal/tokenstore"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTokenTestHandler creates the token handler on an in-memory database
// and registers the query-parameter routes the panel uses.
func setupTokenTestHandler(t *testing.T) (*gin.Engine, *tokenstore.Service) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := db.AutoMigrate(&models.AppToken{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	service := tokenstore.NewService(tokenstore.NewRepository(db))
	handler := NewTokenHandler(service)

	router := gin.New()
	tokens := router.Group("/auth-app/tokens")
	{
		tokens.GET("", handler.ListTokens)
		tokens.POST("", handler.CreateToken)
		tokens.DELETE("", handler.DeleteToken)
	}

	return router, service
}

func TestTokenHandler_CreateToken_Success(t *testing.T) {
	router, _ := setupTokenTestHandler(t)

	req, _ := http.NewRequest("POST", "/auth-app/tokens?expiry=72h", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", resp.Code, resp.Body.String())
	}

	var response models.AppToken
	json.Unmarshal(resp.Body.Bytes(), &response)

	if response.Token == "" {
		t.Error("Expected plaintext token in create response")
	}
	if response.Label != models.DefaultLabel {
		t.Errorf("Expected label %q, got %q", models.DefaultLabel, response.Label)
	}
	want := response.CreatedDate.Add(72 * time.Hour)
	if !response.ExpirationDate.Equal(want) {
		t.Errorf("Expected expiration %v, got %v", want, response.ExpirationDate)
	}
}

func TestTokenHandler_CreateToken_MissingExpiry(t *testing.T) {
	router, _ := setupTokenTestHandler(t)

	req, _ := http.NewRequest("POST", "/auth-app/tokens", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &response)
	errorData := response["error"].(map[string]interface{})
	if errorData["code"] != "INVALID_EXPIRY" {
		t.Errorf("Expected error code INVALID_EXPIRY, got %v", errorData["code"])
	}
}

func TestTokenHandler_CreateToken_MalformedExpiry(t *testing.T) {
	router, _ := setupTokenTestHandler(t)

	for _, expiry := range []string{"3d", "1.5h", "72"} {
		req, _ := http.NewRequest("POST", "/auth-app/tokens?expiry="+expiry, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusBadRequest {
			t.Errorf("expiry %q: expected status 400, got %d", expiry, resp.Code)
		}
	}
}

func TestTokenHandler_ListTokens_HidesSecrets(t *testing.T) {
	router, service := setupTokenTestHandler(t)

	created, err := service.Create("24h", "")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	req, _ := http.NewRequest("GET", "/auth-app/tokens", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}

	var listed []models.AppToken
	json.Unmarshal(resp.Body.Bytes(), &listed)

	if len(listed) != 1 {
		t.Fatalf("Expected 1 token, got %d", len(listed))
	}
	if listed[0].Token == created.Token {
		t.Error("Listing exposed the plaintext secret")
	}
}

func TestTokenHandler_DeleteToken(t *testing.T) {
	router, service := setupTokenTestHandler(t)

	created, err := service.Create("24h", "")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	stored := tokenstore.DigestSecret(created.Token)

	req, _ := http.NewRequest("DELETE", "/auth-app/tokens?token="+url.QueryEscape(stored), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d. Body: %s", resp.Code, resp.Body.String())
	}

	listed, err := service.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("Expected 0 tokens after delete, got %d", len(listed))
	}
}

func TestTokenHandler_DeleteToken_NotFound(t *testing.T) {
	router, _ := setupTokenTestHandler(t)

	req, _ := http.NewRequest("DELETE", "/auth-app/tokens?token=unknown", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
}

func TestTokenHandler_DeleteToken_MissingParam(t *testing.T) {
	router, _ := setupTokenTestHandler(t)

	req, _ := http.NewRequest("DELETE", "/auth-app/tokens", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
}
