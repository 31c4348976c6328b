package tokenstore

import (
	"errors"
	"testing"
	"time"

	"github.com/mschlachter/ocis-app-tokens/internal/expiry"
	"github.com/mschlachter/ocis-app-tokens/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory database with the token table migrated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := db.AutoMigrate(&models.AppToken{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func TestGenerateSecret(t *testing.T) {
	secret, err := GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret() failed: %v", err)
	}
	if len(secret) != 32 {
		t.Errorf("GenerateSecret() length = %d, want 32", len(secret))
	}
}

func TestGenerateSecret_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	count := 1000

	for i := 0; i < count; i++ {
		secret, err := GenerateSecret()
		if err != nil {
			t.Fatalf("GenerateSecret() failed at iteration %d: %v", i, err)
		}
		if seen[secret] {
			t.Errorf("GenerateSecret() generated duplicate secret: %v", secret)
		}
		seen[secret] = true
	}
}

func TestService_Create(t *testing.T) {
	service := NewService(NewRepository(setupTestDB(t)))

	token, err := service.Create("72h", "")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if token.Label != models.DefaultLabel {
		t.Errorf("Create() label = %q, want %q", token.Label, models.DefaultLabel)
	}

	// The returned token carries the plaintext secret, the listing its digest.
	listed, err := service.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("List() returned %d tokens, want 1", len(listed))
	}
	if listed[0].Token == token.Token {
		t.Error("listing exposed the plaintext secret")
	}
	if listed[0].Token != DigestSecret(token.Token) {
		t.Error("stored value is not the digest of the returned secret")
	}

	wantExpiry := token.CreatedDate.Add(72 * time.Hour)
	if !token.ExpirationDate.Equal(wantExpiry) {
		t.Errorf("Create() expiration = %v, want %v", token.ExpirationDate, wantExpiry)
	}
}

func TestService_Create_CustomLabel(t *testing.T) {
	service := NewService(NewRepository(setupTestDB(t)))

	token, err := service.Create("30m", "CI runner")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if token.Label != "CI runner" {
		t.Errorf("Create() label = %q, want %q", token.Label, "CI runner")
	}
}

func TestService_Create_ZeroDuration(t *testing.T) {
	service := NewService(NewRepository(setupTestDB(t)))

	// A zero duration is a wire-valid degenerate value; rejecting it is not
	// the client's job and the dev backend accepts it too.
	token, err := service.Create("0m", "")
	if err != nil {
		t.Fatalf("Create(\"0m\") failed: %v", err)
	}
	if !token.ExpirationDate.Equal(token.CreatedDate) {
		t.Errorf("Create(\"0m\") expiration = %v, want created date %v", token.ExpirationDate, token.CreatedDate)
	}
}

func TestService_Create_InvalidExpiry(t *testing.T) {
	service := NewService(NewRepository(setupTestDB(t)))

	for _, in := range []string{"", "72", "1.5h", "3d"} {
		if _, err := service.Create(in, ""); !errors.Is(err, ErrInvalidExpiry) {
			t.Errorf("Create(%q) error = %v, want ErrInvalidExpiry", in, err)
		}
	}
	if _, err := service.Create("3d", ""); !errors.Is(err, expiry.ErrInvalidDuration) {
		t.Error("Create() should preserve the parse error in its chain")
	}
}

func TestService_ListOrder(t *testing.T) {
	service := NewService(NewRepository(setupTestDB(t)))

	first, err := service.Create("1h", "")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	second, err := service.Create("2h", "")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	listed, err := service.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("List() returned %d tokens, want 2", len(listed))
	}
	if listed[0].Token != DigestSecret(first.Token) || listed[1].Token != DigestSecret(second.Token) {
		t.Error("List() did not preserve creation order")
	}
}

func TestService_Delete(t *testing.T) {
	service := NewService(NewRepository(setupTestDB(t)))

	token, err := service.Create("1h", "")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if err := service.Delete(DigestSecret(token.Token)); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	listed, err := service.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("List() returned %d tokens after delete, want 0", len(listed))
	}
}

func TestService_Delete_NotFound(t *testing.T) {
	service := NewService(NewRepository(setupTestDB(t)))

	if err := service.Delete("no-such-token"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Delete() error = %v, want ErrTokenNotFound", err)
	}
}
