package utils

import (
	"os"
	"testing"

	"github.com/google/uuid"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")

	userID := uuid.New().String()
	token, err := GenerateToken(userID)
	if err != nil {
		t.Fatalf("GenerateToken lỗi: %v", err)
	}

	claims, err := VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken lỗi: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user_id = %s, muốn %s", claims.UserID, userID)
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	os.Setenv("JWT_SECRET", "secret-mot")
	token, err := GenerateToken(uuid.New().String())
	if err != nil {
		t.Fatalf("GenerateToken lỗi: %v", err)
	}

	os.Setenv("JWT_SECRET", "secret-hai")
	if _, err := VerifyToken(token); err == nil {
		t.Error("token ký bằng secret khác phải bị từ chối")
	}
}

func TestGenerateTokenMissingSecret(t *testing.T) {
	old := os.Getenv("JWT_SECRET")
	os.Unsetenv("JWT_SECRET")
	defer os.Setenv("JWT_SECRET", old)

	if _, err := GenerateToken(uuid.New().String()); err == nil {
		t.Error("thiếu JWT_SECRET phải trả lỗi")
	}
}
