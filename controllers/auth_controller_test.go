package controllers

import (
	"net/http"
	"testing"
)

func TestRegisterLoginFlow(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     "Nguyễn Văn A",
		"username": "nguyenvana",
		"email":    "a@example.com",
		"password": "secret123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["token"] == "" || body["token"] == nil {
		t.Error("register không trả token")
	}

	// Đăng nhập bằng username
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"username": "nguyenvana",
		"password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", w.Code, w.Body.String())
	}

	// Đăng nhập bằng email
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "a@example.com",
		"password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login bằng email status = %d", w.Code)
	}

	// Sai mật khẩu
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"username": "nguyenvana",
		"password": "saimatkhau",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("login sai mật khẩu status = %d, muốn 401", w.Code)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	createTestUser(t, db, "taken")

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":     "B",
		"username": "taken",
		"email":    "b@example.com",
		"password": "secret123",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, muốn 400", w.Code)
	}
}
