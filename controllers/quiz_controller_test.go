package controllers

import (
	"fmt"
	"net/http"
	"testing"
)

func TestCreateQuizWithTags(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)
	author := createTestUser(t, db, "author")

	w := doJSON(t, r, http.MethodPost, "/api/quiz", tokenFor(t, author), map[string]interface{}{
		"title":       "Lập trình Go",
		"description": "Quiz về Go cơ bản",
		"tags":        []string{"golang", "Backend"},
		"questions": []map[string]interface{}{
			{
				"question": "Go là ngôn ngữ gì?",
				"options": []map[string]interface{}{
					{"option": "Biên dịch", "is_correct": true},
					{"option": "Thông dịch"},
				},
			},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	quiz := body["quiz"].(map[string]interface{})
	if quiz["slug"] != "lap-trinh-go" {
		t.Errorf("slug = %v, muốn lap-trinh-go", quiz["slug"])
	}
	tags := quiz["tags"].([]interface{})
	if len(tags) != 2 {
		t.Errorf("số tag = %d, muốn 2", len(tags))
	}
	// Tag chuẩn hoá về chữ thường
	for _, raw := range tags {
		name := raw.(map[string]interface{})["name"].(string)
		if name != "golang" && name != "backend" {
			t.Errorf("tag %q chưa được chuẩn hoá", name)
		}
	}
}

// Người không sở hữu quiz không được thấy đáp án đúng
func TestGetQuizHidesAnswersFromNonOwner(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)

	owner := createTestUser(t, db, "owner")
	player := createTestUser(t, db, "player")
	quiz := createTestQuiz(t, db, owner.ID, "Go basics", 1)

	path := fmt.Sprintf("/api/quiz/%s", quiz.ID)

	w := doJSON(t, r, http.MethodGet, path, tokenFor(t, player), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	questions := decodeBody(t, w)["quiz"].(map[string]interface{})["questions"].([]interface{})
	options := questions[0].(map[string]interface{})["options"].([]interface{})
	for _, raw := range options {
		if _, leaked := raw.(map[string]interface{})["is_correct"]; leaked {
			t.Fatal("đáp án đúng bị lộ cho người làm quiz")
		}
	}

	// Chủ sở hữu vẫn thấy đầy đủ
	w = doJSON(t, r, http.MethodGet, path, tokenFor(t, owner), nil)
	questions = decodeBody(t, w)["quiz"].(map[string]interface{})["questions"].([]interface{})
	options = questions[0].(map[string]interface{})["options"].([]interface{})
	if _, ok := options[0].(map[string]interface{})["is_correct"]; !ok {
		t.Error("chủ sở hữu phải thấy is_correct")
	}
}

func TestGetPrivateQuizForbiddenForStranger(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(db)

	owner := createTestUser(t, db, "owner")
	stranger := createTestUser(t, db, "stranger")
	quiz := createTestQuiz(t, db, owner.ID, "Riêng tư", 1)
	if err := db.Model(&quiz).Update("is_private", true).Error; err != nil {
		t.Fatalf("không set được is_private: %v", err)
	}

	path := fmt.Sprintf("/api/quiz/%s", quiz.ID)
	w := doJSON(t, r, http.MethodGet, path, tokenFor(t, stranger), nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, muốn 403", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, path, tokenFor(t, owner), nil)
	if w.Code != http.StatusOK {
		t.Errorf("chủ sở hữu xem quiz riêng tư: status = %d, muốn 200", w.Code)
	}
}
