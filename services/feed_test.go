package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sandeshnepal106/quiz-app/models"
)

func feedIDs(feed []models.Quiz) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(feed))
	for _, q := range feed {
		set[q.ID] = true
	}
	return set
}

func seedQuizzes(t *testing.T, db *gorm.DB, owner uuid.UUID, prefix string, n int) []models.Quiz {
	t.Helper()
	quizzes := make([]models.Quiz, 0, n)
	for i := 0; i < n; i++ {
		quizzes = append(quizzes, createTestQuiz(t, db, owner, fmt.Sprintf("%s %d", prefix, i+1), 1))
	}
	return quizzes
}

// Quiz đã like, đã làm hoặc tự tạo không được xuất hiện lại trong feed
func TestComposeFeedExcludesInteractedQuizzes(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author")
	viewer := createTestUser(t, db, "viewer")

	quizzes := seedQuizzes(t, db, author.ID, "Quiz", 5)
	mine := createTestQuiz(t, db, viewer.ID, "Quiz của tôi", 1)

	liked := quizzes[0]
	if err := db.Create(&models.Like{UserID: viewer.ID, QuizID: liked.ID}).Error; err != nil {
		t.Fatalf("không tạo được like: %v", err)
	}
	attempted := quizzes[1]
	if _, err := NewScoringService(db).SubmitAttempt(viewer.ID, attempted.ID, []ResponseInput{
		{QuestionID: attempted.Questions[0].ID, SelectedOptionID: correctOption(t, attempted.Questions[0]).ID},
	}); err != nil {
		t.Fatalf("không nộp được bài: %v", err)
	}
	commented := quizzes[2]
	if err := db.Create(&models.Comment{
		QuizID:  commented.ID,
		UserID:  viewer.ID,
		Comment: "Quiz hay!",
	}).Error; err != nil {
		t.Fatalf("không tạo được comment: %v", err)
	}

	feed, _, err := NewFeedService(db, DefaultFeedConfig()).ComposeFeed(viewer.ID, 1, 10)
	if err != nil {
		t.Fatalf("ComposeFeed lỗi: %v", err)
	}

	ids := feedIDs(feed)
	if ids[liked.ID] {
		t.Error("feed chứa quiz đã like")
	}
	if ids[attempted.ID] {
		t.Error("feed chứa quiz đã làm")
	}
	if ids[commented.ID] {
		t.Error("feed chứa quiz đã bình luận")
	}
	if ids[mine.ID] {
		t.Error("feed chứa quiz do chính viewer tạo")
	}
	if len(feed) != 2 {
		t.Errorf("len(feed) = %d, muốn 2", len(feed))
	}
}

// Pool ưu tiên cạn thì phần còn lại được lấp bằng pool khám phá, không trùng lặp
func TestComposeFeedMixesPriorityAndDiscovery(t *testing.T) {
	db := newTestDB(t)
	followed := createTestUser(t, db, "followed")
	stranger := createTestUser(t, db, "stranger")
	viewer := createTestUser(t, db, "viewer")

	if err := db.Create(&models.Follow{FollowerID: viewer.ID, FollowingID: followed.ID}).Error; err != nil {
		t.Fatalf("không tạo được follow: %v", err)
	}

	priority := seedQuizzes(t, db, followed.ID, "Ưu tiên", 5)
	seedQuizzes(t, db, stranger.ID, "Khám phá", 10)

	feed, _, err := NewFeedService(db, DefaultFeedConfig()).ComposeFeed(viewer.ID, 1, 10)
	if err != nil {
		t.Fatalf("ComposeFeed lỗi: %v", err)
	}

	if len(feed) != 10 {
		t.Fatalf("len(feed) = %d, muốn 10", len(feed))
	}

	ids := feedIDs(feed)
	if len(ids) != len(feed) {
		t.Error("feed có quiz trùng lặp")
	}
	for _, q := range priority {
		if !ids[q.ID] {
			t.Errorf("quiz ưu tiên %s không có trong feed", q.Title)
		}
	}
}

// Tag trùng sở thích cũng đưa quiz vào pool ưu tiên
func TestComposeFeedInterestTagsArePriority(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author")
	viewer := createTestUser(t, db, "viewer")

	tag := models.Tag{Name: "golang"}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("không tạo được tag: %v", err)
	}
	if err := db.Model(&viewer).Association("Interests").Append(&tag); err != nil {
		t.Fatalf("không gắn được sở thích: %v", err)
	}

	tagged := createTestQuiz(t, db, author.ID, "Quiz golang", 1)
	if err := db.Model(&tagged).Association("Tags").Append(&tag); err != nil {
		t.Fatalf("không gắn được tag: %v", err)
	}
	seedQuizzes(t, db, author.ID, "Khác", 3)

	feed, _, err := NewFeedService(db, DefaultFeedConfig()).ComposeFeed(viewer.ID, 1, 4)
	if err != nil {
		t.Fatalf("ComposeFeed lỗi: %v", err)
	}

	if len(feed) == 0 || feed[0].ID != tagged.ID {
		t.Errorf("quiz có tag trùng sở thích phải đứng đầu feed, feed = %v", feed)
	}
}

// Không follow ai và không có sở thích thì feed vẫn đầy từ pool khám phá
func TestComposeFeedDiscoveryOnly(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author")
	viewer := createTestUser(t, db, "viewer")

	seedQuizzes(t, db, author.ID, "Quiz", 8)

	feed, _, err := NewFeedService(db, DefaultFeedConfig()).ComposeFeed(viewer.ID, 1, 5)
	if err != nil {
		t.Fatalf("ComposeFeed lỗi: %v", err)
	}
	if len(feed) != 5 {
		t.Errorf("len(feed) = %d, muốn 5", len(feed))
	}
}

// Quiz riêng tư không bao giờ vào feed
func TestComposeFeedSkipsPrivateQuizzes(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author")
	viewer := createTestUser(t, db, "viewer")

	private := createTestQuiz(t, db, author.ID, "Riêng tư", 1)
	if err := db.Model(&private).Update("is_private", true).Error; err != nil {
		t.Fatalf("không set được is_private: %v", err)
	}
	public := createTestQuiz(t, db, author.ID, "Công khai", 1)

	feed, _, err := NewFeedService(db, DefaultFeedConfig()).ComposeFeed(viewer.ID, 1, 10)
	if err != nil {
		t.Fatalf("ComposeFeed lỗi: %v", err)
	}

	ids := feedIDs(feed)
	if ids[private.ID] {
		t.Error("feed chứa quiz riêng tư")
	}
	if !ids[public.ID] {
		t.Error("feed thiếu quiz công khai")
	}
}

// totalPages = ceil(số quiz chưa tương tác / limit)
func TestComposeFeedTotalPages(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author")
	viewer := createTestUser(t, db, "viewer")

	seedQuizzes(t, db, author.ID, "Quiz", 25)

	_, totalPages, err := NewFeedService(db, DefaultFeedConfig()).ComposeFeed(viewer.ID, 1, 10)
	if err != nil {
		t.Fatalf("ComposeFeed lỗi: %v", err)
	}
	if totalPages != 3 {
		t.Errorf("totalPages = %d, muốn 3", totalPages)
	}
}

func TestComposeFeedEmptyInventory(t *testing.T) {
	db := newTestDB(t)
	viewer := createTestUser(t, db, "viewer")

	feed, totalPages, err := NewFeedService(db, DefaultFeedConfig()).ComposeFeed(viewer.ID, 1, 10)
	if err != nil {
		t.Fatalf("ComposeFeed lỗi: %v", err)
	}
	if len(feed) != 0 {
		t.Errorf("len(feed) = %d, muốn 0", len(feed))
	}
	if totalPages != 0 {
		t.Errorf("totalPages = %d, muốn 0", totalPages)
	}
}
