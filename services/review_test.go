package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestGetAttemptDetailsNotFound(t *testing.T) {
	db := newTestDB(t)
	viewer := createTestUser(t, db, "viewer")

	_, err := NewReviewService(db).GetAttemptDetails(viewer.ID, uuid.New())
	if !errors.Is(err, ErrAttemptNotFound) {
		t.Fatalf("err = %v, muốn ErrAttemptNotFound", err)
	}
}

// Attempt là riêng tư, người khác xem bị từ chối
func TestGetAttemptDetailsOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner")
	player := createTestUser(t, db, "player")
	intruder := createTestUser(t, db, "intruder")
	quiz := createTestQuiz(t, db, owner.ID, "Go basics", 2)

	attempt, err := NewScoringService(db).SubmitAttempt(player.ID, quiz.ID, []ResponseInput{
		{QuestionID: quiz.Questions[0].ID, SelectedOptionID: correctOption(t, quiz.Questions[0]).ID},
	})
	if err != nil {
		t.Fatalf("không nộp được bài: %v", err)
	}

	if _, err := NewReviewService(db).GetAttemptDetails(intruder.ID, attempt.ID); !errors.Is(err, ErrNotAttemptOwner) {
		t.Fatalf("err = %v, muốn ErrNotAttemptOwner", err)
	}
}

func TestGetAttemptDetailsReconstruction(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner")
	player := createTestUser(t, db, "player")
	quiz := createTestQuiz(t, db, owner.ID, "Go basics", 3)

	answered := quiz.Questions[0]
	wrongAnswered := quiz.Questions[1]
	// câu thứ ba bỏ trống

	attempt, err := NewScoringService(db).SubmitAttempt(player.ID, quiz.ID, []ResponseInput{
		{QuestionID: answered.ID, SelectedOptionID: correctOption(t, answered).ID},
		{QuestionID: wrongAnswered.ID, SelectedOptionID: wrongOption(t, wrongAnswered).ID},
	})
	if err != nil {
		t.Fatalf("không nộp được bài: %v", err)
	}

	detail, err := NewReviewService(db).GetAttemptDetails(player.ID, attempt.ID)
	if err != nil {
		t.Fatalf("GetAttemptDetails lỗi: %v", err)
	}

	if detail.QuizTitle != quiz.Title {
		t.Errorf("quiz_title = %q, muốn %q", detail.QuizTitle, quiz.Title)
	}
	if detail.TotalCorrectAnswers != 1 || detail.TotalQuestionsAttempted != 2 {
		t.Errorf("counts sai: %+v", detail)
	}
	if len(detail.Questions) != 3 {
		t.Fatalf("số câu hỏi = %d, muốn 3", len(detail.Questions))
	}

	byID := make(map[uuid.UUID]ReviewQuestion, len(detail.Questions))
	for _, q := range detail.Questions {
		byID[q.ID] = q
	}

	first := byID[answered.ID]
	if first.SelectedOptionID == nil || *first.SelectedOptionID != correctOption(t, answered).ID {
		t.Error("câu 1 thiếu lựa chọn của người làm")
	}
	if first.IsCorrect == nil || !*first.IsCorrect {
		t.Error("câu 1 phải được chấm đúng")
	}

	second := byID[wrongAnswered.ID]
	if second.IsCorrect == nil || *second.IsCorrect {
		t.Error("câu 2 phải được chấm sai")
	}
	if second.CorrectOptionID == nil || *second.CorrectOptionID != correctOption(t, wrongAnswered).ID {
		t.Error("câu 2 thiếu đáp án đúng")
	}

	skipped := byID[quiz.Questions[2].ID]
	if skipped.SelectedOptionID != nil || skipped.IsCorrect != nil {
		t.Error("câu bỏ trống không được có lựa chọn")
	}
	if len(skipped.Options) != 4 {
		t.Errorf("câu bỏ trống vẫn phải hiện đủ option, có %d", len(skipped.Options))
	}
}
