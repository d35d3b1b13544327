package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sandeshnepal106/quiz-app/models"
)

// AttemptDetail là cấu trúc hiển thị một lần làm quiz đã chấm
type AttemptDetail struct {
	ID                      uuid.UUID        `json:"id"`
	QuizID                  uuid.UUID        `json:"quiz_id"`
	QuizTitle               string           `json:"quiz_title"`
	TotalQuestions          int              `json:"total_questions"`
	TotalQuestionsAttempted int              `json:"total_questions_attempted"`
	TotalCorrectAnswers     int              `json:"total_correct_answers"`
	Score                   float64          `json:"score"`
	CreatedAt               time.Time        `json:"created_at"`
	Questions               []ReviewQuestion `json:"questions"`
}

type ReviewQuestion struct {
	ID       uuid.UUID      `json:"id"`
	Question string         `json:"question"`
	Options  []ReviewOption `json:"options"`

	// Lựa chọn của người làm, nil nếu câu này bị bỏ trống
	SelectedOptionID *uuid.UUID `json:"selected_option_id,omitempty"`
	IsCorrect        *bool      `json:"is_correct,omitempty"`
	// Đáp án đúng theo nội dung hiện tại của quiz
	CorrectOptionID *uuid.UUID `json:"correct_option_id,omitempty"`
}

type ReviewOption struct {
	ID        uuid.UUID `json:"id"`
	Option    string    `json:"option"`
	IsCorrect bool      `json:"is_correct"`
}

// ReviewService dựng lại attempt cũ để hiển thị
type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// GetAttemptDetails trả về attempt kèm câu hỏi, option, lựa chọn và đáp án đúng.
// Attempt là riêng tư, chỉ chủ attempt xem được.
// Câu hỏi và option lấy theo nội dung hiện tại của quiz, option bị sửa hoặc
// xóa sau lần làm sẽ không hiện lại bản cũ.
func (s *ReviewService) GetAttemptDetails(viewerID, attemptID uuid.UUID) (*AttemptDetail, error) {
	var attempt models.Attempt
	if err := s.db.Preload("Responses").First(&attempt, "id = ?", attemptID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}

	if attempt.UserID != viewerID {
		return nil, ErrNotAttemptOwner
	}

	var quiz models.Quiz
	if err := s.db.First(&quiz, "id = ?", attempt.QuizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	var questions []models.Question
	if err := s.db.Preload("Options").
		Where("quiz_id = ?", quiz.ID).
		Order("created_at ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	responseByQuestion := make(map[uuid.UUID]models.AttemptResponse, len(attempt.Responses))
	for _, r := range attempt.Responses {
		responseByQuestion[r.QuestionID] = r
	}

	detail := &AttemptDetail{
		ID:                      attempt.ID,
		QuizID:                  quiz.ID,
		QuizTitle:               quiz.Title,
		TotalQuestions:          attempt.TotalQuestions,
		TotalQuestionsAttempted: attempt.TotalQuestionsAttempted,
		TotalCorrectAnswers:     attempt.TotalCorrectAnswers,
		Score:                   attempt.Score,
		CreatedAt:               attempt.CreatedAt,
		Questions:               make([]ReviewQuestion, 0, len(questions)),
	}

	for _, q := range questions {
		rq := ReviewQuestion{
			ID:       q.ID,
			Question: q.Question,
			Options:  make([]ReviewOption, 0, len(q.Options)),
		}

		for _, o := range q.Options {
			rq.Options = append(rq.Options, ReviewOption{
				ID:        o.ID,
				Option:    o.Option,
				IsCorrect: o.IsCorrect,
			})
			if o.IsCorrect && rq.CorrectOptionID == nil {
				id := o.ID
				rq.CorrectOptionID = &id
			}
		}

		if resp, ok := responseByQuestion[q.ID]; ok {
			selected := resp.SelectedOptionID
			correct := resp.IsCorrect
			rq.SelectedOptionID = &selected
			rq.IsCorrect = &correct
		}

		detail.Questions = append(detail.Questions, rq)
	}

	return detail, nil
}
