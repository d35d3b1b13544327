package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sandeshnepal106/quiz-app/models"
)

// ResponseInput là một câu trả lời trong bài nộp
type ResponseInput struct {
	QuestionID       uuid.UUID `json:"questionId" binding:"required"`
	SelectedOptionID uuid.UUID `json:"selectedOptionId" binding:"required"`
}

// ScoringService chấm bài và lưu attempt
type ScoringService struct {
	db *gorm.DB
}

func NewScoringService(db *gorm.DB) *ScoringService {
	return &ScoringService{db: db}
}

// SubmitAttempt chấm toàn bộ bài nộp và lưu một Attempt bất biến.
// Bài nộp chứa câu hỏi không thuộc quiz thì từ chối cả bài, không lưu gì.
// Điểm chia cho tổng số câu hỏi của quiz chứ không phải số câu đã trả lời,
// nên nộp thiếu câu sẽ bị trừ điểm tương ứng.
func (s *ScoringService) SubmitAttempt(userID, quizID uuid.UUID, responses []ResponseInput) (*models.Attempt, error) {
	if len(responses) == 0 {
		return nil, ErrEmptyResponses
	}

	var quiz models.Quiz
	if err := s.db.First(&quiz, "id = ?", quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	var questions []models.Question
	if err := s.db.Where("quiz_id = ?", quizID).Order("created_at ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	totalQuestions := len(questions)

	questionSet := make(map[uuid.UUID]bool, totalQuestions)
	for _, q := range questions {
		questionSet[q.ID] = true
	}

	// Mỗi câu hỏi chỉ được trả lời một lần, câu lặp làm correct vượt quá
	// tổng số câu và score vượt 100
	questionIDs := make([]uuid.UUID, 0, len(responses))
	answered := make(map[uuid.UUID]bool, len(responses))
	for _, r := range responses {
		if !questionSet[r.QuestionID] {
			return nil, fmt.Errorf("%w: %s", ErrQuestionNotInQuiz, r.QuestionID)
		}
		if answered[r.QuestionID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateQuestion, r.QuestionID)
		}
		answered[r.QuestionID] = true
		questionIDs = append(questionIDs, r.QuestionID)
	}

	// Lấy toàn bộ option của các câu hỏi được trả lời trong một query,
	// gom thành map theo question_id
	var options []models.Option
	if err := s.db.Where("question_id IN ?", questionIDs).Find(&options).Error; err != nil {
		return nil, err
	}
	optionsByQuestion := make(map[uuid.UUID][]models.Option, len(questionIDs))
	for _, o := range options {
		optionsByQuestion[o.QuestionID] = append(optionsByQuestion[o.QuestionID], o)
	}

	rows, totalCorrect := evaluateResponses(responses, optionsByQuestion)

	score := 0.0
	if totalQuestions > 0 {
		score = (float64(totalCorrect) / float64(totalQuestions)) * 100
	}

	attempt := models.Attempt{
		UserID:                  userID,
		QuizID:                  quizID,
		TotalQuestions:          totalQuestions,
		TotalQuestionsAttempted: len(responses),
		TotalCorrectAnswers:     totalCorrect,
		Score:                   score,
		Responses:               rows,
	}

	// Attempt và responses được ghi trong cùng một transaction
	if err := s.db.Create(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

// evaluateResponses chấm từng câu trả lời và chụp lại text các lựa chọn.
// Câu hỏi không có đáp án đúng (soạn dở dang) thì câu trả lời tính là sai.
func evaluateResponses(responses []ResponseInput, optionsByQuestion map[uuid.UUID][]models.Option) ([]models.AttemptResponse, int) {
	rows := make([]models.AttemptResponse, 0, len(responses))
	totalCorrect := 0

	for _, r := range responses {
		var selectedText, correctText string
		var correctID uuid.UUID

		for _, o := range optionsByQuestion[r.QuestionID] {
			if o.ID == r.SelectedOptionID {
				selectedText = o.Option
			}
			if o.IsCorrect && correctID == uuid.Nil {
				correctID = o.ID
				correctText = o.Option
			}
		}

		isCorrect := correctID != uuid.Nil && r.SelectedOptionID == correctID
		if isCorrect {
			totalCorrect++
		}

		rows = append(rows, models.AttemptResponse{
			QuestionID:         r.QuestionID,
			SelectedOptionID:   r.SelectedOptionID,
			IsCorrect:          isCorrect,
			SelectedOptionText: selectedText,
			CorrectOptionID:    correctID,
			CorrectOptionText:  correctText,
		})
	}

	return rows, totalCorrect
}
