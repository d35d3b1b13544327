package services

import "errors"

var (
	// ErrQuizNotFound khi quiz không tồn tại
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrAttemptNotFound khi attempt không tồn tại
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrEmptyResponses khi bài nộp không có câu trả lời nào
	ErrEmptyResponses = errors.New("no responses submitted")
	// ErrQuestionNotInQuiz khi câu trả lời trỏ tới câu hỏi không thuộc quiz
	ErrQuestionNotInQuiz = errors.New("question does not belong to quiz")
	// ErrDuplicateQuestion khi một câu hỏi được trả lời nhiều lần trong cùng bài nộp
	ErrDuplicateQuestion = errors.New("question answered more than once")
	// ErrNotAttemptOwner khi xem attempt của người khác
	ErrNotAttemptOwner = errors.New("attempt belongs to another user")
)
