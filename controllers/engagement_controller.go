package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/sandeshnepal106/quiz-app/models"
	"github.com/sandeshnepal106/quiz-app/ws"
)

// notifyUser lưu thông báo rồi đẩy realtime qua WebSocket.
// Không thông báo khi user tự tương tác với quiz của mình.
func notifyUser(db *gorm.DB, recipientID, actorID uuid.UUID, title, message, notiType string, quizID *uuid.UUID) {
	if recipientID == actorID {
		return
	}

	notification := models.Notification{
		UserID:  recipientID,
		Title:   title,
		Message: message,
		Type:    notiType,
		QuizID:  quizID,
	}
	if err := db.Create(&notification).Error; err != nil {
		log.Println("Lỗi lưu thông báo:", err)
		return
	}

	data, err := json.Marshal(gin.H{
		"type":         "notification",
		"notification": notification,
	})
	if err != nil {
		log.Println("Lỗi JSON marshal thông báo:", err)
		return
	}
	ws.H.BroadcastToUser(recipientID.String(), websocket.TextMessage, data)

	var unread int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", recipientID, false).
		Count(&unread)
	ws.SendBadgeUpdate(recipientID.String(), unread)
}

// ====== LIKE ======
func LikeQuiz(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := uuid.MustParse(c.GetString("user_id"))

	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID quiz không hợp lệ"})
		return
	}

	var quiz models.Quiz
	if err := db.First(&quiz, "id = ?", quizID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Quiz không tồn tại"})
		return
	}

	// Mỗi user chỉ like một lần
	var existing models.Like
	if err := db.Where("user_id = ? AND quiz_id = ?", userID, quizID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Bạn đã thích quiz này rồi"})
		return
	}

	like := models.Like{UserID: userID, QuizID: quizID}
	if err := db.Create(&like).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Bạn đã thích quiz này rồi"})
		return
	}

	var actor models.User
	db.Select("id", "name", "username").First(&actor, "id = ?", userID)
	go notifyUser(db, quiz.CreatedBy, userID,
		"Lượt thích mới",
		actor.Username+" đã thích quiz \""+quiz.Title+"\"",
		"like", &quiz.ID)

	var count int64
	db.Model(&models.Like{}).Where("quiz_id = ?", quizID).Count(&count)

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Đã thích quiz", "like_count": count})
}

func UnlikeQuiz(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")
	quizID := c.Param("id")

	result := db.Where("user_id = ? AND quiz_id = ?", userID, quizID).Delete(&models.Like{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi bỏ thích"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Bạn chưa thích quiz này"})
		return
	}

	var count int64
	db.Model(&models.Like{}).Where("quiz_id = ?", quizID).Count(&count)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Đã bỏ thích quiz", "like_count": count})
}

// GetLike trả tổng lượt thích và trạng thái thích của viewer (nếu đã đăng nhập)
func GetLike(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	quizID := c.Param("id")

	var count int64
	db.Model(&models.Like{}).Where("quiz_id = ?", quizID).Count(&count)

	liked := false
	if viewerID := c.GetString("user_id"); viewerID != "" {
		var existing models.Like
		if err := db.Where("user_id = ? AND quiz_id = ?", viewerID, quizID).First(&existing).Error; err == nil {
			liked = true
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "like_count": count, "liked": liked})
}

// ====== COMMENT ======
type CreateCommentInput struct {
	Comment string `json:"comment" binding:"required"`
}

func CreateComment(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := uuid.MustParse(c.GetString("user_id"))

	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID quiz không hợp lệ"})
		return
	}

	var quiz models.Quiz
	if err := db.First(&quiz, "id = ?", quizID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Quiz không tồn tại"})
		return
	}

	var input CreateCommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	comment := models.Comment{
		QuizID:  quizID,
		UserID:  userID,
		Comment: input.Comment,
	}
	if err := db.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi tạo bình luận"})
		return
	}

	db.Preload("User", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "name", "username", "profile_pic")
	}).First(&comment, "id = ?", comment.ID)

	go notifyUser(db, quiz.CreatedBy, userID,
		"Bình luận mới",
		comment.User.Username+" đã bình luận về quiz \""+quiz.Title+"\"",
		"comment", &quiz.ID)

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Đã bình luận", "comment": comment})
}

func GetComments(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	quizID := c.Param("id")

	var comments []models.Comment
	if err := db.Preload("User", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "name", "username", "profile_pic")
	}).Where("quiz_id = ?", quizID).
		Order("created_at DESC").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi lấy bình luận"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "comments": comments})
}

func DeleteComment(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var comment models.Comment
	if err := db.Where("id = ?", c.Param("commentID")).First(&comment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Bình luận không tồn tại"})
		return
	}
	if comment.UserID.String() != userID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Bạn không có quyền xoá bình luận này"})
		return
	}

	if err := db.Delete(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi xoá bình luận"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Đã xoá bình luận"})
}
