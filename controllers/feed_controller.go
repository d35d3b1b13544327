package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sandeshnepal106/quiz-app/services"
)

// GetUserFeed trả một trang feed đã trộn cho user đang đăng nhập
func GetUserFeed(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	viewerID := uuid.MustParse(c.GetString("user_id"))

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 50 {
		limit = 10
	}

	feedService := services.NewFeedService(db, services.FeedConfigFromEnv())
	quizzes, totalPages, err := feedService.ComposeFeed(viewerID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi tạo feed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"page":       page,
		"limit":      limit,
		"totalPages": totalPages,
		"quizzes":    quizzes,
	})
}
