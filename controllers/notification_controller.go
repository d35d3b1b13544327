package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sandeshnepal106/quiz-app/models"
	"github.com/sandeshnepal106/quiz-app/ws"
)

// GetNotifications trả danh sách thông báo của user, mới nhất trước
func GetNotifications(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	var notifications []models.Notification
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).
		Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi lấy thông báo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": notifications})
}

func GetUnreadCount(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var count int64
	if err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi đếm thông báo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "unread_count": count})
}

func MarkNotificationRead(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var notification models.Notification
	if err := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).
		First(&notification).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Thông báo không tồn tại"})
		return
	}

	if !notification.IsRead {
		now := time.Now()
		notification.IsRead = true
		notification.ReadAt = &now
		if err := db.Save(&notification).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi cập nhật thông báo"})
			return
		}
	}

	// Đồng bộ badge trên các tab đang mở
	var unread int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread)
	ws.SendBadgeUpdate(userID, unread)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Đã đánh dấu đã đọc"})
}

func MarkAllNotificationsRead(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	now := time.Now()
	if err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi cập nhật thông báo"})
		return
	}

	ws.SendBadgeUpdate(userID, 0)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Đã đánh dấu tất cả đã đọc"})
}
