package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sandeshnepal106/quiz-app/models"
)

func FollowUser(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	followerID := uuid.MustParse(c.GetString("user_id"))

	followingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "ID người dùng không hợp lệ"})
		return
	}
	if followerID == followingID {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Không thể tự follow chính mình"})
		return
	}

	var target models.User
	if err := db.First(&target, "id = ?", followingID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Người dùng không tồn tại"})
		return
	}

	var existing models.Follow
	if err := db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Bạn đã follow người này rồi"})
		return
	}

	follow := models.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := db.Create(&follow).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Bạn đã follow người này rồi"})
		return
	}

	var actor models.User
	db.Select("id", "name", "username").First(&actor, "id = ?", followerID)
	go notifyUser(db, followingID, followerID,
		"Người theo dõi mới",
		actor.Username+" đã bắt đầu theo dõi bạn",
		"follow", nil)

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Đã follow"})
}

func UnfollowUser(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	followerID := c.GetString("user_id")
	followingID := c.Param("id")

	result := db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi unfollow"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Bạn chưa follow người này"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Đã unfollow"})
}

// GetFollowDetails trả số follower, số following và trạng thái follow của viewer
func GetFollowDetails(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	targetID := c.Param("id")

	var target models.User
	if err := db.First(&target, "id = ?", targetID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Người dùng không tồn tại"})
		return
	}

	var followers, following int64
	db.Model(&models.Follow{}).Where("following_id = ?", targetID).Count(&followers)
	db.Model(&models.Follow{}).Where("follower_id = ?", targetID).Count(&following)

	isFollowing := false
	if viewerID := c.GetString("user_id"); viewerID != "" {
		var existing models.Follow
		if err := db.Where("follower_id = ? AND following_id = ?", viewerID, targetID).
			First(&existing).Error; err == nil {
			isFollowing = true
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"follower_count":  followers,
		"following_count": following,
		"is_following":    isFollowing,
	})
}
