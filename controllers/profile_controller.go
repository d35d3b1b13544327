package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sandeshnepal106/quiz-app/models"
	"github.com/sandeshnepal106/quiz-app/utils"
)

// GetProfile trả hồ sơ công khai của một user theo username
func GetProfile(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	username := c.Param("username")

	var user models.User
	if err := db.Preload("Interests").Where("username = ?", username).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Người dùng không tồn tại"})
		return
	}

	// Hồ sơ công khai chỉ hiện quiz public
	var quizzes []models.Quiz
	if err := db.Preload("Tags").
		Where("created_by = ? AND is_private = ?", user.ID, false).
		Order("created_at DESC").Find(&quizzes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi lấy danh sách quiz"})
		return
	}

	var followers, following int64
	db.Model(&models.Follow{}).Where("following_id = ?", user.ID).Count(&followers)
	db.Model(&models.Follow{}).Where("follower_id = ?", user.ID).Count(&following)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"profile": gin.H{
			"id":              user.ID,
			"name":            user.Name,
			"username":        user.Username,
			"profile_pic":     user.ProfilePic,
			"interests":       user.Interests,
			"follower_count":  followers,
			"following_count": following,
			"quizzes":         quizzes,
		},
	})
}

// MyDetails trả thông tin đầy đủ của user đang đăng nhập
func MyDetails(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var user models.User
	if err := db.Preload("Interests").Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Người dùng không tồn tại"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

type EditProfileInput struct {
	Name      *string  `json:"name"`
	Username  *string  `json:"username"`
	Interests []string `json:"interests"`
}

func EditProfile(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Người dùng không tồn tại"})
		return
	}

	var input EditProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Username != nil && *input.Username != user.Username {
		var clash models.User
		if err := db.Where("username = ?", *input.Username).First(&clash).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Username đã được sử dụng"})
			return
		}
		user.Username = *input.Username
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if input.Interests != nil {
			tags, err := upsertTags(tx, input.Interests)
			if err != nil {
				return err
			}
			if err := tx.Model(&user).Association("Interests").Replace(tags); err != nil {
				return err
			}
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi cập nhật hồ sơ"})
		return
	}

	db.Preload("Interests").First(&user, "id = ?", user.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cập nhật hồ sơ thành công", "user": user})
}

// UploadProfilePic nhận file multipart và đẩy lên Supabase Storage
func UploadProfilePic(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Người dùng không tồn tại"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Thiếu file ảnh"})
		return
	}
	if file.Size > 5<<20 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Ảnh không được quá 5MB"})
		return
	}

	url, err := utils.UploadAvatarToSupabase(file, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi upload ảnh"})
		return
	}

	// Ảnh cũ khác đuôi file thì không bị upsert đè, phải xoá riêng
	if user.ProfilePic != "" && user.ProfilePic != url {
		oldURL := user.ProfilePic
		go func() {
			if err := utils.DeleteFileFromSupabase(oldURL); err != nil {
				fmt.Println("Lỗi xoá ảnh cũ:", err.Error())
			}
		}()
	}

	user.ProfilePic = url
	if err := db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi lưu hồ sơ"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cập nhật ảnh đại diện thành công", "profile_pic": url})
}
