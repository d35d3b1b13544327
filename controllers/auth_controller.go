package controllers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/auth/credentials/idtoken"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sandeshnepal106/quiz-app/models"
	"github.com/sandeshnepal106/quiz-app/utils"
)

// ====== INPUT STRUCTS ======
type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// ====== HANDLERS ======
func Register(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	// Check username / email đã dùng chưa
	var existing models.User
	if err := db.Where("username = ?", input.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Username đã được sử dụng"})
		return
	}
	if err := db.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email đã được sử dụng"})
		return
	}

	// Hash password
	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Không thể mã hoá mật khẩu"})
		return
	}

	newUser := models.User{
		Name:     input.Name,
		Username: input.Username,
		Email:    input.Email,
		Password: string(hashed),
	}

	if err := db.Create(&newUser).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi tạo người dùng"})
		return
	}

	token, err := utils.GenerateToken(newUser.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Không thể tạo token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Đăng ký thành công",
		"token":   token,
		"user": gin.H{
			"id":       newUser.ID,
			"name":     newUser.Name,
			"username": newUser.Username,
			"email":    newUser.Email,
		},
	})
}

func Login(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if input.Username == "" && input.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Cần username hoặc email"})
		return
	}

	// Đăng nhập bằng username hoặc email
	var user models.User
	if err := db.Where("username = ? OR email = ?", input.Username, input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Thông tin đăng nhập không đúng"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Thông tin đăng nhập không đúng"})
		return
	}

	token, err := utils.GenerateToken(user.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Không thể tạo token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Đăng nhập thành công",
		"token":   token,
		"user": gin.H{
			"id":       user.ID,
			"name":     user.Name,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// CheckAuth xác nhận token còn hiệu lực
func CheckAuth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "user_id": c.GetString("user_id")})
}

type GoogleLoginInput struct {
	IDToken string `json:"id_token" binding:"required"`
}

func GoogleLogin(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input GoogleLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	// Xác minh token với đúng GOOGLE_CLIENT_ID
	payload, err := idtoken.Validate(c, input.IDToken, os.Getenv("GOOGLE_CLIENT_ID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token Google không hợp lệ"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		// Chưa có -> tạo mới, username lấy từ phần trước @ của email
		username := strings.SplitN(email, "@", 2)[0]
		var clash models.User
		if err := db.Where("username = ?", username).First(&clash).Error; err == nil {
			username = fmt.Sprintf("%s%d", username, time.Now().Unix()%10000)
		}

		user = models.User{
			ID:       uuid.New(),
			Name:     name,
			Username: username,
			Email:    email,
			Password: "-", // login Google không dùng mật khẩu
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Không thể tạo user Google"})
			return
		}
	}

	token, err := utils.GenerateToken(user.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Không thể tạo token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user": gin.H{
			"id":       user.ID,
			"name":     user.Name,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// Đổi mật khẩu
type ChangePasswordInput struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

func ChangePassword(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var input ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Người dùng không tồn tại"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.OldPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Mật khẩu cũ không đúng"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Không thể mã hoá mật khẩu mới"})
		return
	}

	user.Password = string(hashed)
	if err := db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi cập nhật mật khẩu"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Đổi mật khẩu thành công"})
}

// ====== QUÊN MẬT KHẨU QUA OTP EMAIL ======
type SendResetOtpInput struct {
	Email string `json:"email" binding:"required,email"`
}

func SendResetOtp(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input SendResetOtpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	var user models.User
	if err := db.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Email chưa đăng ký"})
		return
	}

	otp, err := generateOtp()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Không thể tạo OTP"})
		return
	}

	reset := models.PasswordReset{
		Email:     user.Email,
		Otp:       otp,
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}
	if err := db.Create(&reset).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Không thể lưu OTP"})
		return
	}

	// Gửi email thông báo (không chặn luồng)
	go func() {
		subject := "Mã OTP đặt lại mật khẩu Quiz App"
		body := `
		<h3>Xin chào ` + user.Name + `,</h3>
		<p>Mã OTP đặt lại mật khẩu của bạn là: <b>` + otp + `</b></p>
		<p>Mã có hiệu lực trong 15 phút.</p>
		<hr>
		<p><i>Đây là email tự động, vui lòng không trả lời.</i></p>
		`
		if err := utils.SendEmail(user.Email, subject, body); err != nil {
			fmt.Println("Lỗi gửi email:", err.Error())
		}
	}()

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Đã gửi OTP qua email"})
}

type ResetPasswordInput struct {
	Email       string `json:"email" binding:"required,email"`
	Otp         string `json:"otp" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

func ResetPassword(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	var reset models.PasswordReset
	if err := db.Where("email = ? AND otp = ?", input.Email, input.Otp).
		Order("created_at DESC").First(&reset).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "OTP không đúng"})
		return
	}
	if time.Now().After(reset.ExpiresAt) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "OTP đã hết hạn"})
		return
	}

	var user models.User
	if err := db.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Email chưa đăng ký"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Không thể mã hoá mật khẩu mới"})
		return
	}

	user.Password = string(hashed)
	if err := db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi cập nhật mật khẩu"})
		return
	}

	// OTP dùng một lần
	db.Where("email = ?", input.Email).Delete(&models.PasswordReset{})

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Đặt lại mật khẩu thành công"})
}

func generateOtp() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
