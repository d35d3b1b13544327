package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sandeshnepal106/quiz-app/controllers"
	"github.com/sandeshnepal106/quiz-app/middleware"
	"github.com/sandeshnepal106/quiz-app/ws"
)

func SetupRouter(r *gin.Engine, db *gorm.DB) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")
	api.Use(middleware.DBMiddleware(db))

	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/logingoogle", controllers.GoogleLogin)
		auth.POST("/send-reset-otp", controllers.SendResetOtp)
		auth.POST("/reset-password", controllers.ResetPassword)

		auth.GET("/check", middleware.AuthMiddleware(), controllers.CheckAuth)
		auth.PUT("/change-password", middleware.AuthMiddleware(), controllers.ChangePassword)
	}

	quiz := api.Group("/quiz")
	{
		// Route công khai, viewer đăng nhập hay không đều xem được
		quiz.GET("/:id/comments", middleware.OptionalAuthMiddleware(), controllers.GetComments)
		quiz.GET("/:id/like", middleware.OptionalAuthMiddleware(), controllers.GetLike)

		quiz.Use(middleware.AuthMiddleware())

		quiz.POST("", controllers.CreateQuiz)
		quiz.POST("/generate", controllers.GenerateQuizWithAI)
		quiz.GET("/:id", controllers.GetQuiz)
		quiz.PUT("/:id", controllers.UpdateQuiz)
		quiz.DELETE("/:id", controllers.DeleteQuiz)

		// Quản lý câu hỏi
		quiz.POST("/:id/questions", controllers.CreateQuestion)
		quiz.PUT("/questions/:questionID", controllers.UpdateQuestion)
		quiz.DELETE("/questions/:questionID", controllers.DeleteQuestion)
		quiz.POST("/questions/:questionID/options", controllers.CreateOption)

		// Làm bài
		quiz.POST("/:id/attempt", controllers.SubmitAttempt)

		// Tương tác
		quiz.POST("/:id/like", controllers.LikeQuiz)
		quiz.DELETE("/:id/like", controllers.UnlikeQuiz)
		quiz.POST("/:id/comments", controllers.CreateComment)
		quiz.DELETE("/comments/:commentID", controllers.DeleteComment)
	}

	user := api.Group("/user")
	{
		user.GET("/profile/:username", middleware.OptionalAuthMiddleware(), controllers.GetProfile)
		user.GET("/:id/follow", middleware.OptionalAuthMiddleware(), controllers.GetFollowDetails)

		user.Use(middleware.AuthMiddleware())

		user.GET("/me", controllers.MyDetails)
		user.PUT("/me", controllers.EditProfile)
		user.POST("/me/avatar", controllers.UploadProfilePic)

		user.GET("/feed", controllers.GetUserFeed)
		user.GET("/quizzes", controllers.GetMyQuizzes)
		user.GET("/quizzes/private", controllers.GetPrivateQuizzes)
		user.GET("/attempts", controllers.GetMyAttempts)
		user.GET("/attempts/:attemptID", controllers.GetAttemptDetail)

		user.POST("/:id/follow", controllers.FollowUser)
		user.DELETE("/:id/follow", controllers.UnfollowUser)

		user.GET("/notifications", controllers.GetNotifications)
		user.GET("/notifications/unread-count", controllers.GetUnreadCount)
		user.PATCH("/notifications/:id/read", controllers.MarkNotificationRead)
		user.PATCH("/notifications/read-all", controllers.MarkAllNotificationsRead)
	}

	r.GET("/ws/notifications", ws.HandleNotificationWebSocket)

	return r
}
