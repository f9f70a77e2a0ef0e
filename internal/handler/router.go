package handler

import (
	"github.com/gin-gonic/gin"

	"chat-backend-go/internal/middleware"
	"chat-backend-go/internal/service"
)

// RegisterRoutes 在给定的路由引擎上注册全部 API 路由。
func RegisterRoutes(
	r *gin.Engine,
	authService service.AuthService,
	userService service.UserService,
	chatService service.ChatService,
) {
	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService)
	chatHandler := NewChatHandler(chatService)

	authRequired := middleware.AuthMiddleware(authService)

	// Auth 路由组
	auth := r.Group("/auth")
	{
		auth.POST("/token", authHandler.Token)
		auth.POST("/logout", authRequired, authHandler.Logout)
	}

	users := r.Group("/users")
	{
		// 无需认证的路由 (公开访问)
		users.POST("", userHandler.Create)

		// 需要认证的路由 (仅限登录用户访问)
		authed := users.Group("")
		authed.Use(authRequired)
		{
			authed.GET("", userHandler.List)
			authed.GET("/current", userHandler.GetCurrent)
			authed.GET("/:id", userHandler.Get)
			authed.PUT("/:id", userHandler.Update)
			authed.DELETE("/:id", userHandler.Delete)

			// 会话路由按所有者嵌套
			chats := authed.Group("/:id/chats")
			{
				chats.POST("", chatHandler.CreateChat)
				chats.GET("", chatHandler.ListChats)
				chats.DELETE("/:chatId", chatHandler.DeleteChat)
				chats.POST("/:chatId/messages", chatHandler.CreateMessage)
				chats.GET("/:chatId/messages", chatHandler.ListMessages)
			}
		}
	}
}
