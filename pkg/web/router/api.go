package router

import (
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"gorm.io/gorm"

	"my-blog-api/pkg/common/config"
	"my-blog-api/pkg/core/auth"
	postdao "my-blog-api/pkg/core/post/repository/dao"
	userdao "my-blog-api/pkg/core/user/repository/dao"
	"my-blog-api/pkg/web/handler"
	"my-blog-api/pkg/web/middleware"
)

// RegisterAPIs 注册所有API路由。
// 依赖在启动时显式注入，不走包级全局变量
func RegisterAPIs(h *server.Hertz, cfg *config.Config,
	users userdao.UserRepository, posts postdao.PostRepository, db *gorm.DB) {
	// 初始化Handler实例
	hasher := auth.NewPasswordHasher(0)
	tokens := auth.NewTokenIssuer(&cfg.Middleware.JWT)

	healthHandler := handler.NewHealthCheckHandler(db)
	userHandler := handler.NewUserHandler(users, posts, hasher, tokens)
	postHandler := handler.NewPostHandler(posts)

	// 注册全局中间件（按执行顺序）
	h.Use(
		middleware.RecoveryMiddleware(cfg),
		middleware.LoggerMiddleware(),
		middleware.SecurityCheckMiddleware(cfg.Middleware.Security),
		middleware.TimeoutMiddleware(cfg.Middleware.Timeout.RequestTimeout),
		middleware.CORSMiddleware(cfg.Middleware.CORS),
		middleware.RateLimitMiddleware(
			cfg.Middleware.RateLimit.Rate,
			cfg.Middleware.RateLimit.Interval,
		),
	)

	// 认证链：令牌校验 + 每请求回查用户存储
	requireAuth := []app.HandlerFunc{
		middleware.JWTAuthMiddleware(&cfg.Middleware.JWT),
		middleware.ResolveIdentityMiddleware(users),
	}

	// 基础接口组
	h.GET("/health", healthHandler.AdvancedHealthCheck)

	// 业务接口组
	apiGroup := h.Group("/api")
	{
		// 用户相关接口
		userGroup := apiGroup.Group("/users")
		{
			userGroup.POST("/signup", userHandler.Signup)
			userGroup.POST("/login", userHandler.Login)
			userGroup.POST("/logout", userHandler.Logout)
			// 重置令牌走请求体，不要求会话
			userGroup.PUT("/password/reset", userHandler.ResetPassword)

			// 需要身份认证的接口
			meGroup := userGroup.Group("/me", requireAuth...)
			{
				meGroup.GET("", userHandler.Me)
				meGroup.PUT("", userHandler.UpdateProfile)
				meGroup.PUT("/password", userHandler.ChangePassword)
				meGroup.POST("/reset-password", userHandler.RequestPasswordReset)
				meGroup.DELETE("", userHandler.DeleteAccount)
			}
		}

		// 文章相关接口：读公开，写需要认证+所有权检查
		postGroup := apiGroup.Group("/posts")
		{
			postGroup.GET("", postHandler.List)
			postGroup.GET("/:id", postHandler.Get)

			authedPosts := postGroup.Group("", requireAuth...)
			{
				authedPosts.POST("", postHandler.Create)
				authedPosts.PUT("/:id", postHandler.Update)
				authedPosts.DELETE("/:id", postHandler.Delete)
			}
		}
	}
}
