// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"chat-backend-go/internal/config"
	"chat-backend-go/internal/handler"
	"chat-backend-go/internal/middleware"
	"chat-backend-go/internal/model"
	"chat-backend-go/internal/repository"
	"chat-backend-go/internal/service"
	"chat-backend-go/pkg/database"
	"chat-backend-go/pkg/log"
	"chat-backend-go/pkg/token"
)

func main() {
	// 1. 加载配置（显式结构体，后续全部通过注入传递）
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库和 Redis
	db, err := database.NewMySQL(cfg.Database.MySQL.DSN())
	if err != nil {
		log.Fatal("failed to connect database", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Chat{}, &model.ChatMessage{}); err != nil {
		log.Fatal("failed to migrate database", err)
	}
	log.Info("MySQL database connected successfully")

	rdb, err := database.NewRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	if err != nil {
		log.Fatal("failed to connect to redis", err)
	}
	log.Info("Redis client connected successfully")

	// 4. 初始化 Repository
	userRepository := repository.NewUserRepository(db)
	chatRepository := repository.NewChatRepository(db)
	tokenBlacklist := repository.NewTokenBlacklist(rdb)

	// 5. 初始化 Service (依赖注入)
	jwtManager, err := token.NewJWTManager(cfg.Auth.SecretKey, cfg.Auth.Algorithm, cfg.Auth.AccessTokenExpireMinutes)
	if err != nil {
		log.Fatal("failed to create jwt manager", err)
	}
	authService := service.NewAuthService(userRepository, tokenBlacklist, jwtManager)
	userService := service.NewUserService(userRepository)
	chatService := service.NewChatService(chatRepository)

	// 6. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	// 添加我们自定义的日志中间件和 Gin 的 Recovery 中间件
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 7. 注册路由
	handler.RegisterRoutes(r, authService, userService, chatService)

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	log.Info("服务已优雅关闭")
}
