package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/xiebiao/bookstore-admin/docs" // swagger文档注册

	appadmin "github.com/xiebiao/bookstore-admin/internal/application/admin"
	appbook "github.com/xiebiao/bookstore-admin/internal/application/book"
	appcategory "github.com/xiebiao/bookstore-admin/internal/application/category"
	"github.com/xiebiao/bookstore-admin/internal/domain/admin"
	"github.com/xiebiao/bookstore-admin/internal/domain/book"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/event"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/storage"
	"github.com/xiebiao/bookstore-admin/internal/interface/http/handler"
	"github.com/xiebiao/bookstore-admin/internal/interface/http/middleware"
	"github.com/xiebiao/bookstore-admin/pkg/jwt"
	"github.com/xiebiao/bookstore-admin/pkg/metrics"
	"github.com/xiebiao/bookstore-admin/pkg/response"
	"github.com/xiebiao/bookstore-admin/pkg/tracing"
)

// @title           图书目录后台API
// @version         1.0
// @description     后台图书目录管理服务:图书增删改查、封面上传、并发编辑检测
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization

// main 主程序入口
// 说明：手动依赖注入（wire.go提供等价的Wire声明，wire gen后可切换）
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())
	fmt.Printf("  - 封面目录: %s\n", cfg.Storage.CoverDir)

	// 2. 初始化指标
	metrics.InitMetrics()

	// 3. 初始化链路追踪（可选）
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer("bookstore-admin", cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化Tracer失败: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
	}

	// 4. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 5. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 6. 初始化封面存储
	assetStore, err := storage.NewLocalAssetStore(cfg.Storage.CoverDir)
	if err != nil {
		log.Fatalf("初始化封面存储失败: %v", err)
	}

	// 7. 初始化目录事件发布（MQ未启用时静默丢弃）
	var events event.CatalogEvents = event.NopPublisher{}
	if cfg.MQ.Enabled {
		events, err = event.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
		if err != nil {
			log.Fatalf("初始化事件发布失败: %v", err)
		}
	}

	// 8. 依赖注入（手动组装）
	// 依赖链：Repository ← Service ← UseCase ← Handler

	// 基础设施层
	bookRepo := mysql.NewBookRepository(db)
	categoryRepo := mysql.NewCategoryRepository(db)
	adminRepo := mysql.NewAdminRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	bookCache := redis.NewBookCache(redisClient, cfg.Cache.BookDetailTTL)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 领域层
	bookService := book.NewService(bookRepo, assetStore)
	adminService := admin.NewService(adminRepo)

	// 应用层
	createBookUseCase := appbook.NewCreateBookUseCase(bookService, categoryRepo, txManager, events)
	editBookUseCase := appbook.NewEditBookUseCase(bookService, categoryRepo, txManager, bookCache, events)
	getBookUseCase := appbook.NewGetBookUseCase(bookService, bookCache)
	listBooksUseCase := appbook.NewListBooksUseCase(bookService)
	deleteBookUseCase := appbook.NewDeleteBookUseCase(bookService, bookCache, events)
	listCategoriesUseCase := appcategory.NewListCategoriesUseCase(categoryRepo)
	loginUseCase := appadmin.NewLoginUseCase(adminService, jwtManager, sessionStore)
	logoutUseCase := appadmin.NewLogoutUseCase(sessionStore)

	// 接口层
	bookHandler := handler.NewBookHandler(
		createBookUseCase, editBookUseCase, getBookUseCase,
		listBooksUseCase, deleteBookUseCase, listCategoriesUseCase,
		cfg.Storage.MaxUploadSize,
	)
	categoryHandler := handler.NewCategoryHandler(listCategoriesUseCase)
	authHandler := handler.NewAuthHandler(loginUseCase, logoutUseCase, jwtManager)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 9. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics())
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing("bookstore-admin"))
	}

	// 10. 注册路由
	registerRoutes(r, cfg, bookHandler, categoryHandler, authHandler, authMiddleware)

	// 11. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("\n🚀 服务启动成功！\n")
	fmt.Printf("   访问地址: http://localhost%s\n", addr)
	fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
	fmt.Printf("   API文档:  http://localhost%s/swagger/index.html\n", addr)
	fmt.Printf("   指标端点: http://localhost%s/metrics\n", addr)
	fmt.Printf("   管理登录: POST http://localhost%s/api/v1/auth/login\n", addr)
	fmt.Printf("\n按Ctrl+C停止服务\n\n")

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// registerRoutes 注册路由
// 权限约定：只有图书详情是公开接口，列表和全部写操作都要求管理员
func registerRoutes(
	r *gin.Engine,
	cfg *config.Config,
	bookHandler *handler.BookHandler,
	categoryHandler *handler.CategoryHandler,
	authHandler *handler.AuthHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标端点
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 封面静态文件
	r.Static("/covers", cfg.Storage.CoverDir)

	// API路由组
	v1 := r.Group("/api/v1")
	{
		// 认证模块
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authMiddleware.RequireAdmin(), authHandler.Logout)
		}

		// 图书详情（公开接口，不需要登录）
		v1.GET("/books/:id", bookHandler.GetBook)

		// 图书管理（需要管理员）
		books := v1.Group("/books")
		books.Use(authMiddleware.RequireAdmin())
		{
			books.GET("", bookHandler.ListBooks)
			books.POST("", bookHandler.CreateBook)
			books.PUT("/:id", bookHandler.EditBook)
			books.DELETE("/:id", bookHandler.DeleteBook)
		}

		// 分类（编辑表单下拉选项，需要管理员）
		categories := v1.Group("/categories")
		categories.Use(authMiddleware.RequireAdmin())
		{
			categories.GET("", categoryHandler.ListCategories)
		}
	}
}
