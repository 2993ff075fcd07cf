//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 说明：
// 1. Wire是Google开发的编译期依赖注入工具，生成代码而非运行时反射
// 2. 运行 `wire gen ./cmd/api` 生成wire_gen.go后，main.go可切换到
//    InitializeApp()，与手动组装完全等价
// 3. Provider提供依赖的构造函数，Injector声明最终要构造的目标类型

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

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
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,
	mysql.NewDB,
	redis.NewClient,
	provideAssetStore,
	provideCatalogEvents,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewBookRepository,
	mysql.NewCategoryRepository,
	mysql.NewAdminRepository,
	mysql.NewTxManager,
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	book.NewService,
	admin.NewService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appbook.NewCreateBookUseCase,
	appbook.NewEditBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewDeleteBookUseCase,
	appcategory.NewListCategoriesUseCase,
	appadmin.NewLoginUseCase,
	appadmin.NewLogoutUseCase,
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideSessionStore,
	provideBookCache,
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	provideBookHandler,
	handler.NewCategoryHandler,
	handler.NewAuthHandler,
)

// =========================================
// 自定义Provider：参数需要从Config中提取的依赖
// =========================================

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建会话存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideBookCache 从配置创建图书详情缓存
func provideBookCache(client *goredis.Client, cfg *config.Config) *redis.BookCache {
	return redis.NewBookCache(client, cfg.Cache.BookDetailTTL)
}

// provideAssetStore 从配置创建封面存储（并绑定到领域接口）
func provideAssetStore(cfg *config.Config) (book.AssetStore, error) {
	return storage.NewLocalAssetStore(cfg.Storage.CoverDir)
}

// provideCatalogEvents 从配置创建事件发布器（MQ未启用时使用空实现）
func provideCatalogEvents(cfg *config.Config) (event.CatalogEvents, error) {
	if !cfg.MQ.Enabled {
		return event.NopPublisher{}, nil
	}
	return event.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
}

// provideBookHandler 创建图书处理器（上传大小限制来自配置）
func provideBookHandler(
	createBookUseCase *appbook.CreateBookUseCase,
	editBookUseCase *appbook.EditBookUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	listBooksUseCase *appbook.ListBooksUseCase,
	deleteBookUseCase *appbook.DeleteBookUseCase,
	listCategoriesUseCase *appcategory.ListCategoriesUseCase,
	cfg *config.Config,
) *handler.BookHandler {
	return handler.NewBookHandler(
		createBookUseCase, editBookUseCase, getBookUseCase,
		listBooksUseCase, deleteBookUseCase, listCategoriesUseCase,
		cfg.Storage.MaxUploadSize,
	)
}

// provideGinEngine 创建并配置Gin引擎（路由注册见main.go的registerRoutes）
func provideGinEngine(
	cfg *config.Config,
	bookHandler *handler.BookHandler,
	categoryHandler *handler.CategoryHandler,
	authHandler *handler.AuthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics())
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing("bookstore-admin"))
	}

	registerRoutes(r, cfg, bookHandler, categoryHandler, authHandler, authMiddleware)
	return r
}

// InitializeApp 初始化整个应用
// Wire会在wire_gen.go中生成实际的初始化代码，这里的返回值是占位符
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideGinEngine,
	)
	return nil, nil
}
