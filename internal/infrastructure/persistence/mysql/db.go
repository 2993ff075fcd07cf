package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookstore-admin/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	// 1. 构建DSN连接字符串
	dsn := cfg.Database.DSN()

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 3. 连接数据库
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 最大打开连接数（建议：CPU核数 * 2 + 磁盘数量）
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// 最大空闲连接数（建议：MaxOpenConns的1/4到1/2）
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// 连接最大存活时间（防止数据库主动断开连接）
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 6. 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	// 7. 预置默认管理员和初始分类
	if err := seedDefaults(db); err != nil {
		return nil, err
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 注意：这里使用GORM的模型定义（带tag），不是domain层的实体
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&AdminModel{},
		&CategoryModel{},
		&BookModel{},
	)
}

// AdminModel GORM管理员模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/admin/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type AdminModel struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Nickname  string    `gorm:"size:50;not null;comment:昵称"`
	Role      string    `gorm:"size:32;not null;default:administrator;comment:角色"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (AdminModel) TableName() string {
	return "admins"
}

// CategoryModel GORM分类模型
type CategoryModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;size:100;not null;comment:分类名称"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (CategoryModel) TableName() string {
	return "categories"
}

// BookModel GORM图书模型
// 设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. Version是乐观锁版本号,Update时作为WHERE条件
// 3. 列表页固定按作者、书名排序,建复合索引idx_order
// 4. 不用软删除:删除语义是幂等的硬删除,Exists复查才能区分
//    "已删除"与"仍存在"
type BookModel struct {
	ID            uint      `gorm:"primaryKey"`
	Title         string    `gorm:"index:idx_order,priority:2;size:200;not null;comment:书名"`
	Author        string    `gorm:"index:idx_order,priority:1;size:100;not null;comment:作者"`
	Price         int64     `gorm:"not null;comment:价格(分)"`
	MatureContent bool      `gorm:"not null;default:false;comment:成人内容标记"`
	CategoryID    uint      `gorm:"index;not null;comment:分类ID"`
	Image         string    `gorm:"size:500;comment:封面文件名"`
	Version       int       `gorm:"not null;default:1;comment:乐观锁版本号"`
	CreatedAt     time.Time `gorm:"comment:创建时间"`
	UpdatedAt     time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}
