package mysql

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 默认管理员账号(仅在表为空时写入,密码首次登录后应修改)
const (
	defaultAdminEmail    = "admin@bookstore.local"
	defaultAdminPassword = "admin123"
)

// seedDefaults 预置默认数据
// 设计说明:
// 1. 后台没有注册入口,管理员账号在首次启动时预置
// 2. 分类是编辑表单的必选项,预置一组初始分类避免空下拉框
// 3. 多实例同时启动时靠唯一索引兜底,重复错误直接忽略
func seedDefaults(db *gorm.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	return seedCategories(db)
}

// seedAdmin 预置默认管理员
func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&AdminModel{}).Count(&count).Error; err != nil {
		return fmt.Errorf("查询管理员数量失败: %w", err)
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), 12)
	if err != nil {
		return fmt.Errorf("密码加密失败: %w", err)
	}

	err = db.Create(&AdminModel{
		Email:    defaultAdminEmail,
		Password: string(hashed),
		Nickname: "管理员",
		Role:     "administrator",
	}).Error
	if err != nil {
		if isDuplicateKey(err) {
			return nil // 其他实例已预置
		}
		return fmt.Errorf("预置管理员失败: %w", err)
	}

	log.Printf("✓ 已预置默认管理员: %s", defaultAdminEmail)
	return nil
}

// seedCategories 预置初始分类
func seedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&CategoryModel{}).Count(&count).Error; err != nil {
		return fmt.Errorf("查询分类数量失败: %w", err)
	}
	if count > 0 {
		return nil
	}

	names := []string{"文学", "科技", "历史", "少儿", "生活"}
	for _, name := range names {
		err := db.Create(&CategoryModel{Name: name}).Error
		if err != nil && !isDuplicateKey(err) {
			return fmt.Errorf("预置分类失败: %w", err)
		}
	}

	log.Printf("✓ 已预置%d个初始分类", len(names))
	return nil
}

// isDuplicateKey 唯一索引冲突(MySQL错误1062)
// 多实例同时预置时另一个实例可能已先写入,这类错误按"已预置"处理
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
