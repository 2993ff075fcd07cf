package mysql

import (
	"context"

	"gorm.io/gorm"
)

// txCtxKey 事务DB在context中的键(私有类型防止冲突)
type txCtxKey struct{}

var txKey = txCtxKey{}

// TxManager 事务管理器
// 设计说明:
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB(避免全局变量)
// 3. 用于"检查分类存在+写入图书"这类跨表写路径,保证检查与写入
//    之间分类不会被删除
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// fn函数内的所有Repository操作都会在同一事务中执行;
// fn返回error时自动ROLLBACK,返回nil时自动COMMIT
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 将事务DB注入到Context中,Repository的getDB方法会提取它
		txCtx := context.WithValue(ctx, txKey, tx)
		return fn(txCtx)
	})
}
