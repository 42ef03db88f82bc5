package mysql

import (
	"context"

	"gorm.io/gorm"
)

// TransactionManager 把 "在一个数据库事务中执行一段逻辑" 抽象为接口。
// - 服务层通过它把帖子/点赞/评论的行变更与冗余计数的相对增减绑进同一事务，
//   保证两者要么同时生效、要么同时回滚，计数不会因半程失败产生永久漂移。
// - 接口化的另一个目的: 单元测试可以注入直通实现，Repository 的假实现忽略 tx 句柄。
type TransactionManager interface {
	// WithTransaction 在事务中执行 fn；fn 返回非 nil 错误时整体回滚。
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// gormTransactionManager 是 TransactionManager 基于 GORM 的实现。
type gormTransactionManager struct {
	db *gorm.DB
}

// NewTransactionManager 是 gormTransactionManager 的构造函数。
func NewTransactionManager(db *gorm.DB) TransactionManager {
	return &gormTransactionManager{db: db}
}

func (m *gormTransactionManager) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}
