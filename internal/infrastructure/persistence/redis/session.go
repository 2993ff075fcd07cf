package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

// SessionStore 管理员会话存储
// 设计说明：
// 1. 使用Redis存储管理员登录会话
// 2. 支持JWT黑名单（登出、强制下线）：JWT本身是无状态的，
//    黑名单是服务端主动让Token失效的唯一手段
// 3. Key设计：session:{admin_id}、blacklist:{token}
// 4. 过期时间策略：session与Refresh Token一致，blacklist与
//    Access Token剩余有效期一致，过期自动删除无需手动清理
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// SaveSession 保存管理员会话（登录时间、IP地址等）
func (s *SessionStore) SaveSession(ctx context.Context, adminID uint, sessionData map[string]interface{}, ttl time.Duration) error {
	key := fmt.Sprintf("session:%d", adminID)

	// HMSet批量设置多个字段，减少网络往返
	if err := s.client.HMSet(ctx, key, sessionData).Err(); err != nil {
		return apperrors.Wrap(err, "保存会话失败")
	}

	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return apperrors.Wrap(err, "设置会话过期时间失败")
	}

	return nil
}

// GetSession 获取管理员会话
func (s *SessionStore) GetSession(ctx context.Context, adminID uint) (map[string]string, error) {
	key := fmt.Sprintf("session:%d", adminID)

	result, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, "获取会话失败")
	}

	if len(result) == 0 {
		return nil, apperrors.ErrUnauthorized
	}

	return result, nil
}

// DeleteSession 删除管理员会话（用于登出）
func (s *SessionStore) DeleteSession(ctx context.Context, adminID uint) error {
	key := fmt.Sprintf("session:%d", adminID)

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return apperrors.Wrap(err, "删除会话失败")
	}

	return nil
}

// AddToBlacklist 将Token加入黑名单
// 使用场景：登出、Token泄露后强制失效、修改密码后强制所有Token失效
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	key := fmt.Sprintf("blacklist:%s", token)

	if err := s.client.Set(ctx, key, "revoked", ttl).Err(); err != nil {
		return apperrors.Wrap(err, "添加Token到黑名单失败")
	}

	return nil
}

// IsInBlacklist 检查Token是否在黑名单中
func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	key := fmt.Sprintf("blacklist:%s", token)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, apperrors.Wrap(err, "检查黑名单失败")
	}

	return exists > 0, nil
}
