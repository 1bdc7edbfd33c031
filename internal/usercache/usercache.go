package usercache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/moments/internal/model"
)

// Snapshot 列表页所需的最小用户信息
type Snapshot struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	FullName        string `json:"fullName"`
	ProfileImageURL string `json:"profileImageURL"`
}

func SnapshotOf(u *model.User) Snapshot {
	s := Snapshot{ID: u.ID, Username: u.Username, FullName: u.FullName}
	if u.ProfileImageURL != nil {
		s.ProfileImageURL = *u.ProfileImageURL
	}
	return s
}

// Loader 批量回源
type Loader func(ctx context.Context, ids []string) ([]*model.User, error)

// Cache 用户快照的 redis 缓存：MGET 命中部分 + 一次批量回源补齐缺失部分。
// client 为 nil 时直接回源。
type Cache struct {
	client *redis.Client
	ttl    time.Duration

	loads atomic.Int64
}

func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func key(id string) string { return fmt.Sprintf("user:%s", id) }

// Load 按 ids 顺序返回快照，不存在的用户被跳过
func (c *Cache) Load(ctx context.Context, ids []string, load Loader) ([]Snapshot, error) {
	if len(ids) == 0 {
		return []Snapshot{}, nil
	}

	found := make(map[string]Snapshot, len(ids))
	if c.client != nil {
		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = key(id)
		}
		// 缓存故障降级为回源
		if vals, err := c.client.MGet(ctx, keys...).Result(); err == nil {
			for i, v := range vals {
				str, ok := v.(string)
				if !ok {
					continue
				}
				var snap Snapshot
				if json.Unmarshal([]byte(str), &snap) == nil {
					found[ids[i]] = snap
				}
			}
		}
	}

	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		c.loads.Add(1)
		users, err := load(ctx, missing)
		if err != nil {
			return nil, err
		}
		var pipe redis.Pipeliner
		if c.client != nil {
			pipe = c.client.Pipeline()
		}
		for _, u := range users {
			snap := SnapshotOf(u)
			found[u.ID] = snap
			if pipe == nil {
				continue
			}
			if payload, err := json.Marshal(snap); err == nil {
				pipe.Set(ctx, key(u.ID), payload, c.ttl)
			}
		}
		if pipe != nil {
			_, _ = pipe.Exec(ctx)
		}
	}

	res := make([]Snapshot, 0, len(ids))
	for _, id := range ids {
		if snap, ok := found[id]; ok {
			res = append(res, snap)
		}
	}
	return res, nil
}

// Loads 回源次数
func (c *Cache) Loads() int64 { return c.loads.Load() }
