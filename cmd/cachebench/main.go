package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/moments/config"
	"github.com/d60-Lab/moments/internal/model"
	"github.com/d60-Lab/moments/internal/repository"
	"github.com/d60-Lab/moments/internal/service"
	"github.com/d60-Lab/moments/internal/usercache"
	"github.com/d60-Lab/moments/pkg/cache"
	"github.com/d60-Lab/moments/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

type scenarioResult struct {
	avg, p95, p99 time.Duration
	loads         int64
}

// runScenario 重复翻页读取粉丝列表，统计延迟与回源次数
func runScenario(ctx context.Context, svc service.RelationshipService, c *usercache.Cache, username string, pages, size, rounds int) scenarioResult {
	before := c.Loads()
	var samples []time.Duration
	for r := 0; r < rounds; r++ {
		for p := 1; p <= pages; p++ {
			st := time.Now()
			must(svc.ListFollowers(ctx, username, p, size))
			samples = append(samples, time.Since(st))
		}
	}
	var sum time.Duration
	for _, d := range samples {
		sum += d
	}
	return scenarioResult{
		avg:   sum / time.Duration(len(samples)),
		p95:   pct(samples, 0.95),
		p99:   pct(samples, 0.99),
		loads: c.Loads() - before,
	}
}

func main() {
	ctx := context.Background()
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))

	cfg.Redis.Enabled = true
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	client := must(cache.NewRedis(cfg.Redis))
	defer client.Close()

	followerCount := 10000
	if s := os.Getenv("FOLLOWERS"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			followerCount = v
		}
	}
	const (
		pageSize = 50
		pages    = 10
		rounds   = 5
	)

	users := repository.NewUserRepository(db)
	follows := repository.NewFollowRepository(db)

	fmt.Println("Setting up test data...")
	star := model.User{ID: uuid.NewString(), FullName: "star"}
	star.Username = "star_" + star.ID[:8]
	star.Email = star.Username + "@example.com"
	mustDo(users.Create(ctx, &star))

	followers := make([]model.User, followerCount)
	rows := make([]model.Follow, followerCount)
	base := time.Now().UTC()
	for i := range followers {
		id := uuid.NewString()
		followers[i] = model.User{ID: id, Username: "fan_" + id[:12], FullName: fmt.Sprintf("Fan %d", i), Email: id[:12] + "@example.com"}
		rows[i] = model.Follow{FollowerID: id, FollowingID: star.ID, CreatedAt: base.Add(-time.Duration(i) * time.Second)}
	}
	mustDo(db.CreateInBatches(&followers, 1000).Error)
	mustDo(db.CreateInBatches(&rows, 1000).Error)

	// 清掉上次运行留下的快照
	mustDo(client.FlushDB(ctx).Err())

	noCache := usercache.New(nil, cfg.Redis.CacheTTL)
	withCache := usercache.New(client, cfg.Redis.CacheTTL)

	fmt.Printf("FOLLOWERS=%d PAGE_SIZE=%d PAGES=%d ROUNDS=%d\n", followerCount, pageSize, pages, rounds)
	for _, sc := range []struct {
		name  string
		cache *usercache.Cache
	}{
		{"no cache", noCache},
		{"redis snapshots (cold+warm)", withCache},
		{"redis snapshots (warm)", withCache},
	} {
		svc := service.NewRelationshipService(follows, users, sc.cache)
		res := runScenario(ctx, svc, sc.cache, star.Username, pages, pageSize, rounds)
		fmt.Printf("%-30s avg=%v p95=%v p99=%v store loads=%d\n", sc.name, res.avg, res.p95, res.p99, res.loads)
	}
}
