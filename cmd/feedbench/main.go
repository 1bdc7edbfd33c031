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
    "github.com/d60-Lab/moments/pkg/database"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

func pct(vs []time.Duration, p float64) time.Duration {
    if len(vs) == 0 { return 0 }
    xs := append([]time.Duration(nil), vs...)
    sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
    k := int(math.Ceil(p*float64(len(xs)))) - 1
    if k < 0 { k = 0 }
    if k >= len(xs) { k = len(xs)-1 }
    return xs[k]
}

func avg(vs []time.Duration) time.Duration {
    if len(vs) == 0 { return 0 }
    var sum time.Duration
    for _, d := range vs { sum += d }
    return sum / time.Duration(len(vs))
}

func envInt(name string, def int) int {
    if s := os.Getenv(name); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { return v } }
    return def
}

func main() {
    cfg := must(config.Load())
    db := must(database.InitDB(cfg))
    ctx := context.Background()

    users := repository.NewUserRepository(db)
    posts := repository.NewPostRepository(db)
    comments := repository.NewCommentRepository(db)
    likes := repository.NewLikeRepository(db)
    bookmarks := repository.NewBookmarkRepository(db)
    follows := repository.NewFollowRepository(db)
    feed := service.NewFeedService(posts, comments, users, likes, bookmarks)
    toggler := service.NewToggler("like", likes)

    // params
    AUTHORS := envInt("AUTHORS", 200)  // authors the viewer follows
    POSTS := envInt("POSTS", 50)       // posts per author
    NOISE := envInt("NOISE", 200)      // authors the viewer does not follow
    PAGE := envInt("PAGE", 20)         // feed page size
    LIKES := envInt("LIKES", 2000)     // like toggles to time

    // clean tables for a reproducible run (ok for local bench)
    if cfg.Database.Driver == "postgres" {
        _ = db.Exec("TRUNCATE TABLE likes, bookmarks, comments, posts, follows, users CASCADE").Error
    }

    viewer := model.User{ID: uuid.NewString(), Username: "viewer-" + uuid.NewString()[:8], FullName: "viewer"}
    viewer.Email = viewer.Username + "@example.com"
    must(0, users.Create(ctx, &viewer))

    base := time.Now().UTC()
    var postIDs []string
    seed := func(n int, followed bool) {
        for i := 0; i < n; i++ {
            id := uuid.NewString()
            u := model.User{ID: id, Username: "a" + id[:12], FullName: "author", Email: id[:12] + "@example.com"}
            must(0, users.Create(ctx, &u))
            if followed { must(0, follows.Create(ctx, viewer.ID, u.ID)) }
            batch := make([]model.Post, POSTS)
            for j := range batch {
                batch[j] = model.Post{ID: uuid.NewString(), AuthorID: u.ID, ImgURL: "https://img.example.com/x.jpg",
                    CreatedAt: base.Add(-time.Duration(i*POSTS+j) * time.Second)}
                if followed { postIDs = append(postIDs, batch[j].ID) }
            }
            must(0, db.CreateInBatches(&batch, 500).Error)
        }
    }
    seed(AUTHORS, true)
    seed(NOISE, false)
    fmt.Printf("AUTHORS=%d POSTS=%d NOISE=%d PAGE=%d LIKES=%d\n", AUTHORS, POSTS, NOISE, PAGE, LIKES)

    // like toggles on random eligible posts
    toggles := make([]time.Duration, 0, LIKES)
    for i := 0; i < LIKES && len(postIDs) > 0; i++ {
        id := postIDs[(i*7919)%len(postIDs)]
        st := time.Now()
        must(toggler.Toggle(ctx, viewer.ID, id))
        toggles = append(toggles, time.Since(st))
    }
    fmt.Printf("Like toggle: avg=%v p95=%v p99=%v\n", avg(toggles), pct(toggles, 0.95), pct(toggles, 0.99))

    // walk the whole feed page by page
    pages := make([]time.Duration, 0)
    seen := 0
    cursor := ""
    for {
        st := time.Now()
        page := must(feed.ListFeed(ctx, viewer.ID, PAGE, cursor))
        pages = append(pages, time.Since(st))
        seen += len(page.Items)
        if !page.HasMore || page.NextCursor == nil { break }
        cursor = *page.NextCursor
    }
    fmt.Printf("Feed pages=%d items=%d (want %d): avg=%v p95=%v p99=%v\n",
        len(pages), seen, len(postIDs), avg(pages), pct(pages, 0.95), pct(pages, 0.99))
    if seen != len(postIDs) {
        fmt.Println("WARNING: feed walk did not return every eligible post exactly once")
        os.Exit(1)
    }
}
