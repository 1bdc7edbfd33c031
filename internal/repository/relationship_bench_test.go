package repository

import (
    "context"
    "fmt"
    "math/rand"
    "testing"
    "time"

    "github.com/d60-Lab/moments/internal/model"
    "github.com/d60-Lab/moments/pkg/database"
)

func BenchmarkLikeToggleWrite(b *testing.B) {
    db := database.NewTestDB(b)
    likes := NewLikeRepository(db)
    ctx := context.Background()

    r := rand.New(rand.NewSource(time.Now().UnixNano()))
    b.ResetTimer()
    for i := 0; i < b.N; i++ {
        user := fmt.Sprintf("u%04d", r.Intn(1000))
        post := fmt.Sprintf("p%04d", r.Intn(1000))
        // delete-or-create，与业务层 toggle 一致
        if err := likes.Delete(ctx, user, post); err == ErrNotFound {
            _ = likes.Create(ctx, user, post)
        }
    }
}

func BenchmarkFeedPage(b *testing.B) {
    db := database.NewTestDB(b)
    posts := NewPostRepository(db)
    follows := NewFollowRepository(db)
    ctx := context.Background()

    // 构造：viewer 关注 N 个作者，每人 M 条帖子
    const N, M = 200, 20
    viewer := model.User{ID: "viewer", Username: "viewer", FullName: "viewer", Email: "viewer@example.com"}
    _ = db.Create(&viewer).Error
    base := time.Now().UTC()
    for i := 0; i < N; i++ {
        uid := fmt.Sprintf("a%03d", i)
        _ = db.Create(&model.User{ID: uid, Username: uid, FullName: uid, Email: uid + "@example.com"}).Error
        _ = follows.Create(ctx, viewer.ID, uid)
        batch := make([]model.Post, M)
        for j := range batch {
            batch[j] = model.Post{ID: fmt.Sprintf("%s-%02d", uid, j), AuthorID: uid, ImgURL: "x", CreatedAt: base.Add(-time.Duration(i*M+j) * time.Second)}
        }
        _ = db.CreateInBatches(&batch, 100).Error
    }

    b.ResetTimer()
    b.Run("FirstPage", func(b *testing.B) {
        for i := 0; i < b.N; i++ {
            _, _ = posts.ListFeed(ctx, viewer.ID, "", 21)
        }
    })

    b.Run("DeepCursor", func(b *testing.B) {
        for i := 0; i < b.N; i++ {
            _, _ = posts.ListFeed(ctx, viewer.ID, "a150-10", 21)
        }
    })
}
