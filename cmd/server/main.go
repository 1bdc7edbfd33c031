package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/d60-Lab/moments/config"
	"github.com/d60-Lab/moments/internal/api/gql"
	"github.com/d60-Lab/moments/internal/api/handler"
	"github.com/d60-Lab/moments/internal/auth"
	"github.com/d60-Lab/moments/internal/media"
	"github.com/d60-Lab/moments/internal/repository"
	"github.com/d60-Lab/moments/internal/router"
	"github.com/d60-Lab/moments/internal/service"
	"github.com/d60-Lab/moments/internal/usercache"
	"github.com/d60-Lab/moments/pkg/cache"
	"github.com/d60-Lab/moments/pkg/database"
	"github.com/d60-Lab/moments/pkg/logger"
	"github.com/d60-Lab/moments/pkg/reporting"
	"github.com/d60-Lab/moments/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	sentryOn, err := reporting.Init(cfg.Sentry)
	if err != nil {
		return err
	}
	defer reporting.Flush()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	rdb, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	store, closeStore, err := newMediaStore(ctx, cfg.Media)
	if err != nil {
		return err
	}
	defer closeStore()
	host := media.NewHost(store, media.Options{
		MaxDimension:      cfg.Media.MaxDimension,
		MaxSourceBytes:    cfg.Media.MaxSourceBytes,
		MaxSourcePixels:   cfg.Media.MaxSourcePixels,
		FetchTimeout:      cfg.Media.FetchTimeout,
		AllowPrivateHosts: cfg.Media.AllowPrivateHosts,
	})

	verifier, err := newVerifier(ctx, cfg.Google)
	if err != nil {
		return err
	}
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)

	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	comments := repository.NewCommentRepository(db)
	likes := repository.NewLikeRepository(db)
	bookmarks := repository.NewBookmarkRepository(db)
	follows := repository.NewFollowRepository(db)

	relations := service.NewRelationshipService(follows, users, usercache.New(rdb, cfg.Redis.CacheTTL))
	resolver := gql.NewResolver(gql.Services{
		Users:     service.NewUserService(users, posts, follows),
		Feed:      service.NewFeedService(posts, comments, users, likes, bookmarks),
		Posts:     service.NewPostService(posts, users, likes, bookmarks, host),
		Comments:  service.NewCommentService(comments, posts),
		Relations: relations,
		Auth:      service.NewAuthService(users, verifier, tokens),
	}, gql.SessionOptions{
		CookieName: cfg.Session.CookieName,
		Domain:     cfg.Session.Domain,
		Secure:     cfg.Session.Secure,
		SameSite:   gql.ParseSameSite(cfg.Session.SameSite),
		MaxAge:     tokens.TTL(),
	})
	schema, err := gql.NewSchema(resolver)
	if err != nil {
		return fmt.Errorf("parse graphql schema: %w", err)
	}

	engine := router.Setup(router.Deps{
		Config:        cfg,
		Handler:       handler.New(schema, relations, db, rdb),
		Tokens:        tokens,
		Redis:         rdb,
		SentryEnabled: sentryOn,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newMediaStore(ctx context.Context, cfg config.MediaConfig) (media.Store, func(), error) {
	noop := func() {}
	switch cfg.Driver {
	case "s3":
		s, err := media.NewS3Storage(cfg.S3Region, cfg.S3Bucket)
		return s, noop, err
	case "gcs":
		s, err := media.NewGCSStorage(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile)
		if err != nil {
			return nil, noop, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		s, err := media.NewLocalStorage(cfg.LocalDir, cfg.PublicBaseURL)
		return s, noop, err
	}
}

func newVerifier(ctx context.Context, cfg config.GoogleConfig) (auth.IdentityVerifier, error) {
	if cfg.Verifier == "jwks" {
		return auth.NewJWKSVerifier(ctx, cfg.JWKSURL, cfg.ClientID)
	}
	return auth.NewTokenInfoVerifier(&http.Client{Timeout: cfg.Timeout}, cfg.TokenInfoURL, cfg.ClientID), nil
}
