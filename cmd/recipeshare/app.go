package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recipeshare/internal/config"
	"github.com/kailas-cloud/recipeshare/internal/db"
	"github.com/kailas-cloud/recipeshare/internal/db/embedded"
	dbRedis "github.com/kailas-cloud/recipeshare/internal/db/redis"
	domcol "github.com/kailas-cloud/recipeshare/internal/domain/collection"
	domimage "github.com/kailas-cloud/recipeshare/internal/domain/image"
	domnote "github.com/kailas-cloud/recipeshare/internal/domain/note"
	domrecipe "github.com/kailas-cloud/recipeshare/internal/domain/recipe"
	domreview "github.com/kailas-cloud/recipeshare/internal/domain/review"
	domtag "github.com/kailas-cloud/recipeshare/internal/domain/tag"
	domuser "github.com/kailas-cloud/recipeshare/internal/domain/user"
	"github.com/kailas-cloud/recipeshare/internal/repository/document"
	chiTransport "github.com/kailas-cloud/recipeshare/internal/transport/chi"
	"github.com/kailas-cloud/recipeshare/internal/transport/cloudinary"
	authuc "github.com/kailas-cloud/recipeshare/internal/usecase/auth"
	collectionuc "github.com/kailas-cloud/recipeshare/internal/usecase/collection"
	healthuc "github.com/kailas-cloud/recipeshare/internal/usecase/health"
	imageuc "github.com/kailas-cloud/recipeshare/internal/usecase/image"
	"github.com/kailas-cloud/recipeshare/internal/usecase/listing"
	noteuc "github.com/kailas-cloud/recipeshare/internal/usecase/note"
	recipeuc "github.com/kailas-cloud/recipeshare/internal/usecase/recipe"
	reviewuc "github.com/kailas-cloud/recipeshare/internal/usecase/review"
	taguc "github.com/kailas-cloud/recipeshare/internal/usecase/tag"
	useruc "github.com/kailas-cloud/recipeshare/internal/usecase/user"
)

// openStore connects the configured driver and waits until it answers.
func openStore(ctx context.Context, cfg config.DatabaseConfig, keyPrefix string) (db.Store, error) {
	var (
		store db.Store
		err   error
	)
	switch cfg.Driver {
	case config.DriverRedis:
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.Addrs,
			Password:  cfg.Password,
			KeyPrefix: keyPrefix,
		})
	case config.DriverEmbedded:
		store, err = embedded.NewStore(embedded.Config{
			Dir:      cfg.DataDir,
			InMemory: cfg.DataDir == "",
		})
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	return store, nil
}

// buildServices is the composition root: repositories, the list resolver,
// the image host and every use case.
func buildServices(ctx context.Context, store db.Store, cfg config.Config, logger *zap.Logger) (chiTransport.Services, error) {
	set := document.NewSet(store)
	if err := set.EnsureIndexes(ctx); err != nil {
		return chiTransport.Services{}, fmt.Errorf("ensure indexes: %w", err)
	}

	users := document.NewRepo[domuser.User](set.Users)
	recipes := document.NewRepo[domrecipe.Recipe](set.Recipes)
	reviews := document.NewRepo[domreview.Review](set.Reviews)
	cols := document.NewRepo[domcol.Collection](set.Collections)
	tags := document.NewRepo[domtag.Tag](set.Tags)
	notes := document.NewRepo[domnote.Note](set.Notes)
	images := document.NewRepo[domimage.Image](set.Images)

	limit := cfg.Listing.DefaultLimit
	// Tag lists accept no tags parameter, so their resolver needs no tag lookup.
	tagSvc := taguc.New(tags, listing.New(nil, limit), set.Tags)
	lister := listing.New(tagSvc, limit)

	hasher := authuc.NewBcrypt(cfg.Auth.BcryptCost)
	host, err := cloudinary.New(&cloudinary.Config{
		CloudName: cfg.Images.CloudName,
		APIKey:    cfg.Images.APIKey,
		APISecret: cfg.Images.APISecret,
		BaseURL:   cfg.Images.BaseURL,
		Folder:    cfg.Images.Folder,
		Timeout:   time.Duration(cfg.Images.TimeoutSec) * time.Second,
		Logger:    logger,
	})
	if err != nil {
		return chiTransport.Services{}, err
	}
	if !host.Enabled() {
		logger.Info("Image host not configured, uploads disabled")
	}

	return chiTransport.Services{
		Auth:  authuc.New(users, hasher, authuc.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry())),
		Users: useruc.New(users, hasher, lister, set.Users),
		Recipes: recipeuc.New(recipeuc.Deps{
			Repo:        recipes,
			Users:       users,
			Reviews:     reviews,
			Collections: cols,
			Tags:        tagSvc,
			Lister:      lister,
			Handle:      set.Recipes,
		}),
		Reviews:     reviewuc.New(reviews, recipes, users, lister, set.Reviews),
		Collections: collectionuc.New(cols, users, recipes, lister, set.Collections),
		Tags:        tagSvc,
		Notes:       noteuc.New(notes, recipes),
		Images:      imageuc.New(host, images, users, recipes, reviews),
		Health:      healthuc.New(store, host),
	}, nil
}
