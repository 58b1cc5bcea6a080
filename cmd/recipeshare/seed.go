package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/recipeshare/internal/config"
)

type tagFile struct {
	Tags []string `yaml:"tags"`
}

// readTagFile loads the tag names of a seed file.
func readTagFile(path string) ([]string, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read tag file: %w", err)
	}
	var f tagFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse tag file: %w", err)
	}
	if len(f.Tags) == 0 {
		return nil, fmt.Errorf("tag file %s lists no tags", path)
	}
	return f.Tags, nil
}

// seedTags creates the missing tags and returns how many were created.
func seedTags(ctx context.Context, cfg config.Config, logger *zap.Logger, names []string) (int, error) {
	store, err := openStore(ctx, cfg.Database, cfg.Storage.KeyPrefix)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	services, err := buildServices(ctx, store, cfg, logger)
	if err != nil {
		return 0, err
	}
	created, err := services.Tags.Seed(ctx, names)
	if err != nil {
		return created, fmt.Errorf("seed tags: %w", err)
	}
	logger.Info("Seeded tags", zap.Int("created", created), zap.Int("total", len(names)))
	return created, nil
}
