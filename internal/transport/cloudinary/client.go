// Package cloudinary stores recipe and review images on Cloudinary.
package cloudinary

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recipeshare/internal/domain"
	"github.com/kailas-cloud/recipeshare/internal/domain/image"
	"github.com/kailas-cloud/recipeshare/internal/metrics"
)

const resourceImage = "image"

// Client uploads and destroys images through the Cloudinary SDK.
type Client struct {
	cld    *cloudinary.Cloudinary
	folder string
	logger *zap.Logger
}

// Config holds the image host settings. An empty CloudName disables the client.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	// BaseURL overrides the API host (https://api.cloudinary.com).
	BaseURL string
	Folder  string
	Timeout time.Duration
	Logger  *zap.Logger
}

// New creates an image host client.
func New(cfg *Config) (*Client, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{folder: cfg.Folder, logger: log}
	if cfg.CloudName == "" {
		return c, nil
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("create cloudinary client: %w", err)
	}
	if base := strings.TrimRight(cfg.BaseURL, "/"); base != "" {
		cld.Config.API.UploadPrefix = base
	}
	if cfg.Timeout > 0 {
		secs := int64(cfg.Timeout / time.Second)
		cld.Config.API.Timeout = secs
		cld.Config.API.UploadTimeout = secs
	}
	c.cld = cld
	return c, nil
}

// Enabled reports whether a cloud is configured.
func (c *Client) Enabled() bool { return c.cld != nil }

// Upload sends the file read from r and returns the hosted image.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (image.Hosted, error) {
	if !c.Enabled() {
		return image.Hosted{}, domain.ErrImageHostDisabled
	}

	var res *uploader.UploadResult
	err := c.observe(ctx, "upload", func() (string, error) {
		var err error
		res, err = c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
			Folder:           c.folder,
			FilenameOverride: filename,
			ResourceType:     resourceImage,
		})
		if err != nil {
			return "", err
		}
		return res.Error.Message, nil
	})
	if err != nil {
		return image.Hosted{}, err
	}
	return image.Hosted{
		URL:      res.SecureURL,
		PublicID: res.PublicID,
		Width:    res.Width,
		Height:   res.Height,
		Format:   res.Format,
	}, nil
}

// Destroy deletes the hosted image. An image the host no longer has is not an error.
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	if !c.Enabled() {
		return domain.ErrImageHostDisabled
	}

	var res *uploader.DestroyResult
	err := c.observe(ctx, "destroy", func() (string, error) {
		var err error
		res, err = c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
			PublicID:     publicID,
			ResourceType: resourceImage,
			Invalidate:   api.Bool(true),
		})
		if err != nil {
			return "", err
		}
		return res.Error.Message, nil
	})
	if err != nil {
		return err
	}
	switch res.Result {
	case "ok", "not found":
		return nil
	default:
		return fmt.Errorf("destroy %s: result %q: %w", publicID, res.Result, domain.ErrImageHostFailed)
	}
}

// HealthCheck calls the authenticated admin ping endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.Enabled() {
		return domain.ErrImageHostDisabled
	}
	return c.observe(ctx, "ping", func() (string, error) {
		res, err := c.cld.Admin.Ping(ctx)
		if err != nil {
			return "", err
		}
		if res.Error.Message != "" {
			return res.Error.Message, nil
		}
		if res.Status != "ok" {
			return fmt.Sprintf("status %q", res.Status), nil
		}
		return "", nil
	})
}

// observe times call and maps both transport errors and API error bodies,
// which the SDK reports inside the result, to domain.ErrImageHostFailed.
func (c *Client) observe(ctx context.Context, op string, call func() (apiErr string, err error)) error {
	start := time.Now()
	apiErr, err := call()
	metrics.ImageHostRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		metrics.ImageHostRequestsTotal.WithLabelValues(op, "error").Inc()
		if ctx.Err() != nil {
			return fmt.Errorf("image host %s: %w", op, ctx.Err())
		}
		return fmt.Errorf("image host %s: %w: %w", op, domain.ErrImageHostFailed, err)
	case apiErr != "":
		metrics.ImageHostRequestsTotal.WithLabelValues(op, "error").Inc()
		c.logger.Warn("Image host request failed",
			zap.String("operation", op),
			zap.String("detail", apiErr),
		)
		return fmt.Errorf("image host %s: %s: %w", op, apiErr, domain.ErrImageHostFailed)
	default:
		metrics.ImageHostRequestsTotal.WithLabelValues(op, "success").Inc()
		return nil
	}
}
