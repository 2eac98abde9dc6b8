package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// ErrNotConfigured is returned by the disabled client.
var ErrNotConfigured = errors.New("cloudinary: not configured")

// Client stores blog cover images.
type Client interface {
	UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
	Enabled() bool
}

type UploadResult struct {
	URL      string
	PublicID string
}

// Cover images are resized once at upload time; the site only ever shows
// them at card and header widths.
const (
	CoverWidth = 1200
	coverEager = "q_auto,f_auto,w_1200,c_limit"
)

var eagerAsyncFalse = false

type clientImpl struct {
	cloudName string
	uploader  *uploader.API
}

func (c *clientImpl) UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (*UploadResult, error) {
	result, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:     folder,
		PublicID:   publicID,
		Eager:      coverEager,
		EagerAsync: &eagerAsyncFalse,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %s", result.Error.Message)
	}
	url := result.SecureURL
	if len(result.Eager) > 0 && result.Eager[0].SecureURL != "" {
		url = result.Eager[0].SecureURL
	}
	return &UploadResult{URL: url, PublicID: result.PublicID}, nil
}

func (c *clientImpl) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	_, err := c.uploader.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}

func (c *clientImpl) Enabled() bool { return true }

type disabled struct{}

func (disabled) UploadImage(context.Context, io.Reader, string, string) (*UploadResult, error) {
	return nil, ErrNotConfigured
}

func (disabled) Delete(context.Context, string) error { return ErrNotConfigured }

func (disabled) Enabled() bool { return false }

// Disabled returns a client whose every call fails with ErrNotConfigured.
func Disabled() Client { return disabled{} }

// NewClientFromParams builds a Client from Cloudinary cloud name, API key, and secret.
func NewClientFromParams(cloudName, apiKey, apiSecret string) (Client, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &clientImpl{
		cloudName: cloudName,
		uploader:  up,
	}, nil
}
