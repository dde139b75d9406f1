package libs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog/log"
)

type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStore prefers separate credentials and falls back to
// CLOUDINARY_URL.
func NewCloudinaryStore(cldURL, cloudName, apiKey, apiSecret, folder string) (*CloudinaryStore, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)

	switch {
	case cloudName != "" && apiKey != "" && apiSecret != "":
		cld, err = cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	case cldURL != "":
		cld, err = cloudinary.NewFromURL(cldURL)
	default:
		return nil, errors.New("cloudinary credentials not configured")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &CloudinaryStore{cld: cld, folder: folder}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, file io.Reader, filename string) (string, string, error) {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	publicID := fmt.Sprintf("%d_%s", time.Now().Unix(), strings.ReplaceAll(base, " ", "_"))

	resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         s.folder,
		ResourceType:   "image",
		Transformation: "q_auto,f_auto",
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	if resp == nil {
		return "", "", errors.New("cloudinary response is nil")
	}

	url := resp.SecureURL
	if url == "" {
		url = resp.URL
	}
	if url == "" {
		return "", "", errors.New("cloudinary returned an empty url")
	}

	log.Debug().Str("public_id", resp.PublicID).Msg("image uploaded to cloudinary")
	return url, resp.PublicID, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}

	result, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to delete from cloudinary: %w", err)
	}
	if result != nil && result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("cloudinary deletion failed: %s", result.Result)
	}
	return nil
}
