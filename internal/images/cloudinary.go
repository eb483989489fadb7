// Package images stores uploaded property photos in Cloudinary and hands
// back their public URLs.
package images

import (
	"bytes"
	"context"
	"errors"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"property-match-go/internal/config"
)

type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinary(cfg config.ImagesConfig) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		return nil, err
	}
	return &CloudinaryStore{cld: cld, folder: cfg.Folder}, nil
}

// Upload stores the image under <root folder>/<folder> and returns its
// HTTPS URL.
func (s *CloudinaryStore) Upload(ctx context.Context, folder, filename string, data []byte) (string, error) {
	result, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       s.folder + "/" + folder,
		PublicID:     filename,
		ResourceType: "image",
	})
	if err != nil {
		return "", err
	}
	return result.SecureURL, nil
}

// DisabledStore rejects uploads when no Cloudinary URL is configured. The
// rest of the application keeps working without image hosting.
type DisabledStore struct{}

func NewDisabled() DisabledStore {
	return DisabledStore{}
}

func (DisabledStore) Upload(ctx context.Context, folder, filename string, data []byte) (string, error) {
	return "", errors.New("image uploads are not configured")
}
