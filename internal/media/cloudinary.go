package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStorage keeps media in a Cloudinary folder. Keys have the form
// "<resource type>:<public id>" because deletion needs both.
type CloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStorage(cloudinaryURL string, folder string) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}

	return &CloudinaryStorage{
		cld:    cld,
		folder: folder,
	}, nil
}

func (s *CloudinaryStorage) Upload(ctx context.Context, file io.Reader, mimeType string, originalName string) (*Object, error) {
	key := NewKey(originalName)
	publicID := strings.TrimSuffix(key, filepath.Ext(key))

	resourceType := "image"
	if strings.HasPrefix(mimeType, "video/") {
		resourceType = "video"
	}

	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return nil, &Error{Op: OpUpload, Key: key, Err: err}
	}
	if result.Error.Message != "" {
		return nil, &Error{Op: OpUpload, Key: key, Err: errors.New(result.Error.Message)}
	}

	return &Object{
		Key: resourceType + ":" + result.PublicID,
		URL: result.SecureURL,
	}, nil
}

func (s *CloudinaryStorage) Delete(ctx context.Context, key string) error {
	resourceType, publicID, ok := strings.Cut(key, ":")
	if !ok {
		return &Error{Op: OpDelete, Key: key, Err: errors.New("malformed key")}
	}

	result, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return &Error{Op: OpDelete, Key: key, Err: err}
	}
	if result.Error.Message != "" {
		return &Error{Op: OpDelete, Key: key, Err: errors.New(result.Error.Message)}
	}
	if result.Result != "ok" {
		return &Error{Op: OpDelete, Key: key, Err: fmt.Errorf("unexpected result %q", result.Result)}
	}

	return nil
}
