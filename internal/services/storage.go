package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BseoY/120EastState3/internal/config"
	"github.com/BseoY/120EastState3/internal/models"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

var ErrUnsupportedMedia = errors.New("unsupported file type")

// UploadResult describes a stored asset.
type UploadResult struct {
	URL       string
	PublicID  string
	MediaType string
	Filename  string
}

// Uploader is the storage-provider boundary. Handlers treat failures
// per-file: a failed upload is skipped, never aborts a submission.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, filename string) (*UploadResult, error)
	Destroy(ctx context.Context, publicID, mediaType string) error
}

var mediaExtensions = map[string]string{
	".jpg": models.MediaImage, ".jpeg": models.MediaImage, ".png": models.MediaImage,
	".gif": models.MediaImage, ".webp": models.MediaImage, ".svg": models.MediaImage,
	".mp4": models.MediaVideo, ".mov": models.MediaVideo, ".avi": models.MediaVideo,
	".webm": models.MediaVideo, ".mkv": models.MediaVideo,
	".mp3": models.MediaAudio, ".wav": models.MediaAudio, ".ogg": models.MediaAudio,
	".m4a": models.MediaAudio,
	".pdf": models.MediaDocument, ".doc": models.MediaDocument, ".docx": models.MediaDocument,
	".txt": models.MediaDocument, ".ppt": models.MediaDocument, ".pptx": models.MediaDocument,
}

// MediaTypeFromFilename derives the media kind from the file
// extension, or ErrUnsupportedMedia for anything outside the
// image/video/audio/document families.
func MediaTypeFromFilename(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	kind, ok := mediaExtensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMedia, ext)
	}
	return kind, nil
}

type CloudinaryStorage struct {
	client *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStorage(cfg *config.Config) (*CloudinaryStorage, error) {
	client, err := cloudinary.NewFromParams(cfg.Storage.CloudName, cfg.Storage.APIKey, cfg.Storage.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &CloudinaryStorage{client: client, folder: cfg.Storage.Folder}, nil
}

func (s *CloudinaryStorage) Upload(ctx context.Context, r io.Reader, filename string) (*UploadResult, error) {
	kind, err := MediaTypeFromFilename(filename)
	if err != nil {
		return nil, err
	}

	folder := s.folder
	if kind == models.MediaVideo {
		folder = s.folder + "/videos"
	}

	resp, err := s.client.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       folder,
		PublicID:     uuid.NewString(),
		ResourceType: resourceType(kind),
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}

	return &UploadResult{
		URL:       resp.SecureURL,
		PublicID:  resp.PublicID,
		MediaType: kind,
		Filename:  filename,
	}, nil
}

func (s *CloudinaryStorage) Destroy(ctx context.Context, publicID, mediaType string) error {
	if publicID == "" {
		return nil
	}
	_, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType(mediaType),
	})
	return err
}

// Cloudinary stores audio under the video resource type and
// documents as raw files.
func resourceType(kind string) string {
	switch kind {
	case models.MediaVideo, models.MediaAudio:
		return "video"
	case models.MediaDocument:
		return "raw"
	default:
		return "image"
	}
}
