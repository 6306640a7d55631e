// Package storage archives raw scraped pages in Azure Blob Storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/sortinghat-io/sortinghat/pkg/lifecycle"
)

// System is the blob archive used by the classification pipeline. Upload
// stores the raw page fetched during the scrape stage; Download serves it
// back for the archived-page endpoint.
type System interface {
	Start(lc *lifecycle.Coordinator) error
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	// Download returns ErrNotFound when no blob exists at key. The caller
	// must close the reader.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

type archive struct {
	client    *azblob.Client
	container string
	logger    *slog.Logger
}

// New builds the archive client from the connection string. No network calls
// happen until Start runs the container bootstrap.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &archive{
		client:    client,
		container: cfg.ContainerName,
		logger:    logger.With("system", "storage"),
	}, nil
}

// Start ensures the archive container exists once the process comes up.
// A container that already exists is not an error.
func (s *archive) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() {
		if _, err := s.client.CreateContainer(lc.Context(), s.container, nil); err != nil {
			if !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
				s.logger.Error("storage container initialization failed", "error", err)
				return
			}
		}
		s.logger.Info("storage container ready", "container", s.container)
	})

	return nil
}

func (s *archive) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	_, err := s.client.UploadStream(ctx, s.container, key, reader, &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return fmt.Errorf("upload blob %s: %w", key, err)
	}

	return nil
}

func (s *archive) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	resp, err := s.client.DownloadStream(ctx, s.container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download blob %s: %w", key, err)
	}

	return resp.Body, nil
}

func checkKey(key string) error {
	if key == "" || strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
