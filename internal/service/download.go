package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dtroode/codemap-billing/internal/logger"
	"github.com/dtroode/codemap-billing/internal/metrics"
	"github.com/dtroode/codemap-billing/internal/model"
)

// ArtifactSpec describes one downloadable file type.
type ArtifactSpec struct {
	FileName    string
	ContentType string
}

var artifacts = map[string]ArtifactSpec{
	"extension": {FileName: "codemap-extension.vsix", ContentType: "application/octet-stream"},
	"agent":     {FileName: "codemap-agent.zip", ContentType: "application/zip"},
}

// LookupArtifact returns the stored name and content type of fileType.
func LookupArtifact(fileType string) (ArtifactSpec, bool) {
	a, ok := artifacts[fileType]
	return a, ok
}

// Download gates artifact downloads on the access predicate of the user.
type Download struct {
	userStore model.UserStore
	storage   model.Storage
	prefix    string
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewDownload(
	userStore model.UserStore,
	storage model.Storage,
	prefix string,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *Download {
	return &Download{
		userStore: userStore,
		storage:   storage,
		prefix:    prefix,
		metrics:   metrics,
		logger:    logger,
	}
}

// Open returns the artifact of fileType. The caller closes Body.
func (s *Download) Open(ctx context.Context, principal model.Principal, fileType string) (artifact model.Artifact, err error) {
	if principal.IsZero() {
		return model.Artifact{}, model.ErrUnauthorized
	}
	if fileType == "" {
		return model.Artifact{}, fmt.Errorf("%w: file type is required", model.ErrBadRequest)
	}
	spec, ok := LookupArtifact(fileType)
	if !ok {
		return model.Artifact{}, fmt.Errorf("%w: invalid file type %q", model.ErrBadRequest, fileType)
	}

	defer func() { s.metrics.Download(fileType, err) }()

	user, err := s.userStore.FindByExternalID(ctx, principal.ExternalID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Artifact{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.Artifact{}, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasAccess() {
		s.logger.Info("Download service: access denied",
			"external_id", user.ExternalID, "plan", user.Plan, "file", fileType)
		return model.Artifact{}, model.ErrSubscriptionRequired
	}

	key := s.prefix + spec.FileName
	info, err := s.storage.Stat(ctx, key)
	if err != nil {
		if !errors.Is(err, model.ErrFileNotFound) {
			s.logger.Error("Download service: failed to stat artifact", "key", key, "error", err)
		}
		return model.Artifact{}, err
	}

	body, err := s.storage.Download(ctx, key)
	if err != nil {
		s.logger.Error("Download service: failed to open artifact", "key", key, "error", err)
		return model.Artifact{}, fmt.Errorf("failed to open artifact: %w", err)
	}

	return model.Artifact{
		FileName:    spec.FileName,
		ContentType: spec.ContentType,
		Size:        info.Size,
		Body:        body,
	}, nil
}

// Publish uploads the artifact of fileType.
func (s *Download) Publish(ctx context.Context, fileType string, r io.Reader, size int64) error {
	spec, ok := LookupArtifact(fileType)
	if !ok {
		return fmt.Errorf("%w: invalid file type %q", model.ErrBadRequest, fileType)
	}

	key := s.prefix + spec.FileName
	if err := s.storage.Upload(ctx, key, r, size, spec.ContentType); err != nil {
		return fmt.Errorf("failed to upload artifact: %w", err)
	}

	s.logger.Info("Download service: artifact published", "key", key, "size", size)

	return nil
}
