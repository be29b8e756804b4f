package jobboard

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/extract"
	"github.com/spigell/resume-ranker/internal/logger"
	"github.com/spigell/resume-ranker/internal/records"
)

// Upload is a résumé file delivered for one candidate.
type Upload struct {
	CandidateID string
	FileName    string
	MediaType   string
	Data        []byte
}

// UploadResume stores the file, extracts its text and replaces the
// candidate's résumé. Nothing is stored when the media type is unsupported,
// and the stored file is removed again when extraction fails.
func (s *Service) UploadResume(ctx context.Context, up Upload) (*records.Resume, error) {
	candidateID := strings.TrimSpace(up.CandidateID)
	if candidateID == "" || strings.ContainsAny(candidateID, `/\`) || strings.Contains(candidateID, "..") {
		return nil, fmt.Errorf("%w: candidate id %q", ErrInvalidUpload, up.CandidateID)
	}

	mediaType := extract.Normalize(up.MediaType)
	if !extract.Supported(mediaType) {
		return nil, fmt.Errorf("%w: %s", extract.ErrUnsupportedFormat, mediaType)
	}

	log := s.logger.With(zap.String(logger.FieldCandidateID, candidateID), zap.String("media_type", mediaType))

	key := artifactKey(candidateID, mediaType)
	if err := s.artifacts.Put(ctx, key, up.Data, mediaType); err != nil {
		return nil, fmt.Errorf("store artifact: %w", err)
	}

	text, err := extract.Extract(up.Data, mediaType)
	if err != nil {
		s.discard(ctx, log, key)
		log.Info("resume rejected", zap.Error(err))
		return nil, err
	}

	previous, err := s.resumes.Get(ctx, candidateID)
	if err != nil && !errors.Is(err, records.ErrResumeNotFound) {
		s.discard(ctx, log, key)
		return nil, err
	}

	resume := records.Resume{
		CandidateID: candidateID,
		Text:        text,
		FileName:    path.Base(strings.ReplaceAll(strings.TrimSpace(up.FileName), `\`, "/")),
		MediaType:   mediaType,
		ArtifactKey: key,
		UploadedAt:  s.now().UTC(),
	}
	if resume.FileName == "." || resume.FileName == "/" {
		resume.FileName = ""
	}

	if err := s.resumes.Put(ctx, resume); err != nil {
		s.discard(ctx, log, key)
		return nil, err
	}

	if previous != nil && previous.ArtifactKey != "" && previous.ArtifactKey != key {
		s.discard(ctx, log, previous.ArtifactKey)
	}

	log.Info("resume stored", zap.Int("text_length", len(text)), zap.String("artifact_key", key))
	return &resume, nil
}

func (s *Service) discard(ctx context.Context, log *zap.Logger, key string) {
	if err := s.artifacts.Delete(context.WithoutCancel(ctx), key); err != nil {
		log.Warn("failed to delete artifact", zap.String("artifact_key", key), zap.Error(err))
	}
}
