package records

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spigell/resume-ranker/internal/storage"
)

var ErrResumeNotFound = errors.New("resume not found")

// Resume is the single stored résumé of a candidate.
type Resume struct {
	CandidateID string    `json:"candidate_id"`
	Text        string    `json:"text"`
	FileName    string    `json:"file_name,omitempty"`
	MediaType   string    `json:"media_type,omitempty"`
	ArtifactKey string    `json:"artifact_key,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type Resumes struct {
	store storage.Store
}

func NewResumes(store storage.Store) *Resumes {
	return &Resumes{store: store}
}

// Put replaces the candidate's résumé. Concurrent puts race and the last
// completed write wins.
func (r *Resumes) Put(ctx context.Context, resume Resume) error {
	if strings.TrimSpace(resume.CandidateID) == "" {
		return errors.New("candidate id is required")
	}

	doc, err := encode(resume)
	if err != nil {
		return fmt.Errorf("encode resume: %w", err)
	}

	if err := r.store.Set(ctx, CollectionResumes, resume.CandidateID, doc, false); err != nil {
		return fmt.Errorf("store resume: %w", err)
	}

	return nil
}

func (r *Resumes) Get(ctx context.Context, candidateID string) (*Resume, error) {
	if strings.TrimSpace(candidateID) == "" {
		return nil, ErrResumeNotFound
	}

	doc, err := r.store.Get(ctx, CollectionResumes, candidateID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrResumeNotFound, candidateID)
	}
	if err != nil {
		return nil, fmt.Errorf("get resume: %w", err)
	}

	var resume Resume
	if err := decode(doc, &resume); err != nil {
		return nil, err
	}
	resume.CandidateID = candidateID

	return &resume, nil
}

// List returns every stored résumé in store order.
func (r *Resumes) List(ctx context.Context) ([]*Resume, error) {
	records, err := r.store.Query(ctx, CollectionResumes, nil)
	if err != nil {
		return nil, fmt.Errorf("query resumes: %w", err)
	}

	resumes := make([]*Resume, 0, len(records))
	for _, record := range records {
		var resume Resume
		if err := decode(record.Doc, &resume); err != nil {
			return nil, fmt.Errorf("resume %s: %w", record.ID, err)
		}
		resume.CandidateID = record.ID
		resumes = append(resumes, &resume)
	}

	return resumes, nil
}
