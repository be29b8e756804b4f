package records

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spigell/resume-ranker/internal/storage"
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrNotOwner    = errors.New("job belongs to another recruiter")
	ErrInvalidJob  = errors.New("invalid job")
)

// Job is a posting owned by one recruiter. Skills is the raw comma-delimited
// requirement string.
type Job struct {
	ID          string    `json:"id"`
	RecruiterID string    `json:"recruiter_id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Description string    `json:"description"`
	Skills      string    `json:"skills"`
	CreatedAt   time.Time `json:"created_at"`
}

type Jobs struct {
	store storage.Store
	now   func() time.Time
}

func NewJobs(store storage.Store) *Jobs {
	return &Jobs{store: store, now: time.Now}
}

// Create assigns an id and creation time and stores the job.
func (j *Jobs) Create(ctx context.Context, job Job) (*Job, error) {
	job.Title = strings.TrimSpace(job.Title)
	job.RecruiterID = strings.TrimSpace(job.RecruiterID)
	if job.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidJob)
	}
	if job.RecruiterID == "" {
		return nil, fmt.Errorf("%w: recruiter is required", ErrInvalidJob)
	}

	job.ID = uuid.NewString()
	job.CreatedAt = j.now().UTC()

	doc, err := encode(job)
	if err != nil {
		return nil, fmt.Errorf("encode job: %w", err)
	}

	if err := j.store.Set(ctx, CollectionJobs, job.ID, doc, false); err != nil {
		return nil, fmt.Errorf("store job: %w", err)
	}

	return &job, nil
}

func (j *Jobs) Get(ctx context.Context, id string) (*Job, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrJobNotFound
	}

	doc, err := j.store.Get(ctx, CollectionJobs, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	var job Job
	if err := decode(doc, &job); err != nil {
		return nil, err
	}
	job.ID = id

	return &job, nil
}

// Delete removes a job owned by recruiterID.
func (j *Jobs) Delete(ctx context.Context, id, recruiterID string) error {
	job, err := j.Get(ctx, id)
	if err != nil {
		return err
	}

	if job.RecruiterID != recruiterID {
		return ErrNotOwner
	}

	if err := j.store.Delete(ctx, CollectionJobs, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrJobNotFound, id)
		}
		return fmt.Errorf("delete job: %w", err)
	}

	return nil
}

// List returns all jobs, newest first.
func (j *Jobs) List(ctx context.Context) ([]*Job, error) {
	return j.query(ctx, nil)
}

func (j *Jobs) ListByRecruiter(ctx context.Context, recruiterID string) ([]*Job, error) {
	return j.query(ctx, func(_ string, doc storage.Document) bool {
		return doc["recruiter_id"] == recruiterID
	})
}

func (j *Jobs) query(ctx context.Context, match storage.Predicate) ([]*Job, error) {
	records, err := j.store.Query(ctx, CollectionJobs, match)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}

	jobs := make([]*Job, 0, len(records))
	for _, record := range records {
		var job Job
		if err := decode(record.Doc, &job); err != nil {
			return nil, fmt.Errorf("job %s: %w", record.ID, err)
		}
		job.ID = record.ID
		jobs = append(jobs, &job)
	}

	slices.SortStableFunc(jobs, func(a, b *Job) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return jobs, nil
}
