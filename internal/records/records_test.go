package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spigell/resume-ranker/internal/storage"
)

func TestJobsLifecycle(t *testing.T) {
	ctx := context.Background()
	jobs := NewJobs(storage.NewMemory())

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	jobs.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	first, err := jobs.Create(ctx, Job{RecruiterID: "r1", Title: " Go Engineer ", Skills: "Go, SQL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID == "" {
		t.Fatalf("expected generated id")
	}
	if first.Title != "Go Engineer" {
		t.Fatalf("expected trimmed title, got %q", first.Title)
	}

	second, err := jobs.Create(ctx, Job{RecruiterID: "r2", Title: "Data Engineer", Skills: "Python"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := jobs.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Skills != "Go, SQL" || got.RecruiterID != "r1" {
		t.Fatalf("unexpected job: %+v", got)
	}
	if !got.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("expected created_at %v to round-trip, got %v", first.CreatedAt, got.CreatedAt)
	}

	all, err := jobs.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID || all[1].ID != first.ID {
		t.Fatalf("expected newest job first, got %+v", all)
	}

	mine, err := jobs.ListByRecruiter(ctx, "r1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != first.ID {
		t.Fatalf("unexpected recruiter jobs: %+v", mine)
	}

	if err := jobs.Delete(ctx, first.ID, "r2"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	if err := jobs.Delete(ctx, first.ID, "r1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := jobs.Get(ctx, first.ID); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}

	if err := jobs.Delete(ctx, first.ID, "r1"); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound on second delete, got %v", err)
	}
}

func TestJobsCreateValidates(t *testing.T) {
	jobs := NewJobs(storage.NewMemory())

	tests := []struct {
		name string
		job  Job
	}{
		{name: "missing title", job: Job{RecruiterID: "r1"}},
		{name: "missing recruiter", job: Job{Title: "Go Engineer"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := jobs.Create(context.Background(), tt.job); !errors.Is(err, ErrInvalidJob) {
				t.Fatalf("expected ErrInvalidJob, got %v", err)
			}
		})
	}
}

func TestJobsGetEmptyID(t *testing.T) {
	jobs := NewJobs(storage.NewMemory())

	if _, err := jobs.Get(context.Background(), " "); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestResumesPutReplaces(t *testing.T) {
	ctx := context.Background()
	resumes := NewResumes(storage.NewMemory())

	uploaded := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	if err := resumes.Put(ctx, Resume{
		CandidateID: "c1",
		Text:        "old text",
		FileName:    "old.pdf",
		ArtifactKey: "resumes/c1/old.pdf",
		UploadedAt:  uploaded,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := resumes.Put(ctx, Resume{CandidateID: "c1", Text: "new text", UploadedAt: uploaded.Add(time.Hour)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := resumes.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "new text" {
		t.Fatalf("expected latest text, got %q", got.Text)
	}
	if got.FileName != "" || got.ArtifactKey != "" {
		t.Fatalf("expected every field replaced, got %+v", got)
	}
	if !got.UploadedAt.Equal(uploaded.Add(time.Hour)) {
		t.Fatalf("unexpected uploaded_at: %v", got.UploadedAt)
	}

	list, err := resumes.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].CandidateID != "c1" {
		t.Fatalf("unexpected resumes: %+v", list)
	}
}

func TestResumesErrors(t *testing.T) {
	resumes := NewResumes(storage.NewMemory())

	if _, err := resumes.Get(context.Background(), "missing"); !errors.Is(err, ErrResumeNotFound) {
		t.Fatalf("expected ErrResumeNotFound, got %v", err)
	}

	if err := resumes.Put(context.Background(), Resume{Text: "x"}); err == nil {
		t.Fatalf("expected error for missing candidate id")
	}
}

func TestProfilesMergeAndDecode(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()

	// Identity documents may carry fields this service does not model.
	if err := store.Set(ctx, CollectionUsers, "u1", storage.Document{
		"email":      "ada@example.com",
		"role":       RoleJobSeeker,
		"created_at": "2025-01-01T00:00:00Z",
	}, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	profiles := NewProfiles(store)

	got, err := profiles.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "u1" || got.Email != "ada@example.com" || got.Role != RoleJobSeeker {
		t.Fatalf("unexpected profile: %+v", got)
	}

	if err := profiles.Put(ctx, Profile{ID: "u1", Email: "ada@example.org", Role: RoleRecruiter}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc, _ := store.Get(ctx, CollectionUsers, "u1")
	if doc["created_at"] != "2025-01-01T00:00:00Z" {
		t.Fatalf("expected unrelated fields to survive a merge, got %+v", doc)
	}

	if _, err := profiles.Get(ctx, "missing"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestDecodeWeaklyTypedDocument(t *testing.T) {
	var job Job
	err := decode(storage.Document{
		"title":      "Go Engineer",
		"skills":     "go",
		"created_at": "2025-03-01T10:00:00.5Z",
		"company":    42,
	}, &job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if job.Company != "42" {
		t.Fatalf("expected weakly typed company, got %q", job.Company)
	}
	if job.CreatedAt.Nanosecond() != 500_000_000 {
		t.Fatalf("expected fractional seconds to be preserved, got %v", job.CreatedAt)
	}
}
