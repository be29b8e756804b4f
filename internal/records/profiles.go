package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/spigell/resume-ranker/internal/storage"
)

const (
	RoleJobSeeker = "jobseeker"
	RoleRecruiter = "recruiter"
)

var ErrProfileNotFound = errors.New("profile not found")

// Profile is the identity record of a user.
type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Profiles reads identity records. The identity service owns them; Put exists
// for seeding and tests.
type Profiles struct {
	store storage.Store
}

func NewProfiles(store storage.Store) *Profiles {
	return &Profiles{store: store}
}

func (p *Profiles) Get(ctx context.Context, id string) (*Profile, error) {
	doc, err := p.store.Get(ctx, CollectionUsers, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	var profile Profile
	if err := decode(doc, &profile); err != nil {
		return nil, err
	}
	profile.ID = id

	return &profile, nil
}

// Put merges the profile fields into the stored identity record.
func (p *Profiles) Put(ctx context.Context, profile Profile) error {
	doc, err := encode(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	if err := p.store.Set(ctx, CollectionUsers, profile.ID, doc, true); err != nil {
		return fmt.Errorf("store profile: %w", err)
	}

	return nil
}
