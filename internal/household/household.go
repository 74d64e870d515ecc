package household

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/roster/internal/directory"
	"github.com/wolfeidau/roster/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"
)

// ErrHeadOfHouseholdNotFound is returned when a member's household has no member
// flagged as head of household.
var ErrHeadOfHouseholdNotFound = errors.New("head of household not found")

// Directory is the subset of the directory client used to resolve households.
type Directory interface {
	MemberProfile(ctx context.Context, memberID directory.ID) (*directory.MemberProfile, error)
	MemberCard(ctx context.Context, memberID directory.ID) (*directory.MemberCard, error)
}

// Resolver looks up the contact email of a member's head of household.
// It is safe for concurrent use.
type Resolver struct {
	dir  Directory
	memo bool

	group  singleflight.Group
	mu     sync.Mutex
	emails map[directory.ID]string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMemo shares head of household card lookups between members of the same
// household. The member profile is still fetched once per member.
func WithMemo() Option {
	return func(r *Resolver) {
		r.memo = true
	}
}

// NewResolver creates a resolver reading households from dir.
func NewResolver(dir Directory, opts ...Option) *Resolver {
	r := &Resolver{
		dir:    dir,
		emails: make(map[directory.ID]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveHouseholdEmail fetches the member's profile, finds the head of household
// and returns the email from the head's member card.
func (r *Resolver) ResolveHouseholdEmail(ctx context.Context, memberID directory.ID) (string, error) {
	telemetry.GetMetrics().HouseholdResolutionsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.Bool("memo", r.memo)))

	profile, err := r.dir.MemberProfile(ctx, memberID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch profile for member %s: %w", memberID, err)
	}

	headID, err := HeadOfHousehold(profile)
	if err != nil {
		return "", fmt.Errorf("member %s: %w", memberID, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("member_id", memberID.String()).
		Str("head_id", headID.String()).
		Msg("resolved head of household")

	if !r.memo {
		return r.cardEmail(ctx, headID)
	}

	r.mu.Lock()
	email, ok := r.emails[headID]
	r.mu.Unlock()
	if ok {
		telemetry.GetMetrics().HouseholdMemoHitsTotal.Add(ctx, 1)
		return email, nil
	}

	v, err, _ := r.group.Do(headID.String(), func() (any, error) {
		r.mu.Lock()
		email, ok := r.emails[headID]
		r.mu.Unlock()
		if ok {
			return email, nil
		}

		email, err := r.cardEmail(ctx, headID)
		if err != nil {
			return "", err
		}

		r.mu.Lock()
		r.emails[headID] = email
		r.mu.Unlock()

		return email, nil
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

func (r *Resolver) cardEmail(ctx context.Context, headID directory.ID) (string, error) {
	card, err := r.dir.MemberCard(ctx, headID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch member card for head of household %s: %w", headID, err)
	}
	return card.Email, nil
}

// HeadOfHousehold returns the id of the first household member flagged as head.
func HeadOfHousehold(profile *directory.MemberProfile) (directory.ID, error) {
	if profile == nil {
		return "", ErrHeadOfHouseholdNotFound
	}
	for _, m := range profile.Household.Members {
		if m.HeadOfHousehold {
			return m.ID, nil
		}
	}
	return "", ErrHeadOfHouseholdNotFound
}
