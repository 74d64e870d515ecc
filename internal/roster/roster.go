package roster

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/roster/internal/classes"
	"github.com/wolfeidau/roster/internal/directory"
	"github.com/wolfeidau/roster/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// MemberRecord is one output row.
type MemberRecord struct {
	Name           string
	Email          string
	HouseholdEmail string
}

// Directory is the subset of the directory client used to locate sub-units.
type Directory interface {
	Organizations(ctx context.Context) ([]directory.Organization, error)
	SubOrg(ctx context.Context, subOrgID directory.ID) ([]directory.SubOrg, error)
}

// HouseholdResolver resolves the household email of a member lacking one.
type HouseholdResolver interface {
	ResolveHouseholdEmail(ctx context.Context, memberID directory.ID) (string, error)
}

// Aggregator builds rosters from the directory.
type Aggregator struct {
	dir      Directory
	resolver HouseholdResolver
	limit    int
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithConcurrency bounds the number of household lookups in flight. Zero or a
// negative value leaves the fan-out unbounded.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		a.limit = n
	}
}

// New creates an aggregator resolving missing household emails with resolver.
func New(dir Directory, resolver HouseholdResolver, opts ...Option) *Aggregator {
	a := &Aggregator{dir: dir, resolver: resolver}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Build returns the members of every sub-unit matching the selection, in
// directory order. Members without a household email are resolved concurrently;
// any resolution failure aborts the whole build.
func (a *Aggregator) Build(ctx context.Context, sel classes.Selection) (records []MemberRecord, err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "roster.Build", trace.WithAttributes(
		attribute.String("roster.org", sel.Code()),
		attribute.StringSlice("roster.classes", sel.Letters),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	log := zerolog.Ctx(ctx)

	units, err := a.SubUnits(ctx, sel)
	if err != nil {
		return nil, err
	}

	members := Flatten(units)

	log.Info().
		Int("units", len(units)).
		Int("members", len(members)).
		Msg("matched sub-units")

	records, err = a.resolve(ctx, members)
	if err != nil {
		return nil, err
	}

	telemetry.GetMetrics().RosterMembersTotal.Add(ctx, int64(len(records)),
		metric.WithAttributes(attribute.String("org", sel.Code())))
	span.SetAttributes(attribute.Int("roster.members", len(records)))

	return records, nil
}

// SubUnits locates the selected organization and returns its sub-units whose
// type is part of the selection, in directory order.
func (a *Aggregator) SubUnits(ctx context.Context, sel classes.Selection) ([]directory.SubUnit, error) {
	orgs, err := a.dir.Organizations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch organizations: %w", err)
	}

	org, err := directory.FindOrganization(orgs, sel.Organization.Name)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("name", org.Name).
		Str("sub_org_id", org.SubOrgID.String()).
		Msg("found organization")

	subOrgs, err := a.dir.SubOrg(ctx, org.SubOrgID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sub-organization %s: %w", org.SubOrgID, err)
	}
	if len(subOrgs) == 0 {
		return nil, nil
	}

	return FilterUnits(subOrgs[0].Children, sel), nil
}

// FilterUnits keeps the units whose firstOrgType is part of the selection.
func FilterUnits(units []directory.SubUnit, sel classes.Selection) []directory.SubUnit {
	var selected []directory.SubUnit
	for _, unit := range units {
		if sel.Has(unit.FirstOrgType) {
			selected = append(selected, unit)
		}
	}
	return selected
}

// Flatten concatenates the members of units, unit order first then member order.
func Flatten(units []directory.SubUnit) []directory.MemberStub {
	var members []directory.MemberStub
	for _, unit := range units {
		members = append(members, unit.Members...)
	}
	return members
}

// resolve fans out a household lookup for each member lacking a household email.
// Each goroutine writes only its own slot, so output order is member order.
func (a *Aggregator) resolve(ctx context.Context, members []directory.MemberStub) ([]MemberRecord, error) {
	records := make([]MemberRecord, len(members))

	g, gctx := errgroup.WithContext(ctx)
	if a.limit > 0 {
		g.SetLimit(a.limit)
	}

	pending := 0
	for i, m := range members {
		records[i] = MemberRecord{
			Name:           m.Name,
			Email:          m.Email,
			HouseholdEmail: m.HouseholdEmail,
		}
		if m.HouseholdEmail != "" {
			continue
		}

		pending++
		g.Go(func() error {
			email, err := a.resolver.ResolveHouseholdEmail(gctx, m.ID)
			if err != nil {
				return fmt.Errorf("failed to resolve household email for %q: %w", m.Name, err)
			}
			records[i].HouseholdEmail = email
			return nil
		})
	}

	zerolog.Ctx(ctx).Debug().Int("pending", pending).Msg("resolving household emails")

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return records, nil
}
