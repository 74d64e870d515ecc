package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/roster/internal/classes"
	"github.com/wolfeidau/roster/internal/config"
	"github.com/wolfeidau/roster/internal/csvexport"
	"github.com/wolfeidau/roster/internal/directory"
	"github.com/wolfeidau/roster/internal/export"
	"github.com/wolfeidau/roster/internal/household"
	"github.com/wolfeidau/roster/internal/logger"
	"github.com/wolfeidau/roster/internal/roster"
	"github.com/wolfeidau/roster/internal/telemetry"
)

type ExportCmd struct {
	Org         string            `help:"Organization: Young (M)en or Young (W)omen" short:"o" env:"ROSTER_ORG"`
	Classes     string            `help:"Class letters to include, e.g. LMB (see the classes command)" short:"c" env:"ROSTER_CLASSES"`
	Server      string            `help:"Membership directory base URL" env:"ROSTER_SERVER"`
	Cookie      string            `help:"Session cookie of a signed in browser, sent with every request" env:"ROSTER_COOKIE"`
	Header      map[string]string `help:"Additional request headers (key=value)"`
	OutputDir   string            `help:"Directory the CSV file is written to (default: current directory)" env:"ROSTER_OUTPUT_DIR"`
	Stdout      bool              `help:"Write the CSV to stdout instead of a file" default:"false"`
	Concurrency int               `help:"Maximum household lookups in flight, 0 is unbounded" default:"0"`
	Memo        bool              `help:"Share head of household lookups between siblings" default:"false"`
	Cache       bool              `help:"Cache directory responses according to Cache-Control" default:"false"`
	CacheDir    string            `help:"Persist the response cache in this directory (implies --cache)"`
	Config      string            `help:"YAML profile with server, cookie, headers and output settings" env:"ROSTER_CONFIG"`
	Telemetry   bool              `help:"Export traces and metrics via OTLP (configured with OTEL_* variables)" env:"ROSTER_TELEMETRY"`
}

func (e *ExportCmd) Run(ctx context.Context, globals *Globals) error {
	if e.Config != "" {
		profile, err := config.Load(e.Config)
		if err != nil {
			return err
		}
		e.applyProfile(profile)
	}

	sel, ok, err := e.selection(globals)
	if err != nil || !ok {
		return err
	}

	if e.Server == "" {
		return fmt.Errorf("server is required (use --server, ROSTER_SERVER or a --config profile)")
	}
	if e.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative")
	}

	runID, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to create run id: %w", err)
	}

	log := logger.Setup(globals.Debug).With().Str("run_id", runID.String()).Logger()
	ctx = log.WithContext(ctx)

	if e.Telemetry {
		shutdown, err := telemetry.InitTelemetry(ctx, "roster", globals.Version)
		if err != nil {
			return fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("telemetry shutdown failed")
			}
		}()
	}

	records, err := e.build(ctx, sel)
	if err != nil {
		return err
	}

	data := csvexport.ToCSV(records)

	if e.Stdout {
		_, err := fmt.Fprint(globals.stdout(), data)
		return err
	}

	path, err := export.WriteFile(e.OutputDir, sel.Code(), data)
	if err != nil {
		return err
	}

	log.Info().
		Str("path", path).
		Str("content_type", export.MIMEType).
		Int("members", len(records)).
		Msg("roster exported")

	fmt.Fprintf(globals.stdout(), "Wrote %d members to %s\n", len(records), path)
	return nil
}

// selection validates the organization and class flags, prompting for any that
// are missing. ok is false when the user declines to answer, in which case
// nothing is exported.
func (e *ExportCmd) selection(globals *Globals) (classes.Selection, bool, error) {
	p := newPrompter(globals.stdin(), globals.stderr())

	if e.Org == "" {
		answer, err := p.ask("Which organization do you want? Young (M)en or Young (W)omen")
		if err != nil || answer == "" {
			return classes.Selection{}, false, err
		}
		e.Org = answer
	}

	org, err := classes.ValidateOrganization(e.Org)
	if err != nil {
		return classes.Selection{}, false, err
	}

	if e.Classes == "" {
		answer, err := p.ask(fmt.Sprintf("Which classes do you want to include? %s", org.Description))
		if err != nil || answer == "" {
			return classes.Selection{}, false, err
		}
		e.Classes = answer
	}

	sel, err := classes.ValidateSelection(e.Org, e.Classes)
	if err != nil {
		return classes.Selection{}, false, err
	}
	return sel, true, nil
}

func (e *ExportCmd) build(ctx context.Context, sel classes.Selection) ([]roster.MemberRecord, error) {
	httpClient := directory.NewHTTPClient(directory.TransportConfig{
		Headers:  e.Header,
		Cookie:   e.Cookie,
		Cache:    e.Cache || e.CacheDir != "",
		CacheDir: e.CacheDir,
	})

	client, err := directory.NewClient(e.Server, httpClient)
	if err != nil {
		return nil, err
	}

	var resolverOpts []household.Option
	if e.Memo {
		resolverOpts = append(resolverOpts, household.WithMemo())
	}

	aggregator := roster.New(client,
		household.NewResolver(client, resolverOpts...),
		roster.WithConcurrency(e.Concurrency),
	)

	zerolog.Ctx(ctx).Info().
		Str("org", sel.Organization.Name).
		Strs("classes", sel.Letters).
		Str("server", e.Server).
		Msg("building roster")

	records, err := aggregator.Build(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("failed to build roster: %w", err)
	}
	return records, nil
}

// applyProfile fills settings not given on the command line from profile.
func (e *ExportCmd) applyProfile(profile *config.Profile) {
	if e.Server == "" {
		e.Server = profile.Server
	}
	if e.Cookie == "" {
		e.Cookie = profile.Cookie
	}
	if e.OutputDir == "" {
		e.OutputDir = profile.OutputDir
	}
	if e.Concurrency == 0 {
		e.Concurrency = profile.Concurrency
	}
	if e.CacheDir == "" {
		e.CacheDir = profile.CacheDir
	}
	e.Memo = e.Memo || profile.Memo
	e.Cache = e.Cache || profile.Cache

	if len(profile.Headers) > 0 {
		headers := make(map[string]string, len(profile.Headers)+len(e.Header))
		for k, v := range profile.Headers {
			headers[k] = v
		}
		for k, v := range e.Header {
			headers[k] = v
		}
		e.Header = headers
	}
}
