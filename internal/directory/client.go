package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/roster/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Client reads resources from the membership directory. Every call is a single
// GET with no retries and no caching beyond what the HTTP client is configured with.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a directory client for the given base URL.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid directory URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid directory URL %q: must use http:// or https://", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid directory URL %q: missing host", baseURL)
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}, nil
}

// FetchResource GETs path relative to the base URL and decodes the JSON body into out.
// A non-2xx response is returned as a *DirectoryError.
func (c *Client) FetchResource(ctx context.Context, path string, out any) error {
	started := time.Now()
	metrics := telemetry.GetMetrics()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.DirectoryRequestErrorsTotal.Add(ctx, 1)
		return fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	attrs := metric.WithAttributes(attribute.Int("http.status_code", resp.StatusCode))
	metrics.DirectoryRequestsTotal.Add(ctx, 1, attrs)
	metrics.DirectoryRequestDuration.Record(ctx, float64(time.Since(started).Milliseconds()), attrs)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		metrics.DirectoryRequestErrorsTotal.Add(ctx, 1, attrs)
		return &DirectoryError{
			Status:     resp.StatusCode,
			StatusText: statusText(resp),
			Path:       path,
		}
	}

	// read to EOF so a caching transport can store the body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Dur("duration", time.Since(started)).
		Msg("directory resource fetched")

	return nil
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// Organizations returns the top level organization hierarchy.
func (c *Client) Organizations(ctx context.Context) ([]Organization, error) {
	var orgs []Organization
	if err := c.FetchResource(ctx, OrgsPath(), &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// SubOrg returns the sub-organization detail for subOrgID. The first element
// holds the sub-units as its children.
func (c *Client) SubOrg(ctx context.Context, subOrgID ID) ([]SubOrg, error) {
	var subOrgs []SubOrg
	if err := c.FetchResource(ctx, SubOrgPath(subOrgID), &subOrgs); err != nil {
		return nil, err
	}
	return subOrgs, nil
}

// MemberProfile returns the profile, including household, of a member.
func (c *Client) MemberProfile(ctx context.Context, memberID ID) (*MemberProfile, error) {
	profile := &MemberProfile{}
	if err := c.FetchResource(ctx, MemberProfilePath(memberID), profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// MemberCard returns the contact card of a member.
func (c *Client) MemberCard(ctx context.Context, memberID ID) (*MemberCard, error) {
	card := &MemberCard{}
	if err := c.FetchResource(ctx, MemberCardPath(memberID), card); err != nil {
		return nil, err
	}
	return card, nil
}

// FindOrganization returns the first organization named name.
func FindOrganization(orgs []Organization, name string) (Organization, error) {
	for _, org := range orgs {
		if org.Name == name {
			return org, nil
		}
	}
	return Organization{}, fmt.Errorf("%w: %q", ErrOrganizationNotFound, name)
}
