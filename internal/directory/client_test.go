package directory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpoints(t *testing.T) {
	assert.Equal(t, "/services/orgs/sub-org-name-hierarchy", OrgsPath())
	assert.Equal(t, "/services/orgs/sub-orgs-with-callings?subOrgId=42", SubOrgPath("42"))
	assert.Equal(t, "/records/member-profile/service/7", MemberProfilePath("7"))
	assert.Equal(t, "/services/member-card?id=7", MemberCardPath("7"))
	assert.Equal(t, "/services/member-card?id=a%26b", MemberCardPath("a&b"))
}

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input string
		want  ID
	}{
		{input: `{"id":12345}`, want: "12345"},
		{input: `{"id":"12345"}`, want: "12345"},
		{input: `{"id":null}`, want: ""},
		{input: `{}`, want: ""},
		{input: `{"id":1.5e3}`, want: "1.5e3"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var v struct {
				ID ID `json:"id"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.input), &v))
			require.Equal(t, tt.want, v.ID)
		})
	}

	var v struct {
		ID ID `json:"id"`
	}
	require.Error(t, json.Unmarshal([]byte(`{"id":true}`), &v))
}

func TestNewClient_validation(t *testing.T) {
	for _, raw := range []string{"", "ftp://example.com", "https://", "://bad"} {
		_, err := NewClient(raw, nil)
		require.Error(t, err, raw)
	}

	c, err := NewClient("https://directory.example.com/", nil)
	require.NoError(t, err)
	require.Equal(t, "https://directory.example.com", c.baseURL)
}

func TestClient_FetchResource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"Young Women","subOrgId":42},{"name":"Young Men","subOrgId":"43"}]`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	orgs, err := c.Organizations(context.Background())
	require.NoError(t, err)
	require.Len(t, orgs, 2)
	assert.Equal(t, ID("42"), orgs[0].SubOrgID)
	assert.Equal(t, ID("43"), orgs[1].SubOrgID)

	org, err := FindOrganization(orgs, "Young Men")
	require.NoError(t, err)
	assert.Equal(t, ID("43"), org.SubOrgID)

	_, err = FindOrganization(orgs, "Primary")
	require.ErrorIs(t, err, ErrOrganizationNotFound)
}

func TestClient_FetchResource_nonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	_, err = c.MemberCard(context.Background(), "9")

	var derr *DirectoryError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, http.StatusForbidden, derr.Status)
	assert.Equal(t, "Forbidden", derr.StatusText)
	assert.Equal(t, "/services/member-card?id=9", derr.Path)
}

func TestClient_FetchResource_badJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"household":`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)

	_, err = c.MemberProfile(context.Background(), "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode")
}

func TestClient_noCachingByDefault(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Cache-Control", "max-age=3600")
		_, _ = w.Write([]byte(`{"email":"head@example.com"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, NewHTTPClient(TransportConfig{}))
	require.NoError(t, err)

	for range 3 {
		card, err := c.MemberCard(context.Background(), "1")
		require.NoError(t, err)
		require.Equal(t, "head@example.com", card.Email)
	}
	require.Equal(t, int32(3), calls.Load())
}

func TestNewHTTPClient_cache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Cache-Control", "max-age=3600")
		_, _ = w.Write([]byte(`{"email":"head@example.com"}`))
	}))
	defer srv.Close()

	for _, dir := range []string{"", t.TempDir()} {
		calls.Store(0)
		c, err := NewClient(srv.URL, NewHTTPClient(TransportConfig{Cache: true, CacheDir: dir}))
		require.NoError(t, err)

		for range 3 {
			_, err := c.MemberCard(context.Background(), "1")
			require.NoError(t, err)
		}
		require.Equal(t, int32(1), calls.Load(), "cache dir %q", dir)
	}
}

func TestNewHTTPClient_sessionHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "session=abc", r.Header.Get("Cookie"))
		assert.Equal(t, "roster", r.Header.Get("X-Requested-By"))
		_, _ = w.Write([]byte(`{"email":""}`))
	}))
	defer srv.Close()

	httpClient := NewHTTPClient(TransportConfig{
		Headers: map[string]string{"x-requested-by": "roster"},
		Cookie:  "session=abc",
	})
	c, err := NewClient(srv.URL, httpClient)
	require.NoError(t, err)

	_, err = c.MemberCard(context.Background(), "1")
	require.NoError(t, err)
}

func TestNewHTTPClient_gzipResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept-Encoding"), "gzip")
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(gzipBytes(t, `{"email":"zip@example.com"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, NewHTTPClient(TransportConfig{}))
	require.NoError(t, err)

	card, err := c.MemberCard(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, "zip@example.com", card.Email)
}
