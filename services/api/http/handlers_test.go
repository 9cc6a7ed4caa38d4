package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riverbed-labs/nwisfetch/services/api/config"
	"github.com/riverbed-labs/nwisfetch/services/api/db"
)

type fakeStore struct {
	sites        []db.Site
	observations []db.Observation
	lastQuery    db.ObservationQuery
}

func (f *fakeStore) ListSites(context.Context) ([]db.Site, error) {
	return f.sites, nil
}

func (f *fakeStore) GetSite(_ context.Context, siteNo string) (*db.Site, error) {
	for _, s := range f.sites {
		if s.SiteNo == siteNo {
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FetchObservations(_ context.Context, q db.ObservationQuery) ([]db.Observation, error) {
	f.lastQuery = q
	return f.observations, nil
}

func (f *fakeStore) LatestBySite(_ context.Context, siteNo string) ([]db.Observation, error) {
	return f.observations, nil
}

func newTestServer(store Store, cfg config.Config) *Server {
	if cfg.DefaultLimit == 0 {
		cfg.DefaultLimit = 200
	}
	return New(cfg, store)
}

func doRequest(s *Server, method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func TestHandleListSites(t *testing.T) {
	store := &fakeStore{sites: []db.Site{
		{SiteNo: "07381590", DataType: "iv"},
		{SiteNo: "15565447", DataType: "qwdata"},
	}}
	s := newTestServer(store, config.Config{})

	w := doRequest(s, http.MethodGet, "/site", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Sites []db.Site `json:"sites"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Sites, 2)
}

func TestHandleGetSite_NotFound(t *testing.T) {
	s := newTestServer(&fakeStore{}, config.Config{})

	w := doRequest(s, http.MethodGet, "/site/00000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleObservations(t *testing.T) {
	ts := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{observations: []db.Observation{
		{SiteNo: "07381590", Param: "69928_00060", Timestamp: ts, Value: 120.5},
	}}
	s := newTestServer(store, config.Config{})

	w := doRequest(s, http.MethodGet, "/site/07381590/observations?param=69928_00060&last_n=5", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count        int              `json:"count"`
		Observations []db.Observation `json:"observations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, 120.5, body.Observations[0].Value)

	// The query filters reach the store.
	assert.Equal(t, "07381590", store.lastQuery.SiteNo)
	assert.Equal(t, "69928_00060", store.lastQuery.Param)
	assert.Equal(t, 5, store.lastQuery.Limit)
}

func TestHandleObservations_InvalidLastN(t *testing.T) {
	s := newTestServer(&fakeStore{}, config.Config{})

	w := doRequest(s, http.MethodGet, "/site/07381590/observations?last_n=-3", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleObservations_InvalidStart(t *testing.T) {
	s := newTestServer(&fakeStore{}, config.Config{})

	w := doRequest(s, http.MethodGet, "/site/07381590/observations?start=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleLatest(t *testing.T) {
	ts := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{observations: []db.Observation{
		{SiteNo: "07381590", Param: "69928_00060", Timestamp: ts, Value: 118.0},
	}}
	s := newTestServer(store, config.Config{})

	w := doRequest(s, http.MethodGet, "/site/07381590/latest", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "69928_00060")
}

func TestBearerAuth(t *testing.T) {
	s := newTestServer(&fakeStore{}, config.Config{BearerToken: "sekrit"})

	w := doRequest(s, http.MethodGet, "/site", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(s, http.MethodGet, "/site", map[string]string{"Authorization": "Bearer wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(s, http.MethodGet, "/site", map[string]string{"Authorization": "Bearer sekrit"})
	assert.Equal(t, http.StatusOK, w.Code)
}
