package nwis

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientDownload(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(sampleIV))
	}))
	defer srv.Close()

	client := &Client{HTTP: srv.Client(), TimeSeriesBase: srv.URL + "/nwis/"}
	q := Query{
		Site:     "07381590",
		DataType: "iv",
		Mode:     TimeSeries,
		Start:    date("2023-01-01"),
		End:      date("2023-01-02"),
	}

	head, table, err := client.Download(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, "/nwis/iv/", gotPath)
	assert.Contains(t, gotQuery, "sites=07381590")
	assert.Len(t, head, 4)
	assert.Equal(t, 3, table.Len())
}

func TestClientDownload_InvalidQueryBeforeIO(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	client := &Client{HTTP: srv.Client(), TimeSeriesBase: srv.URL + "/nwis/"}
	q := Query{
		Site:     "07381590",
		DataType: "iv",
		Mode:     TimeSeries,
		Start:    date("2023-06-30"),
		End:      date("2023-01-01"),
	}

	_, _, err := client.Download(context.Background(), q)
	require.ErrorIs(t, err, ErrInvalidQuery)
	assert.Zero(t, requests, "validation failures must not reach the network")
}

func TestClientFetch_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := &Client{HTTP: srv.Client()}
	_, err := client.Fetch(context.Background(), srv.URL)
	require.ErrorIs(t, err, ErrNetwork)
	assert.Contains(t, err.Error(), srv.URL)
}

func TestClientFetch_UnreachableHost(t *testing.T) {
	client := &Client{}
	_, err := client.Fetch(context.Background(), "http://127.0.0.1:1/nope")
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestClientDownload_CommentOnlyPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("#  No sites found matching all criteria\n"))
	}))
	defer srv.Close()

	client := &Client{HTTP: srv.Client(), TimeSeriesBase: srv.URL + "/nwis/"}
	q := Query{
		Site:     "00000000",
		DataType: "iv",
		Mode:     TimeSeries,
		Start:    date("2023-01-01"),
		End:      date("2023-01-02"),
	}

	_, _, err := client.Download(context.Background(), q)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}
