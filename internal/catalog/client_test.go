package catalog

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"hmvfinder/internal/config"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func testClientConfig() config.Config {
	return config.Config{
		HMVAPIBaseURL: "https://example.test/api/verzeichnis",
		HMVTimeoutMs:  1000,
		HMVRetryMax:   3,
		HMVBackoffMs:  1,
		TreeDepth:     4,
	}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestFetchCatalogRetriesThenNormalizes(t *testing.T) {
	attempt := 0

	client := NewClient(testClientConfig())
	client.SetTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/api/verzeichnis/Produkt" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		attempt++
		if attempt == 1 {
			return jsonResponse(http.StatusServiceUnavailable, `{"error":"busy"}`), nil
		}
		return jsonResponse(http.StatusOK, `{"value":[
			{"id":"p1","zehnsteller":"13.20.03.1001","bezeichnung":"Audeo P90-R","hersteller":"Phonak","preis":"1450,50"},
			{"id":"p2","zehnsteller":"13.20.03.1002","bezeichnung":"Altes Gerät","istHistorisch":true},
			{"id":"p3","zehnsteller":"13.20.03.1003","bezeichnung":"-"},
			{"id":"","zehnsteller":"13.20.03.1004","bezeichnung":"Ohne ID"},
			{"id":"p5","produktartNummer":"10.46.04.0001","name":"Rollator Topro Troja"}
		]}`), nil
	}))

	products, err := client.FetchCatalog(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, attempt)
	require.Len(t, products, 2)

	require.Equal(t, "p1", products[0].ID)
	require.Equal(t, "13.20.03.1001", products[0].Code)
	require.Equal(t, "Audeo P90-R", products[0].Name)
	require.NotNil(t, products[0].Manufacturer)
	require.Equal(t, "Phonak", *products[0].Manufacturer)
	require.NotNil(t, products[0].Price)
	require.InDelta(t, 1450.50, *products[0].Price, 0.001)

	require.Equal(t, "10.46.04.0001", products[1].Code)
	require.Equal(t, "Rollator Topro Troja", products[1].Name)
	require.Nil(t, products[1].Price)
}

func TestFetchCatalogBareArrayPayload(t *testing.T) {
	client := NewClient(testClientConfig())
	client.SetTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `[{"id":"p1","nummer":"13.20.12.2001","produktname":"Insio ITC"}]`), nil
	}))

	products, err := client.FetchCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "13.20.12.2001", products[0].Code)
}

func TestFetchCatalogFatalStatusFailsFast(t *testing.T) {
	attempt := 0

	client := NewClient(testClientConfig())
	client.SetTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		attempt++
		return jsonResponse(http.StatusNotFound, `{"error":"gone"}`), nil
	}))

	_, err := client.FetchCatalog(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUpstreamUnavailable))
	require.Equal(t, 1, attempt)
}

func TestFetchCatalogExhaustedRetries(t *testing.T) {
	attempt := 0

	client := NewClient(testClientConfig())
	client.SetTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		attempt++
		return jsonResponse(http.StatusInternalServerError, `{"error":"boom"}`), nil
	}))

	_, err := client.FetchCatalog(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUpstreamUnavailable))
	require.Equal(t, 3, attempt)
}

func TestFetchProductDetail(t *testing.T) {
	client := NewClient(testClientConfig())
	client.SetTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/api/verzeichnis/Produkt/p1" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		return jsonResponse(http.StatusOK, `{"konstruktionsmerkmale":[
			{"bezeichnung":"Kanäle","wert":"20"},
			{"merkmal":"Akku","value":"ja"},
			{"wert":"verwaist"}
		]}`), nil
	}))

	attrs, err := client.FetchProductDetail(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, attrs, 2)
	require.Equal(t, "Kanäle", attrs[0].Label)
	require.Equal(t, "20", attrs[0].Value)
	require.Equal(t, "Akku", attrs[1].Label)
}

func TestFetchCategoryTreeFlattens(t *testing.T) {
	client := NewClient(testClientConfig())
	client.SetTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/api/verzeichnis/VerzeichnisTree/4" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		return jsonResponse(http.StatusOK, `[
			{"id":"n13","xSteller":"13","children":[
				{"id":"n1320","xSteller":"13.20","children":[
					{"id":"n132003","xSteller":"13.20.03","children":[]}
				]}
			]},
			{"id":"n10","xSteller":"10","children":[]}
		]`), nil
	}))

	index, err := client.FetchCategoryTree(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"13":       "n13",
		"13.20":    "n1320",
		"13.20.03": "n132003",
		"10":       "n10",
	}, index)
}

func TestFetchJSONContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	client := NewClient(testClientConfig())
	client.SetTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
		cancel()
		return jsonResponse(http.StatusInternalServerError, `{}`), nil
	}))

	_, err := client.FetchCatalog(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
