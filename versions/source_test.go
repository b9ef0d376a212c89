package versions_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/goavsc/versions"
)

const recordV1 = `{"type":"record","name":"User","namespace":"com.example","fields":[{"name":"id","type":"long"}]}`
const recordV2 = `{"type":"record","name":"User","namespace":"com.example","fields":[{"name":"id","type":"long"},{"name":"email","type":["null","string"],"default":null}]}`

func layout() fstest.MapFS {
	return fstest.MapFS{
		"versions.json":      {Data: []byte(`["1.2.0","1.10.0","broken"]`)},
		"1.2.0/schema.avsc":  {Data: []byte(recordV1)},
		"1.10.0/schema.avsc": {Data: []byte(recordV2)},
		"broken/schema.avsc": {Data: []byte(`{"type":"record","name":"X"}`)},
		"orphan/schema.avsc": {Data: []byte(recordV1)},
	}
}

func TestDirSource(t *testing.T) {
	src := versions.NewDirSource(layout())
	ctx := context.Background()

	vs, err := src.Versions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.2.0", "1.10.0", "broken"}, vs)

	data, err := src.Schema(ctx, "1.2.0")
	require.NoError(t, err)
	assert.JSONEq(t, recordV1, string(data))

	_, err = src.Schema(ctx, "3.0.0")
	assert.ErrorIs(t, err, versions.ErrNotFound)

	_, err = src.Schema(ctx, "../etc")
	assert.Error(t, err)

	_, err = versions.NewDirSource(fstest.MapFS{}).Versions(ctx)
	assert.ErrorIs(t, err, versions.ErrNotFound)
}

func TestDirSource_BadIndex(t *testing.T) {
	src := versions.NewDirSource(fstest.MapFS{"versions.json": {Data: []byte(`{"latest":"1"}`)}})
	_, err := src.Versions(context.Background())
	assert.Error(t, err)
}

func TestHTTPSource(t *testing.T) {
	server := httptest.NewServer(http.FileServer(http.FS(layout())))
	defer server.Close()

	src, err := versions.NewHTTPSource(server.URL+"/", 0)
	require.NoError(t, err)
	ctx := context.Background()

	vs, err := src.Versions(ctx)
	require.NoError(t, err)
	assert.Len(t, vs, 3)

	data, err := src.Schema(ctx, "1.10.0")
	require.NoError(t, err)
	assert.JSONEq(t, recordV2, string(data))

	_, err = src.Schema(ctx, "missing")
	assert.ErrorIs(t, err, versions.ErrNotFound)
}

func TestHTTPSource_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	src, err := versions.NewHTTPSource(server.URL, 0)
	require.NoError(t, err)
	_, err = src.Versions(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestNewHTTPSource_RequiresURL(t *testing.T) {
	_, err := versions.NewHTTPSource("", 0)
	assert.Error(t, err)
}
