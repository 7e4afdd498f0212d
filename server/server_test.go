package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/graphlens/config"
)

const sampleGraph = `{
	"nodes": [
		{"id": "a", "label": "Alpha"},
		{"id": "b", "label": "Beta"},
		{"id": "c", "label": "Gamma"}
	],
	"edges": [
		{"source": "a", "target": "b"},
		{"source": "b", "target": "c"}
	]
}`

func uploadSample(t *testing.T, handler http.Handler) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/upload?format=json", strings.NewReader(sampleGraph))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestUpload(t *testing.T) {
	s := New(config.Default())
	handler := s.Handler()
	uploadSample(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/api/graph", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Nodes []json.RawMessage `json:"nodes"`
		Edges []json.RawMessage `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Len(t, doc.Nodes, 3)
	assert.Len(t, doc.Edges, 2)
}

func TestUploadRejectsBadData(t *testing.T) {
	s := New(config.Default())
	req := httptest.NewRequest(http.MethodPost, "/upload?format=json", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRejectsGet(t *testing.T) {
	s := New(config.Default())
	req := httptest.NewRequest(http.MethodGet, "/upload", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestVisualizeSVG(t *testing.T) {
	s := New(config.Default())
	handler := s.Handler()
	uploadSample(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/visualize?format=svg&ratio=2", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")
}

func TestVisualizeJSON(t *testing.T) {
	s := New(config.Default())
	handler := s.Handler()
	uploadSample(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/visualize?format=json", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var doc struct {
		Nodes []json.RawMessage `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.NotEmpty(t, doc.Nodes)
}

func TestVisualizeRejectsBadCamera(t *testing.T) {
	s := New(config.Default())
	handler := s.Handler()
	uploadSample(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/visualize?ratio=-1", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVisualizeRejectsUnknownFormat(t *testing.T) {
	s := New(config.Default())
	req := httptest.NewRequest(http.MethodGet, "/visualize?format=gif", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIHitRequiresCoordinates(t *testing.T) {
	s := New(config.Default())
	req := httptest.NewRequest(http.MethodGet, "/api/hit", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIHit(t *testing.T) {
	s := New(config.Default())
	handler := s.Handler()
	uploadSample(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/api/hit?x=600&y=450", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var doc struct {
		Nodes []string `json:"nodes"`
		Edges []string `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	// The response shape is stable even when nothing is under the cursor.
	assert.NotNil(t, doc)
}
