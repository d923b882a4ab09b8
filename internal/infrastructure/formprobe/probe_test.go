package formprobe

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"formbot/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProber_Probe(t *testing.T) {
	userAgents := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgents <- r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head><title> Customer Survey </title></head>
<body><form action="/formResponse"><div id="lpd4pf">Page 1 of 3</div></form></body>
</html>`)
	}))
	defer server.Close()

	result, err := New(server.Client(), "formbot-test").Probe(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "Customer Survey", result.Title)
	assert.True(t, result.HasForm)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "formbot-test", <-userAgents)
}

func TestProber_Probe_ClosedForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Survey</title></head><body><p>This form is no longer accepting responses</p></body></html>`)
	}))
	defer server.Close()

	result, err := New(server.Client(), "").Probe(context.Background(), server.URL)

	assert.ErrorIs(t, err, ErrFormUnavailable)
	assert.False(t, result.HasForm)
	assert.Equal(t, "Survey", result.Title)
}

func TestProber_Probe_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	result, err := New(server.Client(), "").Probe(context.Background(), server.URL)

	assert.ErrorIs(t, err, ErrFormUnavailable)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
}

func TestProber_Probe_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := New(nil, "").Probe(context.Background(), url)

	assert.ErrorIs(t, err, entity.ErrNavigation)
}

func TestProber_Probe_InvalidURL(t *testing.T) {
	_, err := New(nil, "").Probe(context.Background(), "http://bad host/")

	assert.ErrorIs(t, err, entity.ErrInvalidURL)
}
