package monitor

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLog() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log.WithField("component", "test")
}

func TestStatusBeforeFirstProbe(t *testing.T) {
	m := New("http://127.0.0.1:1", testLog())

	status, checkedAt := m.Status()

	assert.Equal(t, StatusUnknown, status)
	assert.True(t, checkedAt.IsZero())
}

func TestStartProbesImmediately(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := New(server.URL, testLog())
	require.NoError(t, m.Start(time.Hour))
	defer m.Stop()

	status, checkedAt := m.Status()
	assert.Equal(t, StatusUp, status)
	assert.False(t, checkedAt.IsZero())
}

func TestUnreachableBackendIsDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listens here anymore

	m := New(server.URL, testLog())
	require.NoError(t, m.Start(time.Hour))
	defer m.Stop()

	status, _ := m.Status()
	assert.Equal(t, StatusDown, status)
}

func TestServerErrorIsDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	m := New(server.URL, testLog())
	require.NoError(t, m.Start(time.Hour))
	defer m.Stop()

	status, _ := m.Status()
	assert.Equal(t, StatusDown, status)
}

func TestFourOhFourStillCountsAsUp(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	m := New(server.URL, testLog())
	require.NoError(t, m.Start(time.Hour))
	defer m.Stop()

	status, _ := m.Status()
	assert.Equal(t, StatusUp, status)
}
