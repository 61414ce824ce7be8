package backend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReader struct {
	listCalls    int
	getCalls     int
	profileCalls int
}

func (r *countingReader) ListProjects(ctx context.Context, search string) ([]Project, error) {
	r.listCalls++
	return []Project{{ID: 1, Title: "alpha"}}, nil
}

func (r *countingReader) GetProject(ctx context.Context, id int) (*Project, error) {
	r.getCalls++
	return &Project{ID: id}, nil
}

func (r *countingReader) GetProfile(ctx context.Context, username string) (*Profile, error) {
	r.profileCalls++
	return &Profile{Username: username}, nil
}

func TestCachedReaderListProjects(t *testing.T) {
	reader := &countingReader{}
	cached, err := NewCachedReader(reader, 16, time.Minute)
	require.NoError(t, err)

	ctx := context.Background()

	first, err := cached.ListProjects(ctx, "go")
	require.NoError(t, err)
	second, err := cached.ListProjects(ctx, "go")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, reader.listCalls)

	// a different search term is a different cache key
	_, err = cached.ListProjects(ctx, "python")
	require.NoError(t, err)
	assert.Equal(t, 2, reader.listCalls)
}

func TestCachedReaderTTLExpiry(t *testing.T) {
	reader := &countingReader{}
	cached, err := NewCachedReader(reader, 16, time.Nanosecond)
	require.NoError(t, err)

	ctx := context.Background()

	_, err = cached.GetProject(ctx, 1)
	require.NoError(t, err)

	time.Sleep(time.Millisecond)

	_, err = cached.GetProject(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, reader.getCalls)
}

func TestCachedReaderInvalidateProfile(t *testing.T) {
	reader := &countingReader{}
	cached, err := NewCachedReader(reader, 16, time.Minute)
	require.NoError(t, err)

	ctx := context.Background()

	_, err = cached.GetProfile(ctx, "ada")
	require.NoError(t, err)
	_, err = cached.GetProfile(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, 1, reader.profileCalls)

	cached.Invalidate("ada")

	_, err = cached.GetProfile(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, 2, reader.profileCalls)
}

func TestNewCachedReaderRejectsBadSize(t *testing.T) {
	_, err := NewCachedReader(&countingReader{}, 0, time.Minute)
	assert.Error(t, err)
}
