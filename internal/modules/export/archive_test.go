package export

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/stockdash/internal/clients/objectstore"
)

type fakeStore struct {
	uploads   map[string][]byte
	metadata  map[string]map[string]string
	objects   []objectstore.Object
	deleted   []string
	uploadErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{uploads: map[string][]byte{}, metadata: map[string]map[string]string{}}
}

func (f *fakeStore) Upload(_ context.Context, key string, body io.Reader, _ string, meta map[string]string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.uploads[key] = data
	f.metadata[key] = meta
	return nil
}

func (f *fakeStore) List(_ context.Context, prefix string) ([]objectstore.Object, error) {
	var out []objectstore.Object
	for _, o := range f.objects {
		if len(o.Key) >= len(prefix) && o.Key[:len(prefix)] == prefix {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func fixedArchiver(store ObjectStore, now time.Time) *Archiver {
	a := NewArchiver(store, zerolog.New(nil).Level(zerolog.Disabled))
	a.now = func() time.Time { return now }
	return a
}

func TestArchiver_Archive(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	a := fixedArchiver(store, now)

	f := File{Name: "AAPL_financial_metrics.csv", Kind: KindMetrics, Data: []byte("Metric,Value\n")}
	archive, err := a.Archive(context.Background(), "AAPL", f)
	require.NoError(t, err)

	assert.Equal(t, "exports/AAPL/20240506-070809_AAPL_financial_metrics.csv", archive.Key)
	assert.Equal(t, int64(13), archive.SizeBytes)
	assert.Len(t, archive.Checksum, 64)
	assert.Equal(t, f.Data, store.uploads[archive.Key])
	assert.Equal(t, "metrics", store.metadata[archive.Key]["kind"])
	assert.Equal(t, archive.Checksum, store.metadata[archive.Key]["checksum"])
}

func TestArchiver_ArchiveError(t *testing.T) {
	store := newFakeStore()
	store.uploadErr = errors.New("access denied")
	a := fixedArchiver(store, time.Now())

	_, err := a.Archive(context.Background(), "AAPL", File{Name: "x.csv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestArchiver_ListNewestFirst(t *testing.T) {
	store := newFakeStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.objects = []objectstore.Object{
		{Key: "exports/AAPL/a.csv", LastModified: base},
		{Key: "exports/AAPL/b.csv", LastModified: base.Add(time.Hour)},
		{Key: "exports/MSFT/c.csv", LastModified: base.Add(2 * time.Hour)},
	}
	a := fixedArchiver(store, base)

	objects, err := a.List(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "exports/AAPL/b.csv", objects[0].Key)

	all, err := a.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestArchiver_Rotate(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	store.objects = []objectstore.Object{
		{Key: "exports/AAPL/old.csv", LastModified: now.AddDate(0, 0, -40)},
		{Key: "exports/AAPL/new.csv", LastModified: now.AddDate(0, 0, -1)},
	}
	a := fixedArchiver(store, now)

	deleted, err := a.Rotate(context.Background(), 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.Equal(t, []string{"exports/AAPL/old.csv"}, store.deleted)

	deleted, err = a.Rotate(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
}

func TestRotationJob(t *testing.T) {
	store := newFakeStore()
	job := NewRotationJob(fixedArchiver(store, time.Now()), 24*time.Hour)
	assert.Equal(t, "export_archive_rotation", job.Name())
	assert.NoError(t, job.Run())
}
