package export

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/stockdash/internal/clients/objectstore"
)

// ObjectStore is the subset of the storage client the archiver needs
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string, metadata map[string]string) error
	List(ctx context.Context, prefix string) ([]objectstore.Object, error)
	Delete(ctx context.Context, key string) error
}

const archivePrefix = "exports/"

// Archive describes an uploaded export
type Archive struct {
	Key        string    `json:"key"`
	FileName   string    `json:"file_name"`
	SizeBytes  int64     `json:"size_bytes"`
	Checksum   string    `json:"checksum"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Archiver copies exports to object storage under exports/{SYMBOL}/
type Archiver struct {
	store ObjectStore
	now   func() time.Time
	log   zerolog.Logger
}

// NewArchiver creates a new archiver
func NewArchiver(store ObjectStore, log zerolog.Logger) *Archiver {
	return &Archiver{
		store: store,
		now:   time.Now,
		log:   log.With().Str("service", "export_archive").Logger(),
	}
}

func archiveKey(symbol string, at time.Time, name string) string {
	return fmt.Sprintf("%s%s/%s_%s", archivePrefix, symbol, at.UTC().Format("20060102-150405"), name)
}

// Archive uploads an export file and returns where it was stored
func (a *Archiver) Archive(ctx context.Context, symbol string, f File) (*Archive, error) {
	at := a.now()
	sum := sha256.Sum256(f.Data)
	checksum := hex.EncodeToString(sum[:])

	key := archiveKey(symbol, at, f.Name)
	meta := map[string]string{
		"symbol":   symbol,
		"kind":     string(f.Kind),
		"checksum": checksum,
	}
	if err := a.store.Upload(ctx, key, bytes.NewReader(f.Data), ContentType, meta); err != nil {
		return nil, fmt.Errorf("failed to archive %s: %w", f.Name, err)
	}

	a.log.Info().
		Str("symbol", symbol).
		Str("key", key).
		Int("size_bytes", len(f.Data)).
		Msg("Export archived")

	return &Archive{
		Key:        key,
		FileName:   f.Name,
		SizeBytes:  int64(len(f.Data)),
		Checksum:   checksum,
		UploadedAt: at,
	}, nil
}

// List returns archived exports for symbol, newest first. An empty symbol lists everything.
func (a *Archiver) List(ctx context.Context, symbol string) ([]objectstore.Object, error) {
	prefix := archivePrefix
	if symbol != "" {
		prefix += symbol + "/"
	}

	objects, err := a.store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].LastModified.After(objects[j].LastModified)
	})
	return objects, nil
}

// Rotate deletes archives older than retention. Zero retention keeps everything.
// Returns the number of deleted objects.
func (a *Archiver) Rotate(ctx context.Context, retention time.Duration) (int, error) {
	if retention <= 0 {
		return 0, nil
	}

	objects, err := a.List(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("failed to list archives: %w", err)
	}

	cutoff := a.now().Add(-retention)
	deleted := 0
	for _, obj := range objects {
		if !obj.LastModified.Before(cutoff) || !strings.HasPrefix(obj.Key, archivePrefix) {
			continue
		}
		if err := a.store.Delete(ctx, obj.Key); err != nil {
			a.log.Error().Err(err).Str("key", obj.Key).Msg("Failed to delete old archive")
			continue
		}
		deleted++
	}

	if deleted > 0 {
		a.log.Info().Int("deleted", deleted).Msg("Rotated old export archives")
	}
	return deleted, nil
}

// RotationJob runs Rotate on a schedule
type RotationJob struct {
	archiver  *Archiver
	retention time.Duration
	timeout   time.Duration
}

// NewRotationJob creates a new archive rotation job
func NewRotationJob(archiver *Archiver, retention time.Duration) *RotationJob {
	return &RotationJob{archiver: archiver, retention: retention, timeout: 2 * time.Minute}
}

// Run executes the rotation
func (j *RotationJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	_, err := j.archiver.Rotate(ctx, j.retention)
	return err
}

// Name returns the job name for scheduling and logging.
func (j *RotationJob) Name() string {
	return "export_archive_rotation"
}
