package ingest

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexbid/auction-signup/internal/draft"
	"github.com/nexbid/auction-signup/internal/model"
)

// gatedReader blocks until released, then serves its payload.  It lets the
// tests hold one read in flight while another completes.
type gatedReader struct {
	release chan struct{}
	data    *strings.Reader
}

func newGatedReader(payload string) *gatedReader {
	return &gatedReader{release: make(chan struct{}), data: strings.NewReader(payload)}
}

func (g *gatedReader) Read(p []byte) (int, error) {
	<-g.release
	return g.data.Read(p)
}

// failingReader always errors mid-read.
type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk smoked") }

func TestIngestCommitsAssetWithPreview(t *testing.T) {
	ctx := context.Background()
	store := draft.NewMemoryStore()
	d, err := store.Create(ctx)
	require.NoError(t, err)

	ing := New(store)
	done := ing.Ingest(ctx, d.ID, "me.png", "image/png", strings.NewReader("pngbytes"))
	require.NoError(t, <-done)

	got, err := store.Get(ctx, d.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Image)
	assert.Equal(t, "me.png", got.Image.FileName)
	assert.Equal(t, []byte("pngbytes"), got.Image.Data)
	assert.Equal(t, "data:image/png;base64,cG5nYnl0ZXM=", got.Image.Preview)
}

func TestIngestLastSelectionWins(t *testing.T) {
	ctx := context.Background()
	store := draft.NewMemoryStore()
	d, err := store.Create(ctx)
	require.NoError(t, err)

	ing := New(store)

	// File A starts first but its read is held open.
	slow := newGatedReader("AAAA")
	doneA := ing.Ingest(ctx, d.ID, "a.png", "image/png", slow)

	// File B is selected immediately after and completes while A is
	// still in flight.
	doneB := ing.Ingest(ctx, d.ID, "b.png", "image/png", strings.NewReader("BBBB"))
	require.NoError(t, <-doneB)

	// Now let A's read resolve; the stale result must be discarded.
	close(slow.release)
	assert.ErrorIs(t, <-doneA, ErrSuperseded)

	got, err := store.Get(ctx, d.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Image)
	assert.Equal(t, "b.png", got.Image.FileName)
	assert.Equal(t, []byte("BBBB"), got.Image.Data)
}

func TestIngestFailureKeepsPriorAssetAndSurfacesError(t *testing.T) {
	ctx := context.Background()
	store := draft.NewMemoryStore()
	d, err := store.Create(ctx)
	require.NoError(t, err)

	ing := New(store)
	require.NoError(t, <-ing.Ingest(ctx, d.ID, "first.jpg", "image/jpeg", strings.NewReader("good")))

	err = <-ing.Ingest(ctx, d.ID, "broken.jpg", "image/jpeg", failingReader{})
	require.ErrorIs(t, err, ErrReadFailed)

	got, err := store.Get(ctx, d.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Image, "prior asset must survive a failed read")
	assert.Equal(t, "first.jpg", got.Image.FileName)
	assert.Equal(t, ReadFailedMessage, got.LastError)
}

func TestIngestDetectsMissingContentType(t *testing.T) {
	ctx := context.Background()
	store := draft.NewMemoryStore()
	d, err := store.Create(ctx)
	require.NoError(t, err)

	// A real PNG header so detection has something to go on.
	png := "\x89PNG\r\n\x1a\n" + strings.Repeat("\x00", 512)
	ing := New(store)
	require.NoError(t, <-ing.Ingest(ctx, d.ID, "raw.bin", "", strings.NewReader(png)))

	got, err := store.Get(ctx, d.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Image)
	assert.Equal(t, "image/png", got.Image.ContentType)
	assert.True(t, strings.HasPrefix(got.Image.Preview, "data:image/png;base64,"))
}

// editDuringCommitStore injects a competing field edit at the moment the
// ingestor commits, simulating an edit that lands after the read resolved
// but before its result is stored.
type editDuringCommitStore struct {
	*draft.MemoryStore
	once sync.Once
	edit func()
}

func (s *editDuringCommitStore) Update(ctx context.Context, id string, fn func(d *model.Draft) error) error {
	s.once.Do(s.edit)
	return s.MemoryStore.Update(ctx, id, fn)
}

func TestIngestCommitPreservesConcurrentFieldEdit(t *testing.T) {
	ctx := context.Background()
	base := draft.NewMemoryStore()
	d, err := base.Create(ctx)
	require.NoError(t, err)

	store := &editDuringCommitStore{MemoryStore: base}
	store.edit = func() {
		require.NoError(t, base.Update(ctx, d.ID, func(cur *model.Draft) error {
			return draft.SetField(cur, "email", "alice@example.com")
		}))
	}

	ing := New(store)
	require.NoError(t, <-ing.Ingest(ctx, d.ID, "me.png", "image/png", strings.NewReader("pngbytes")))

	got, err := base.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Fields["email"],
		"a field edit made while the commit was in flight must survive it")
	require.NotNil(t, got.Image)
	assert.Equal(t, "me.png", got.Image.FileName)
}

func TestIngestDeletedDraftSurfacesNotFound(t *testing.T) {
	ctx := context.Background()
	store := draft.NewMemoryStore()
	d, err := store.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, d.ID))

	// The session vanished before the commit; that is a store condition,
	// not a read failure, and must be reported as such.
	ing := New(store)
	err = <-ing.Ingest(ctx, d.ID, "me.png", "image/png", strings.NewReader("pngbytes"))
	require.ErrorIs(t, err, draft.ErrDraftNotFound)
	assert.NotErrorIs(t, err, ErrReadFailed)
}

func TestIngestDoesNotBlockCaller(t *testing.T) {
	ctx := context.Background()
	store := draft.NewMemoryStore()
	d, err := store.Create(ctx)
	require.NoError(t, err)

	slow := newGatedReader("zzz")
	ing := New(store)

	start := time.Now()
	done := ing.Ingest(ctx, d.ID, "slow.png", "image/png", io.Reader(slow))
	assert.Less(t, time.Since(start), 100*time.Millisecond, "Ingest must return before the read completes")

	close(slow.release)
	require.NoError(t, <-done)
}
