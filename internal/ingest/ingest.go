// Package ingest turns a selected profile picture into an ImageAsset: the
// raw bytes kept for submission plus a base64 data URL used as the preview.
// Reads happen off the request path so the rest of the form stays editable
// while a file is in flight.
package ingest

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/nexbid/auction-signup/internal/draft"
	"github.com/nexbid/auction-signup/internal/model"
)

// ReadFailedMessage is written into the draft's error slot when a selected
// file cannot be read.  The previous asset, if any, is left untouched.
const ReadFailedMessage = "Could not read the selected image."

var (
	// ErrSuperseded reports that a read resolved after a newer selection
	// had already claimed the asset slot; its result was discarded.
	ErrSuperseded = errors.New("image read superseded by a newer selection")
	// ErrReadFailed wraps a failure reading the selected file itself, as
	// opposed to a failure of the store commit.  Handlers answer it with
	// ReadFailedMessage; store failures keep their own mapping.
	ErrReadFailed = errors.New("image read failed")
)

// Ingestor reads selected files and commits the resulting asset onto the
// draft.  At most one ingestion per draft is current at a time: each call
// bumps a per-draft generation, and a read that resolves under a stale
// generation must not overwrite the slot (last-selection-wins).
type Ingestor struct {
	store draft.Store

	mu   sync.Mutex
	gens map[string]uint64
}

// New returns an Ingestor committing assets through the given store.
func New(store draft.Store) *Ingestor {
	return &Ingestor{store: store, gens: make(map[string]uint64)}
}

// Ingest starts reading r for the given draft and returns immediately.
// The returned channel receives exactly one value once the read settles:
// nil on commit, ErrSuperseded when a newer selection won the slot, or the
// read/commit failure otherwise.  Callers that do not care about the
// outcome may simply drop the channel.
func (i *Ingestor) Ingest(ctx context.Context, draftID, fileName, contentType string, r io.Reader) <-chan error {
	i.mu.Lock()
	i.gens[draftID]++
	gen := i.gens[draftID]
	i.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- i.run(ctx, draftID, fileName, contentType, gen, r)
	}()
	return done
}

func (i *Ingestor) run(ctx context.Context, draftID, fileName, contentType string, gen uint64, r io.Reader) error {
	data, readErr := io.ReadAll(r)

	// Settle under the same lock that hands out generations so a stale
	// read can never interleave with a newer commit.
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.gens[draftID] != gen {
		return ErrSuperseded
	}

	if readErr != nil {
		// Keep the prior asset and surface the failure in the draft's
		// single error slot instead of dropping it silently.
		log.Printf("ingest: read failed for draft %s: %v", draftID, readErr)
		if err := i.setError(ctx, draftID); err != nil {
			log.Printf("ingest: record read failure for draft %s: %v", draftID, err)
		}
		return fmt.Errorf("%w: %v", ErrReadFailed, readErr)
	}

	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	asset := &model.ImageAsset{
		FileName:    fileName,
		ContentType: contentType,
		Data:        data,
		Preview:     "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data),
	}

	// Commit touches only the asset slot.  A whole-draft write here could
	// erase a field edit committed while the read was in flight, so the
	// update is targeted and the store applies it against fresh state.
	err := i.store.Update(ctx, draftID, func(d *model.Draft) error {
		d.Image = asset
		d.ImageGen = gen
		return nil
	})
	if err != nil {
		return fmt.Errorf("commit image: %w", err)
	}
	return nil
}

func (i *Ingestor) setError(ctx context.Context, draftID string) error {
	return i.store.Update(ctx, draftID, func(d *model.Draft) error {
		d.LastError = ReadFailedMessage
		return nil
	})
}
