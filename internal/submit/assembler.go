package submit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nexbid/auction-signup/internal/authstate"
	"github.com/nexbid/auction-signup/internal/document"
	"github.com/nexbid/auction-signup/internal/draft"
	"github.com/nexbid/auction-signup/internal/model"
	"github.com/nexbid/auction-signup/internal/queue"
)

// PreconditionMessage is the fixed local validation text shown when the
// display name is missing or the terms have not been accepted.
const PreconditionMessage = "Please provide a username and agree to the terms."

// GenerationFailedMessage is shown when the acceptance document cannot be
// produced; the attempt is aborted before any dispatch.
const GenerationFailedMessage = "Could not generate the terms and conditions document."

var (
	// ErrPrecondition reports the hard local gate: no document and no
	// dispatch happen past it.  Handlers map it to HTTP 422.
	ErrPrecondition = errors.New("username or consent missing")
	// ErrSubmissionInFlight reports a repeated submit while a previous
	// dispatch is still outstanding; the repeat is a no-op.
	ErrSubmissionInFlight = errors.New("submission already in progress")
)

// DocumentService is the acceptance-document collaborator: generation plus
// the external export hand-off.
type DocumentService interface {
	Generate(userName string) (*document.Document, error)
	Export(draftID string, doc *document.Document) (string, error)
}

// Publisher emits the post-dispatch audit event.  Failures are logged and
// swallowed; they never fail a submission.
type Publisher func(ctx context.Context, ev queue.SignupSubmittedEvent) error

// Assembler drives a submission attempt end to end.  Side effect ordering
// is significant and preserved: consent check, then document generation and
// export, then payload dispatch.
type Assembler struct {
	store     draft.Store
	docs      DocumentService
	registrar Registrar

	// Tracker, when set, is flipped with the backend's access token after
	// a successful dispatch.  Publish, when set, emits the audit event.
	Tracker *authstate.Tracker
	Publish Publisher

	// DispatchTimeout bounds the fire-and-forget registration call.
	DispatchTimeout time.Duration

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewAssembler wires the assembler's required collaborators.
func NewAssembler(store draft.Store, docs DocumentService, registrar Registrar) *Assembler {
	return &Assembler{
		store:           store,
		docs:            docs,
		registrar:       registrar,
		DispatchTimeout: 15 * time.Second,
		inFlight:        make(map[string]bool),
	}
}

// InProgress reports whether a dispatch for the draft is outstanding.  The
// transport layer uses it to disable the submit control.
func (a *Assembler) InProgress(draftID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inFlight[draftID]
}

// Submit runs one registration attempt for the draft.  On success it
// returns a channel that receives the dispatch outcome once the external
// call settles; the caller may drop it.  Local failures return immediately:
// ErrSubmissionInFlight for a repeat click, ErrPrecondition for the consent
// gate, or a wrapped generation/assembly error.  Every attempt rebuilds the
// payload fresh from current draft state.
func (a *Assembler) Submit(ctx context.Context, draftID string) (<-chan error, error) {
	// Reentrancy guard: the check and the claim happen under one lock, so
	// two rapid submits can never both pass.  Every failure path below
	// must release the claim; on success the dispatch goroutine holds it
	// until the external call settles.
	a.mu.Lock()
	if a.inFlight[draftID] {
		a.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	a.inFlight[draftID] = true
	a.mu.Unlock()

	done, err := a.attempt(ctx, draftID)
	if err != nil {
		a.release(draftID)
		return nil, err
	}
	return done, nil
}

func (a *Assembler) release(draftID string) {
	a.mu.Lock()
	delete(a.inFlight, draftID)
	a.mu.Unlock()
}

// attempt runs everything past the reentrancy guard.  The caller owns the
// in-flight claim and releases it when attempt fails.
func (a *Assembler) attempt(ctx context.Context, draftID string) (<-chan error, error) {
	// Every attempt starts by clearing the previous local message; the
	// consent gate is checked against the same committed state the clear
	// lands on, and d snapshots that state for the rest of the attempt.
	var d *model.Draft
	gateFailed := false
	err := a.store.Update(ctx, draftID, func(cur *model.Draft) error {
		cur.LastError = ""
		if cur.UserName() == "" || !cur.Consent.IsAccepted() {
			cur.LastError = PreconditionMessage
			gateFailed = true
		}
		d = cur.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if gateFailed {
		return nil, ErrPrecondition
	}

	// The acceptance document is a submission precondition, not a
	// best-effort extra: generation or export failure aborts the attempt
	// before any dispatch.
	doc, err := a.docs.Generate(d.UserName())
	if err != nil {
		a.failLocal(ctx, d.ID, GenerationFailedMessage)
		return nil, fmt.Errorf("generate acceptance document: %w", err)
	}
	path, err := a.docs.Export(d.ID, doc)
	if err != nil {
		a.failLocal(ctx, d.ID, GenerationFailedMessage)
		return nil, fmt.Errorf("export acceptance document: %w", err)
	}
	log.Printf("submit: acceptance document for draft %s exported to %s (%d pages)", d.ID, path, doc.PageCount())

	payload, err := BuildPayload(d)
	if err != nil {
		return nil, fmt.Errorf("assemble payload: %w", err)
	}

	done := make(chan error, 1)
	go a.dispatch(d, payload, done)
	return done, nil
}

// failLocal writes a message into the draft's single error slot.
func (a *Assembler) failLocal(ctx context.Context, draftID, msg string) {
	err := a.store.Update(ctx, draftID, func(d *model.Draft) error {
		d.LastError = msg
		return nil
	})
	if err != nil {
		log.Printf("submit: save local error for draft %s: %v", draftID, err)
	}
}

// dispatch hands the payload to the external registration operation.  The
// core does not retry and never inspects a failure payload; it only reacts
// to a returned token by flipping the authenticated signal, and emits the
// audit event after a successful hand-off.
func (a *Assembler) dispatch(d *model.Draft, payload *model.SubmissionPayload, done chan<- error) {
	defer a.release(d.ID)

	ctx, cancel := context.WithTimeout(context.Background(), a.DispatchTimeout)
	defer cancel()

	outcome, err := a.registrar.Register(ctx, payload)
	if err != nil {
		log.Printf("submit: registration dispatch for draft %s failed: %v", d.ID, err)
		done <- err
		return
	}

	if a.Tracker != nil && outcome.Token != "" {
		if err := a.Tracker.MarkAuthenticated(outcome.Token); err != nil {
			log.Printf("submit: backend token for draft %s rejected: %v", d.ID, err)
		}
	}

	if a.Publish != nil {
		ev := queue.SignupSubmittedEvent{
			DraftID:     d.ID,
			UserName:    d.UserName(),
			Role:        d.Role(),
			HasPayout:   d.Role() == model.RoleAuctioneer,
			HasImage:    payload.HasImage,
			SubmittedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := a.Publish(ctx, ev); err != nil {
			log.Printf("submit: publish signup event for draft %s failed: %v", d.ID, err)
		}
	}

	done <- nil
}
