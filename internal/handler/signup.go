package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nexbid/auction-signup/internal/draft"
	"github.com/nexbid/auction-signup/internal/ingest"
	"github.com/nexbid/auction-signup/internal/model"
	"github.com/nexbid/auction-signup/internal/submit"
)

// SignupHandler bundles dependencies for the registration draft endpoints.
type SignupHandler struct {
	Store     draft.Store
	Ingestor  *ingest.Ingestor
	Assembler *submit.Assembler
}

func NewSignupHandler(s draft.Store, i *ingest.Ingestor, a *submit.Assembler) *SignupHandler {
	return &SignupHandler{Store: s, Ingestor: i, Assembler: a}
}

// ----- DTOs -----

type setFieldReq struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
type setRoleReq struct {
	Role string `json:"role"`
}
type setConsentReq struct {
	Accepted bool `json:"accepted"`
}

// draftView is the client-facing draft snapshot.  The password is
// write-only: the view reports presence, never the value.
type draftView struct {
	ID           string            `json:"id"`
	Fields       map[string]string `json:"fields"`
	Role         string            `json:"role"`
	Consent      bool              `json:"consent"`
	HasPassword  bool              `json:"has_password"`
	ActiveFields []string          `json:"active_fields"`
	ImagePreview string            `json:"image_preview,omitempty"`
	Error        string            `json:"error,omitempty"`
	InProgress   bool              `json:"in_progress"`
}

func (h *SignupHandler) view(d *model.Draft) draftView {
	fields := make(map[string]string, len(d.Fields))
	for k, v := range d.Fields {
		if k == "password" {
			continue
		}
		fields[k] = v
	}
	v := draftView{
		ID:           d.ID,
		Fields:       fields,
		Role:         d.Role(),
		Consent:      d.Consent.IsAccepted(),
		HasPassword:  d.Fields["password"] != "",
		ActiveFields: draft.ActiveFields(d.Role()),
		Error:        d.LastError,
		InProgress:   h.Assembler.InProgress(d.ID),
	}
	if d.Image != nil {
		v.ImagePreview = d.Image.Preview
	}
	return v
}

// CreateDraft opens a fresh draft session.
func (h *SignupHandler) CreateDraft(c echo.Context) error {
	d, err := h.Store.Create(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create draft failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"draft_id": d.ID})
}

// GetDraft returns the current draft snapshot.
func (h *SignupHandler) GetDraft(c echo.Context) error {
	d, err := h.Store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, draft.ErrDraftNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "draft not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load draft failed"})
	}
	return c.JSON(http.StatusOK, h.view(d))
}

// SetField writes one field value.  Writes are unconstrained by the current
// role; only unknown field names are rejected.
func (h *SignupHandler) SetField(c echo.Context) error {
	var req setFieldReq
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "field name required"})
	}
	err := h.Store.Update(c.Request().Context(), c.Param("id"), func(d *model.Draft) error {
		return draft.SetField(d, req.Name, req.Value)
	})
	switch {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, draft.ErrDraftNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "draft not found"})
	case errors.Is(err, draft.ErrUnknownField):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown field"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save draft failed"})
	}
}

// SetRole selects the registrant's role.  The value is free text from the
// select control's option set; anything but Auctioneer simply behaves as a
// non-payout role.
func (h *SignupHandler) SetRole(c echo.Context) error {
	var req setRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	err := h.Store.Update(c.Request().Context(), c.Param("id"), func(d *model.Draft) error {
		return draft.SetField(d, "role", req.Role)
	})
	switch {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, draft.ErrDraftNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "draft not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save draft failed"})
	}
}

// SetConsent records the explicit terms-acceptance choice.
func (h *SignupHandler) SetConsent(c echo.Context) error {
	var req setConsentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	err := h.Store.Update(c.Request().Context(), c.Param("id"), func(d *model.Draft) error {
		d.Consent.SetAccepted(req.Accepted)
		return nil
	})
	switch {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, draft.ErrDraftNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "draft not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save draft failed"})
	}
}

// UploadImage ingests a selected profile picture.  The read itself runs on
// the ingestor; the request waits for this selection to settle so it can
// return the preview, while other draft requests stay fully responsive.  A
// selection superseded by a newer one reports superseded=true and changes
// nothing.
func (h *SignupHandler) UploadImage(c echo.Context) error {
	fh, err := c.FormFile("profileImage")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "profileImage file required"})
	}
	ctx := c.Request().Context()
	id := c.Param("id")
	if _, err := h.Store.Get(ctx, id); err != nil {
		if errors.Is(err, draft.ErrDraftNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "draft not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load draft failed"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "open upload failed"})
	}
	defer src.Close()

	done := h.Ingestor.Ingest(ctx, id, fh.Filename, fh.Header.Get("Content-Type"), src)
	if err := <-done; err != nil {
		switch {
		case errors.Is(err, ingest.ErrSuperseded):
			return c.JSON(http.StatusOK, echo.Map{"superseded": true})
		case errors.Is(err, ingest.ErrReadFailed):
			// Prior asset is untouched; the message sits in the error slot.
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": ingest.ReadFailedMessage})
		case errors.Is(err, draft.ErrDraftNotFound):
			// Session expired between the check above and the commit.
			return c.JSON(http.StatusNotFound, echo.Map{"error": "draft not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store image failed"})
		}
	}

	d, err := h.Store.Get(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load draft failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"preview": d.Image.Preview})
}

// Submit runs one registration attempt.  Dispatch to the backend is
// fire-and-forget: a 202 means the payload was handed over, not that the
// backend accepted it.
func (h *SignupHandler) Submit(c echo.Context) error {
	_, err := h.Assembler.Submit(c.Request().Context(), c.Param("id"))
	switch {
	case err == nil:
		return c.JSON(http.StatusAccepted, echo.Map{"status": "submitted"})
	case errors.Is(err, draft.ErrDraftNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "draft not found"})
	case errors.Is(err, submit.ErrSubmissionInFlight):
		return c.JSON(http.StatusConflict, echo.Map{"error": "submission already in progress"})
	case errors.Is(err, submit.ErrPrecondition):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": submit.PreconditionMessage})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": submit.GenerationFailedMessage})
	}
}

// DeleteDraft discards the draft session and its image asset.
func (h *SignupHandler) DeleteDraft(c echo.Context) error {
	if err := h.Store.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete draft failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
