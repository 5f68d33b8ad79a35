// Package submit orchestrates a registration attempt: it enforces the
// consent gate, generates the acceptance document, assembles the multipart
// payload from the role-conditional field set, and dispatches it to the
// external registration operation.
package submit

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/nexbid/auction-signup/internal/draft"
	"github.com/nexbid/auction-signup/internal/model"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// BuildPayload assembles the one-shot multipart body from the current draft
// state.  Identity fields and the role always travel; the profileImage part
// is attached when an asset exists; payout fields travel only for the
// Auctioneer role.  Values are passed through as held, empty strings
// included — content validation belongs to the backend.
func BuildPayload(d *model.Draft) (*model.SubmissionPayload, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := make(map[string]string)
	for _, name := range draft.ActiveFields(d.Role()) {
		value := d.Fields[name]
		if err := mw.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", name, err)
		}
		fields[name] = value
	}

	hasImage := false
	if d.Image != nil {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="profileImage"; filename="%s"`,
			quoteEscaper.Replace(d.Image.FileName)))
		hdr.Set("Content-Type", d.Image.ContentType)
		part, err := mw.CreatePart(hdr)
		if err != nil {
			return nil, fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(d.Image.Data); err != nil {
			return nil, fmt.Errorf("write image part: %w", err)
		}
		hasImage = true
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	return &model.SubmissionPayload{
		Body:        buf.Bytes(),
		ContentType: mw.FormDataContentType(),
		Fields:      fields,
		HasImage:    hasImage,
	}, nil
}
