package model

// SubmissionPayload is the one-shot multipart body handed to the external
// registration operation.  It is assembled fresh on every submit attempt
// and never mutated afterwards.
//
// Fields:
//  Body        – encoded multipart/form-data bytes.
//  ContentType – full content type including the boundary parameter.
//  Fields      – the text fields that were included, for observability;
//                the authoritative encoding is Body.
//  HasImage    – whether a profileImage file part was attached.
type SubmissionPayload struct {
	Body        []byte
	ContentType string
	Fields      map[string]string
	HasImage    bool
}
