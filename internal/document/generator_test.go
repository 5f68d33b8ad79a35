package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProducesPDF(t *testing.T) {
	doc, err := Generate("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", doc.UserName)
	require.NotEmpty(t, doc.PDF)
	assert.Equal(t, "%PDF", string(doc.PDF[:4]))
}

func TestGreedyPagination(t *testing.T) {
	doc, err := Generate("alice")
	require.NoError(t, err)

	// The fixed terms text reflows to more lines than one page holds, so
	// the generator must overflow onto at least a second page.
	require.GreaterOrEqual(t, doc.PageCount(), 2)

	// Page one holds exactly as many lines as fit between bodyStart and
	// the bottom reserve; the first line of page two is the first line
	// that did not fit.
	capacity := 0
	for y := bodyStart; y <= 297.0-bottomReserve; y += lineStep {
		capacity++
	}
	assert.Len(t, doc.Pages[0], capacity)

	// No line dropped, no line duplicated: flattening the pages must give
	// back the full reflowed sequence in order.
	var flat []string
	for _, page := range doc.Pages {
		require.NotEmpty(t, page, "no page may be emitted empty")
		flat = append(flat, page...)
	}
	regen, err := Generate("alice")
	require.NoError(t, err)
	var flat2 []string
	for _, page := range regen.Pages {
		flat2 = append(flat2, page...)
	}
	assert.Equal(t, flat2, flat, "pagination must be deterministic")
}

func TestPageTwoContinuesWhereOneStopped(t *testing.T) {
	doc, err := Generate("bob")
	require.NoError(t, err)
	require.GreaterOrEqual(t, doc.PageCount(), 2)

	lastOfOne := doc.Pages[0][len(doc.Pages[0])-1]
	firstOfTwo := doc.Pages[1][0]

	// Reconstruct the flat order and check the page boundary sits exactly
	// between consecutive lines.
	var flat []string
	for _, page := range doc.Pages {
		flat = append(flat, page...)
	}
	boundary := len(doc.Pages[0])
	assert.Equal(t, lastOfOne, flat[boundary-1])
	assert.Equal(t, firstOfTwo, flat[boundary])
}

func TestFileExporterWritesArtifact(t *testing.T) {
	dir := t.TempDir()
	doc, err := Generate("carol")
	require.NoError(t, err)

	exp := NewFileExporter(filepath.Join(dir, "exports"))
	path, err := exp.Write("draft-123", doc)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "exports", "draft-123_TermsAndConditions.pdf"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc.PDF, raw)
}
