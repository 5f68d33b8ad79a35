package document

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileExporter writes acceptance documents to disk.  The artifact keeps the
// fixed "TermsAndConditions" name, prefixed with the draft ID so concurrent
// sessions cannot clobber each other's export.
type FileExporter struct {
	Dir string
}

// NewFileExporter returns an exporter writing into dir.
func NewFileExporter(dir string) *FileExporter { return &FileExporter{Dir: dir} }

// Write persists the document and returns the path it was written to.  The
// core does not hold the document after this hand-off.
func (e *FileExporter) Write(draftID string, doc *Document) (string, error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir export dir: %w", err)
	}
	path := filepath.Join(e.Dir, draftID+"_TermsAndConditions.pdf")
	if err := os.WriteFile(path, doc.PDF, 0o644); err != nil {
		return "", fmt.Errorf("write acceptance document: %w", err)
	}
	return path, nil
}

// Service bundles generation and export behind one collaborator so the
// submission assembler depends on a single document port.
type Service struct {
	Exporter *FileExporter
}

// NewService returns a document service exporting into dir.
func NewService(dir string) *Service { return &Service{Exporter: NewFileExporter(dir)} }

// Generate builds the acceptance document.
func (s *Service) Generate(userName string) (*Document, error) { return Generate(userName) }

// Export hands the document to the file exporter.
func (s *Service) Export(draftID string, doc *Document) (string, error) {
	return s.Exporter.Write(draftID, doc)
}
