// Package export writes site-plan documents to disk and drives the PDF
// rendering collaborator. Every export works from a snapshot taken
// synchronously at invocation, so a plan the user keeps editing mid-export
// cannot tear the output.
package export

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pyroplan/siteplan/internal/config"
	v1 "github.com/pyroplan/siteplan/internal/export/v1"
	"github.com/pyroplan/siteplan/internal/store"
	"github.com/pyroplan/siteplan/pkg/core"
)

// ErrExportPending is returned when a PDF export is requested while one is
// already running. The second request is ignored, not queued.
var ErrExportPending = errors.New("a PDF export is already in progress")

// Renderer rasterizes a site-plan document into a PDF. Implemented by the
// rendering collaborator; the engine never rasterizes anything itself.
type Renderer interface {
	RenderPDF(doc v1.Document, outputPath string) error
}

// Exporter writes plan documents and coordinates PDF rendering.
type Exporter struct {
	cfg config.ExportConfig

	mu             sync.Mutex
	pdfPending     bool
	lastExportPath string
}

// New creates an Exporter with the given output settings.
func New(cfg config.ExportConfig) *Exporter {
	return &Exporter{cfg: cfg}
}

// ExportJSON builds a v1 document from the snapshot and writes it to the
// output directory, gzipped when configured. Returns the written path.
func (e *Exporter) ExportJSON(snap store.Snapshot, planName string) (string, error) {
	doc := v1.Build(snap, planName, time.Now())

	filename := planFilename(planName, time.Now())
	if e.cfg.CompressOutput {
		filename += ".json.gz"
	} else {
		filename += ".json"
	}
	outputPath := filepath.Join(e.cfg.OutputDir, filename)

	if err := os.MkdirAll(e.cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if e.cfg.CompressOutput {
		if err := writeGzipJSON(outputPath, doc); err != nil {
			return "", err
		}
	} else {
		if err := writeJSON(outputPath, doc); err != nil {
			return "", err
		}
	}

	e.mu.Lock()
	e.lastExportPath = outputPath
	e.mu.Unlock()
	return outputPath, nil
}

// ExportPDF renders a snapshot through the collaborator. While a render is
// in flight further calls fail with ErrExportPending; there is no
// cancellation, only completion.
func (e *Exporter) ExportPDF(snap store.Snapshot, planName string, r Renderer) (string, error) {
	e.mu.Lock()
	if e.pdfPending {
		e.mu.Unlock()
		return "", ErrExportPending
	}
	e.pdfPending = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.pdfPending = false
		e.mu.Unlock()
	}()

	doc := v1.Build(snap, planName, time.Now())

	outputPath := filepath.Join(e.cfg.OutputDir, planFilename(planName, time.Now())+".pdf")
	if err := os.MkdirAll(e.cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := r.RenderPDF(doc, outputPath); err != nil {
		return "", fmt.Errorf("rendering site plan: %w", err)
	}

	e.mu.Lock()
	e.lastExportPath = outputPath
	e.mu.Unlock()
	return outputPath, nil
}

// PDFPending reports whether a PDF render is currently in flight.
func (e *Exporter) PDFPending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pdfPending
}

// LastExportPath returns the path of the most recent export ("" if none).
func (e *Exporter) LastExportPath() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastExportPath
}

// Metadata describes the most recent export for the share upload client.
func (e *Exporter) Metadata(snap store.Snapshot, planName string) core.UploadMetadata {
	return core.UploadMetadata{
		PlanName:        planName,
		AnnotationCount: snap.Counts().Total,
		ExportVersion:   v1.FormatVersion,
	}
}

func planFilename(planName string, now time.Time) string {
	name := strings.ReplaceAll(planName, " ", "_")
	name = strings.ReplaceAll(name, ":", "_")
	if name == "" {
		name = "siteplan"
	}
	return fmt.Sprintf("%s_%s", name, now.Format("20060102_150405"))
}

func writeJSON(path string, doc v1.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

func writeGzipJSON(path string, doc v1.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	enc := json.NewEncoder(zw)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish export: %w", err)
	}
	return nil
}
