package borelog

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
)

// ProcessingMetrics contains timing and statistics for one document run.
type ProcessingMetrics struct {
	TotalTime    time.Duration
	DocumentOpen time.Duration
	PageTimings  []PageMetrics
	Statistics   DocumentStatistics
}

// PageMetrics contains timing for a single page.
type PageMetrics struct {
	PageNumber int
	Duration   time.Duration
}

// DocumentStatistics contains document-level statistics.
type DocumentStatistics struct {
	TotalPages        int
	TotalWords        int
	TotalDepthColumns int
	TotalLayers       int
	LayersWithDepth   int
}

// DocumentPredictions is the extraction result for one document.
type DocumentPredictions struct {
	RunID  string            `json:"run_id"`
	Layers []LayerPrediction `json:"layers"`
}

// Processor extracts layer descriptions from borehole-log PDFs.
type Processor struct {
	instance pdfium.Pdfium
	config   Config
}

// NewProcessor creates a processor with the default configuration.
func NewProcessor(instance pdfium.Pdfium) *Processor {
	return &Processor{instance: instance, config: DefaultConfig()}
}

// NewProcessorWithConfig creates a processor with a custom configuration.
func NewProcessorWithConfig(instance pdfium.Pdfium, config Config) *Processor {
	return &Processor{instance: instance, config: config}
}

// ProcessFile extracts layer predictions from a PDF file.
func (p *Processor) ProcessFile(filePath string) (*DocumentPredictions, ProcessingMetrics, error) {
	return p.process(&requests.OpenDocument{FilePath: &filePath})
}

// ProcessBytes extracts layer predictions from PDF bytes.
func (p *Processor) ProcessBytes(pdfBytes []byte) (*DocumentPredictions, ProcessingMetrics, error) {
	return p.process(&requests.OpenDocument{File: &pdfBytes})
}

// ProcessReader extracts layer predictions from a PDF reader.
func (p *Processor) ProcessReader(reader io.ReadSeeker) (*DocumentPredictions, ProcessingMetrics, error) {
	return p.process(&requests.OpenDocument{FileReader: reader})
}

func (p *Processor) process(open *requests.OpenDocument) (*DocumentPredictions, ProcessingMetrics, error) {
	startTime := time.Now()

	doc, err := p.instance.OpenDocument(open)
	if err != nil {
		return nil, ProcessingMetrics{}, errors.Wrap(err, "failed to open PDF document")
	}
	defer p.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})
	documentOpenTime := time.Since(startTime)

	pageCount, err := p.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		return nil, ProcessingMetrics{}, errors.Wrap(err, "failed to get page count")
	}

	predictions := &DocumentPredictions{RunID: uuid.NewString()}
	stats := DocumentStatistics{TotalPages: pageCount.PageCount}

	var pageMetrics []PageMetrics
	for i := 0; i < pageCount.PageCount; i++ {
		pageStart := time.Now()
		results, pageStats, err := p.processPage(doc.Document, i, predictions.RunID)
		pageDuration := time.Since(pageStart)

		if err != nil {
			// A broken page must not abort the rest of the document.
			log.Printf("borelog: skipping page %d: %v", i+1, err)
			continue
		}

		for _, result := range results {
			prediction := result.ToPrediction()
			predictions.Layers = append(predictions.Layers, prediction)
			stats.TotalLayers++
			if prediction.DepthInterval != nil {
				stats.LayersWithDepth++
			}
		}
		stats.TotalWords += pageStats.TotalWords
		stats.TotalDepthColumns += pageStats.TotalDepthColumns

		pageMetrics = append(pageMetrics, PageMetrics{
			PageNumber: i + 1,
			Duration:   pageDuration,
		})
		if p.config.EnableMetricsLogging {
			log.Printf("Page %d/%d matched in %v", i+1, pageCount.PageCount, pageDuration)
		}
	}

	metrics := ProcessingMetrics{
		TotalTime:    time.Since(startTime),
		DocumentOpen: documentOpenTime,
		PageTimings:  pageMetrics,
		Statistics:   stats,
	}
	if p.config.EnableMetricsLogging {
		logProcessingMetrics(metrics)
	}
	return predictions, metrics, nil
}

// processPage runs the per-page pipeline: tokenize, detect depth columns,
// match columns to description regions, reconcile intervals with blocks.
func (p *Processor) processPage(docRef references.FPDF_DOCUMENT, pageIndex int, runID string) ([]MatchResult, DocumentStatistics, error) {
	pageResp, err := p.instance.FPDF_LoadPage(&requests.FPDF_LoadPage{
		Document: docRef,
		Index:    pageIndex,
	})
	if err != nil {
		return nil, DocumentStatistics{}, errors.Wrap(err, "failed to load page")
	}
	defer p.instance.FPDF_ClosePage(&requests.FPDF_ClosePage{
		Page: pageResp.Page,
	})

	content, err := ExtractPageContent(p.instance, pageResp.Page, pageIndex+1, p.config)
	if err != nil {
		return nil, DocumentStatistics{}, errors.Wrap(err, "failed to tokenize page")
	}

	columns := FindDepthColumns(content.Words, content.Number, p.config)
	input := PageInput{
		Words:   content.Words,
		Lines:   content.Lines,
		Columns: columns,
		Rulings: content.Rulings,
	}
	results := MatchPage(input, p.config.Matching)

	if p.config.RenderOverlays && p.config.OverlayDir != "" {
		p.renderOverlay(pageResp.Page, runID, content.Number, input, results)
	}

	stats := DocumentStatistics{
		TotalWords:        len(content.Words),
		TotalDepthColumns: len(columns),
	}
	return results, stats, nil
}

// renderOverlay writes a debug overlay PNG for the page. Overlay failures
// are logged only; they never fail the run.
func (p *Processor) renderOverlay(page references.FPDF_PAGE, runID string, pageNumber int, input PageInput, results []MatchResult) {
	pairs := MatchColumnsToRegions(input.Columns, input.Lines, input.Words, p.config.Matching)
	img, err := RenderPageOverlay(p.instance, page, pairs, results, p.config.OverlayScale)
	if err != nil {
		log.Printf("borelog: overlay render failed for page %d: %v", pageNumber, err)
		return
	}
	path := filepath.Join(p.config.OverlayDir, fmt.Sprintf("%s_page%d.png", runID, pageNumber))
	f, err := os.Create(path)
	if err != nil {
		log.Printf("borelog: overlay write failed for page %d: %v", pageNumber, err)
		return
	}
	defer f.Close()
	if err := WritePNG(f, img); err != nil {
		log.Printf("borelog: overlay encode failed for page %d: %v", pageNumber, err)
	}
}

// WriteJSON writes the predictions of several documents, keyed by filename,
// in the benchmark interchange format.
func WriteJSON(w io.Writer, predictions map[string]*DocumentPredictions) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(predictions), "failed to encode predictions")
}

func logProcessingMetrics(metrics ProcessingMetrics) {
	log.Printf("document processed in %v (open %v)",
		metrics.TotalTime.Round(time.Millisecond),
		metrics.DocumentOpen.Round(time.Millisecond))
	log.Printf("  pages=%d words=%d depth_columns=%d layers=%d with_depth=%d",
		metrics.Statistics.TotalPages,
		metrics.Statistics.TotalWords,
		metrics.Statistics.TotalDepthColumns,
		metrics.Statistics.TotalLayers,
		metrics.Statistics.LayersWithDepth)
	for _, pm := range metrics.PageTimings {
		log.Printf("  page %2d: %v", pm.PageNumber, pm.Duration.Round(time.Millisecond))
	}
}
