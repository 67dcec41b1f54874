package service

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/study-planner-api/internal/dto"
	appErrors "github.com/noah-isme/study-planner-api/pkg/errors"
	"github.com/noah-isme/study-planner-api/pkg/export"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

var availabilityHeaders = []string{"Date", "Weekday", "Day Type", "Week", "Hours", "Available"}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders computed periods as CSV or PDF tables.
type ExportService struct {
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = &export.PDFExporter{Widths: map[string]float64{"Available": 3, "Day Type": 1.5}}
	}
	return &ExportService{csv: csv, pdf: pdf, logger: logger}
}

// RenderAvailability renders daily rows of a computed period in the requested format.
func (s *ExportService) RenderAvailability(resp *dto.AvailabilityResponse, format string) (*ExportFile, error) {
	if resp == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "nothing to export")
	}
	dataset := availabilityDataset(resp)
	base := fmt.Sprintf("availability_%s_%s", sanitizeFilename(resp.PeriodStart), sanitizeFilename(resp.PeriodEnd))

	var (
		body        []byte
		err         error
		contentType string
	)
	switch strings.ToLower(format) {
	case ExportFormatCSV, "":
		format = ExportFormatCSV
		contentType = "text/csv"
		body, err = s.csv.Render(dataset)
	case ExportFormatPDF:
		contentType = "application/pdf"
		body, err = s.pdf.Render(dataset, "Study availability "+resp.PeriodStart+" ~ "+resp.PeriodEnd)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		s.logger.Error("render availability export", zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportFile{Filename: base + "." + strings.ToLower(format), ContentType: contentType, Body: body}, nil
}

func availabilityDataset(resp *dto.AvailabilityResponse) export.Dataset {
	rows := make([]map[string]string, 0, len(resp.Days))
	for _, day := range resp.Days {
		week := ""
		if day.WeekNumber != nil {
			week = strconv.Itoa(*day.WeekNumber)
		}
		rows = append(rows, map[string]string{
			"Date":      day.Date.Format("2006-01-02"),
			"Weekday":   day.Date.Weekday().String()[:3],
			"Day Type":  string(day.DayType),
			"Week":      week,
			"Hours":     strconv.FormatFloat(day.TotalHours, 'f', 2, 64),
			"Available": day.Note,
		})
	}

	summary := resp.Summary
	footer := []string{
		fmt.Sprintf("Days: %d", summary.TotalDays),
		fmt.Sprintf("Study hours: %.2f  Review hours: %.2f  Self-study hours: %.2f", summary.StudyHours, summary.ReviewHours, summary.SelfStudyHours),
		fmt.Sprintf("Academy occurrences: %d  Class hours: %.2f  Travel hours: %.2f",
			summary.Academy.TotalOccurrences, summary.Academy.TotalClassHours, summary.Academy.TotalTravelHours),
	}
	return export.Dataset{Headers: availabilityHeaders, Rows: rows, Footer: footer}
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
