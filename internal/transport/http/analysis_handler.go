package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "ticketlens/internal/errors"
	"ticketlens/internal/middleware"
	"ticketlens/pkg/contracts/domain"
)

const periodDateLayout = "2006-01-02"

// PeriodRequest is one named date range in an analyze request.
type PeriodRequest struct {
	Name  string `json:"name" validate:"required"`
	Start string `json:"start" validate:"required,datetime=2006-01-02"`
	End   string `json:"end" validate:"required,datetime=2006-01-02"`
}

// AnalyzeRequest carries the comparison periods and the ticket-type filter.
// An empty type filter selects every type present in the file.
type AnalyzeRequest struct {
	Periods     []PeriodRequest `json:"periods" validate:"omitempty,max=3,dive"`
	TicketTypes []string        `json:"ticket_types"`
}

// AnalyzeResponse is the assembled output for one upload.
type AnalyzeResponse struct {
	Success        bool                  `json:"success"`
	Summary        domain.DatasetSummary `json:"summary"`
	AvailableTypes []string              `json:"available_types"`
	Reports        []domain.PeriodReport `json:"reports"`
}

// AnalysisHandler handles spreadsheet uploads and runs the analysis pipeline
type AnalysisHandler struct {
	service        AnalysisServiceInterface
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	validate       *validator.Validate
	maxUploadBytes int64
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service AnalysisServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64) *AnalysisHandler {
	return &AnalysisHandler{
		service:        service,
		logger:         logger.With(slog.String("component", "analysis_handler")),
		errorHandler:   errorHandler,
		validate:       validator.New(),
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the analysis routes
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.Analyze)
	return r
}

// Analyze handles POST /api/analyze. The body is multipart/form-data with a
// "file" part carrying the spreadsheet and an optional "request" part with
// the AnalyzeRequest JSON. Without a request part the whole observed date
// range is analyzed as a single period.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "A spreadsheet file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	h.logger.InfoContext(r.Context(), "processing upload",
		slog.String("request_id", reqID),
		slog.String("filename", header.Filename),
		slog.Int("bytes", len(data)))

	req, err := h.parseRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	dataset, err := h.service.Ingest(r.Context(), data)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	periods, err := h.buildPeriods(req, dataset)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	reports, err := h.service.AnalyzePeriods(r.Context(), dataset, periods, req.TicketTypes)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, AnalyzeResponse{
		Success:        true,
		Summary:        h.service.Summarize(dataset),
		AvailableTypes: dataset.TicketTypes(),
		Reports:        reports,
	})
}

// parseRequest decodes and validates the optional "request" form part.
func (h *AnalysisHandler) parseRequest(r *http.Request) (*AnalyzeRequest, error) {
	var req AnalyzeRequest

	raw := r.FormValue("request")
	if raw == "" {
		return &req, nil
	}

	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return nil, apierrors.InvalidRequestWithError(err)
	}
	if err := h.validate.Struct(&req); err != nil {
		return nil, apierrors.NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED",
			"Request validation failed", err.Error())
	}

	return &req, nil
}

// buildPeriods converts the request periods to domain periods, defaulting to
// one period spanning the dataset's observed date range.
func (h *AnalysisHandler) buildPeriods(req *AnalyzeRequest, dataset domain.Dataset) ([]domain.Period, error) {
	if len(req.Periods) == 0 {
		if len(dataset) == 0 {
			return nil, apierrors.NewWithDetails(http.StatusUnprocessableEntity,
				string(apierrors.ErrTypeEmptyDataset), "Uploaded file contains no data rows", nil)
		}

		minDay, maxDay := dataset[0].Day(), dataset[0].Day()
		for _, t := range dataset[1:] {
			day := t.Day()
			if day.Before(minDay) {
				minDay = day
			}
			if day.After(maxDay) {
				maxDay = day
			}
		}
		return []domain.Period{{Name: "Full range", Start: minDay, End: maxDay}}, nil
	}

	periods := make([]domain.Period, 0, len(req.Periods))
	for _, p := range req.Periods {
		start, _ := time.Parse(periodDateLayout, p.Start)
		end, _ := time.Parse(periodDateLayout, p.End)
		if end.Before(start) {
			return nil, apierrors.ErrValidation("periods",
				"period \""+p.Name+"\" ends before it starts")
		}
		periods = append(periods, domain.Period{Name: p.Name, Start: start, End: end})
	}
	return periods, nil
}
