package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/air-quality-dashboard/internal/domain"
	"github.com/couchcryptid/air-quality-dashboard/internal/report"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// reportParams are the query parameters shared by /report and /export.csv.
type reportParams struct {
	Years     []int  `validate:"omitempty,max=200,dive,gte=1900,lte=2100"`
	AllYears  bool   `validate:"-"`
	Region    string `validate:"max=128"`
	Pollutant string `validate:"required,max=32"`
}

type apiHandler struct {
	svc    ReportService
	logger *slog.Logger
}

type errorResponse struct {
	Error          string   `json:"error"`
	MissingColumns []string `json:"missing_columns,omitempty"`
}

func (h *apiHandler) options(w http.ResponseWriter, r *http.Request) {
	opts, err := h.svc.Options(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, opts)
}

func (h *apiHandler) report(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, err)
		return
	}
	rep, err := h.svc.Build(r.Context(), q)
	if err != nil {
		h.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, rep)
}

func (h *apiHandler) export(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, err)
		return
	}
	rep, err := h.svc.Build(r.Context(), q)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.ExportFilename(rep)))
	w.WriteHeader(http.StatusOK)
	if err := report.WriteCSV(w, rep); err != nil {
		h.logger.Warn("export write failed", "error", err)
	}
}

// errBadRequest marks query parameter errors.
var errBadRequest = errors.New("bad request")

// parseQuery reads years, region, and pollutant. An absent years parameter
// selects every year; a present but empty one is an invalid selection. Years
// may be repeated or comma separated.
func parseQuery(values url.Values) (report.Query, error) {
	p := reportParams{
		Region:    strings.TrimSpace(values.Get("region")),
		Pollutant: strings.TrimSpace(values.Get("pollutant")),
	}
	if p.Pollutant == "" {
		p.Pollutant = string(domain.PM25)
	}

	raw, ok := values["years"]
	p.AllYears = !ok
	for _, v := range raw {
		for part := range strings.SplitSeq(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			y, err := strconv.Atoi(part)
			if err != nil {
				return report.Query{}, fmt.Errorf("%w: invalid year %q", errBadRequest, part)
			}
			p.Years = append(p.Years, y)
		}
	}

	if err := validate.Struct(p); err != nil {
		return report.Query{}, fmt.Errorf("%w: %w", errBadRequest, err)
	}

	pollutant, err := domain.ParsePollutant(p.Pollutant)
	if err != nil {
		return report.Query{}, err
	}
	return report.Query{
		Years:     p.Years,
		AllYears:  p.AllYears,
		Region:    p.Region,
		Pollutant: pollutant,
	}, nil
}

func (h *apiHandler) writeError(w http.ResponseWriter, err error) {
	var mce *domain.MissingColumnsError
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrInvalidSelection),
		errors.Is(err, domain.ErrUnknownPollutant):
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.As(err, &mce):
		h.logger.Error("dataset is missing required columns", "columns", mce.Columns)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, errorResponse{
			Error:          err.Error(),
			MissingColumns: mce.Columns,
		})
	default:
		h.logger.Error("request failed", "error", err)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
