package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"brandforge/internal/report"
)

// PDFReport streams the engagement report window as a PDF download.
func (a *App) PDFReport(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	pdf, filename, err := a.Reports.GeneratePDF(r.Context(), userID, reportOptions(r))
	if err != nil {
		a.Logger.Error().Err(err).Msg("http: pdf report failed")
		a.error(w, http.StatusInternalServerError, "internal", "report generation failed")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// CSVReport streams the engagement report window as a CSV download.
func (a *App) CSVReport(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	content, filename, err := a.Reports.GenerateCSV(r.Context(), userID, reportOptions(r))
	if err != nil {
		a.Logger.Error().Err(err).Msg("http: csv report failed")
		a.error(w, http.StatusInternalServerError, "internal", "report generation failed")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(content))
}

func reportOptions(r *http.Request) report.Options {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	return report.Options{Days: days}
}
