package http

import (
	"fmt"
	"net/http"

	"freela/internal/export"
	"freela/internal/log"
	"freela/internal/services"
)

func (s *Server) handleConsolidatedSummary(w http.ResponseWriter, r *http.Request) {
	in, err := queryPeriod(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, r, s.svc.GetConsolidatedSummary.Execute(r.Context(), in), http.StatusOK)
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	in, err := queryPeriod(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, r, s.svc.GenerateMonthlyReport.Execute(r.Context(), in), http.StatusOK)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeResult(w, r, s.svc.GetSettings.Execute(r.Context(), struct{}{}), http.StatusOK)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateSettingsInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, r, s.svc.UpdateSettings.Execute(r.Context(), in), http.StatusOK)
}

// handleExportBackup downloads the backup file itself, not a Result, so the
// same file can be posted back to /api/backup.
func (s *Server) handleExportBackup(w http.ResponseWriter, r *http.Request) {
	res := s.svc.ExportBackup.Execute(r.Context(), struct{}{})
	if !res.Success {
		writeResult(w, r, res, http.StatusOK)
		return
	}
	filename := fmt.Sprintf("freela-backup-%s.json", res.Data.ExportDate.Format("2006-01-02"))
	attachment(w, "application/json; charset=utf-8", filename)
	writeJSON(w, r, http.StatusOK, res.Data)
}

func (s *Server) handleImportBackup(w http.ResponseWriter, r *http.Request) {
	b, err := export.DecodeBackup(http.MaxBytesReader(w, r.Body, maxBackupBytes))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, r, s.svc.ImportBackup.Execute(r.Context(), services.ImportBackupInput{Backup: b}), http.StatusOK)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	in, err := queryPeriod(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res := s.svc.ExportCSV.Execute(r.Context(), in)
	if !res.Success {
		writeResult(w, r, res, http.StatusOK)
		return
	}
	attachment(w, "text/csv; charset=utf-8", res.Data.Filename)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Data.Content); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to write CSV", "error", err)
	}
}
