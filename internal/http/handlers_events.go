package http

import (
	"net/http"
	"strings"

	"freela/internal/services"
)

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	period, err := queryPeriod(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	in := services.ListEventsInput{
		Status:           q.Get("status"),
		IncludeCancelled: strings.EqualFold(q.Get("includeCancelled"), "true"),
		Year:             period.Year,
		Month:            period.Month,
	}
	writeResult(w, r, s.svc.ListEvents.Execute(r.Context(), in), http.StatusOK)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var in services.EventInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, r, s.svc.CreateEvent.Execute(r.Context(), in), http.StatusCreated)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	in := services.IDInput{ID: r.PathValue("id")}
	writeResult(w, r, s.svc.GetEvent.Execute(r.Context(), in), http.StatusOK)
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateEventInput
	if err := decodeJSON(w, r, &in.EventInput); err != nil {
		writeError(w, r, err)
		return
	}
	in.ID = r.PathValue("id")
	writeResult(w, r, s.svc.UpdateEvent.Execute(r.Context(), in), http.StatusOK)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	in := services.IDInput{ID: r.PathValue("id")}
	writeResult(w, r, s.svc.DeleteEvent.Execute(r.Context(), in), http.StatusOK)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateEventStatusInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.EventID = r.PathValue("id")
	writeResult(w, r, s.svc.UpdateEventStatus.Execute(r.Context(), in), http.StatusOK)
}

func (s *Server) handleCancelEvent(w http.ResponseWriter, r *http.Request) {
	in := services.IDInput{ID: r.PathValue("id")}
	writeResult(w, r, s.svc.CancelEvent.Execute(r.Context(), in), http.StatusOK)
}

func (s *Server) handleEventSummary(w http.ResponseWriter, r *http.Request) {
	in := services.EventIDInput{EventID: r.PathValue("id")}
	writeResult(w, r, s.svc.GetEventSummary.Execute(r.Context(), in), http.StatusOK)
}

func (s *Server) handleEventReport(w http.ResponseWriter, r *http.Request) {
	in := services.EventIDInput{EventID: r.PathValue("id")}
	writeResult(w, r, s.svc.GenerateEventReport.Execute(r.Context(), in), http.StatusOK)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	in := services.ListTransactionsInput{EventID: r.PathValue("id")}
	writeResult(w, r, s.svc.ListTransactions.Execute(r.Context(), in), http.StatusOK)
}
