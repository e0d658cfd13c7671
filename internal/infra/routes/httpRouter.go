package routes

import (
	"encoding/json"
	"interview-service/internal/infra/handlers"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Routes struct {
	Mux              *mux.Router
	InterviewHandler *handlers.InterviewHandlers
}

func NewRoutes(mux *mux.Router, interviewHandler *handlers.InterviewHandlers) *Routes {
	return &Routes{mux, interviewHandler}
}

func (r *Routes) Init() {
	r.Mux.HandleFunc("/interviews", r.InterviewHandler.StartInterview).Methods(http.MethodPost)
	r.Mux.HandleFunc("/interviews", r.InterviewHandler.ListInterviews).Methods(http.MethodGet)
	r.Mux.HandleFunc("/interviews/{id}", r.InterviewHandler.GetInterview).Methods(http.MethodGet)
	r.Mux.HandleFunc("/interviews/{id}", r.InterviewHandler.AbandonInterview).Methods(http.MethodDelete)
	r.Mux.HandleFunc("/interviews/{id}/answers", r.InterviewHandler.SubmitAnswer).Methods(http.MethodPost)

	r.Mux.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.Mux.HandleFunc("/healthCheck", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods(http.MethodGet)
}
