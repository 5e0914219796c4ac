// Copyright (c) 2026 ScholarLink. All rights reserved.

package orcid

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/hbadaoui/scholarlink/internal/platform/request"
	"github.com/hbadaoui/scholarlink/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/table-search", handler.tableSearch)
	router.Post("/search-individual", handler.searchIndividual)
	router.Post("/retry-row", handler.retryRow)
	router.Get("/profile/{orcidID}", handler.getProfile)
	router.Post("/export/csv", handler.exportCSV)
}

// # Batch Resolution

func (handler *Handler) tableSearch(writer http.ResponseWriter, request *http.Request) {
	var body TableSearchRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	taskID, err := handler.service.StartTableSearch(request.Context(), body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Accepted(writer, map[string]string{
		"task_id": taskID,
		"status":  "started",
	})
}

type searchIndividualRequest struct {
	Researcher RawRow `json:"researcher"`
	ModelName  string `json:"model_name"`
}

func (handler *Handler) searchIndividual(writer http.ResponseWriter, request *http.Request) {
	var body searchIndividualRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.SearchIndividual(request.Context(), body.Researcher, body.ModelName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

type retryRowRequest struct {
	RowID        string `json:"row_id"`
	OriginalData RawRow `json:"original_data"`
	ModelName    string `json:"model_name"`
}

func (handler *Handler) retryRow(writer http.ResponseWriter, request *http.Request) {
	var body retryRowRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.RetryRow(request.Context(), body.RowID, body.OriginalData, body.ModelName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

// # Profile Viewing

func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	orcidID := requestutil.Param(request, "orcidID")

	includeWorks := true
	if raw := requestutil.Query(request, "include_works"); raw != "" {
		includeWorks, _ = strconv.ParseBool(raw)
	}

	worksLimit := 0
	if raw := requestutil.Query(request, "works_limit"); raw != "" {
		worksLimit, _ = strconv.Atoi(raw)
	}

	profile, err := handler.service.GetProfile(request.Context(), orcidID, includeWorks, worksLimit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}

// # Export

type exportCSVRequest struct {
	Rows            []CandidateRow `json:"rows"`
	SelectedColumns []string       `json:"selected_columns"`
}

func (handler *Handler) exportCSV(writer http.ResponseWriter, request *http.Request) {
	var body exportCSVRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var buffer bytes.Buffer
	if err := handler.service.ExportCSV(&buffer, body.Rows, body.SelectedColumns); err != nil {
		respond.Error(writer, request, err)
		return
	}

	filename := "orcid_results_" + time.Now().UTC().Format("20060102_150405") + ".csv"
	respond.CSV(writer, filename, buffer.Bytes())
}
