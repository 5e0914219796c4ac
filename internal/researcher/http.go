// Copyright (c) 2026 ScholarLink. All rights reserved.

package researcher

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/hbadaoui/scholarlink/internal/platform/request"
	"github.com/hbadaoui/scholarlink/internal/platform/respond"
	"github.com/hbadaoui/scholarlink/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/save", handler.saveResearchers)
	router.Post("/overwrite", handler.overwriteResearchers)
	router.Get("/", handler.listResearchers)
	router.Delete("/{id}", handler.deleteResearcher)
}

// bulkPayload is the body of both save and overwrite.
type bulkPayload struct {
	Chercheurs []Researcher `json:"chercheurs"`
}

func (handler *Handler) saveResearchers(writer http.ResponseWriter, request *http.Request) {
	var payload bulkPayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	report, err := handler.service.SaveBulk(request.Context(), payload.Chercheurs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, report)
}

func (handler *Handler) overwriteResearchers(writer http.ResponseWriter, request *http.Request) {
	var payload bulkPayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	report, err := handler.service.Overwrite(request.Context(), payload.Chercheurs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, report)
}

func (handler *Handler) listResearchers(writer http.ResponseWriter, request *http.Request) {
	search := requestutil.Query(request, "search")
	limit := intQuery(request, "limit", pagination.DefaultLimit)
	skip := intQuery(request, "skip", 0)

	if limit < 1 || limit > pagination.MaxLimit {
		limit = pagination.DefaultLimit
	}
	if skip < 0 {
		skip = 0
	}

	researchers, total, err := handler.service.ListResearchers(request.Context(), search, limit, skip)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, researchers, pagination.NewMeta(skip/limit+1, limit, total))
}

func (handler *Handler) deleteResearcher(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	if err := handler.service.DeleteResearcher(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func intQuery(request *http.Request, name string, fallback int) int {
	raw := requestutil.Query(request, name)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
