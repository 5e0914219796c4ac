// Copyright (c) 2026 ScholarLink. All rights reserved.

package tablesource

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hbadaoui/scholarlink/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listDatabases)
}

func (handler *Handler) listDatabases(writer http.ResponseWriter, request *http.Request) {
	databases, err := handler.service.ListDatabases(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, databases)
}
