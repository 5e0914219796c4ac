// Copyright (c) 2026 ScholarLink. All rights reserved.

package task

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hbadaoui/scholarlink/internal/platform/respond"
)

type Handler struct {
	registry *Registry
}

func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listTasks)
	router.Get("/{taskID}", handler.getTask)
	router.Delete("/{taskID}", handler.deleteTask)
}

func (handler *Handler) listTasks(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.registry.List())
}

func (handler *Handler) getTask(writer http.ResponseWriter, request *http.Request) {
	taskID := chi.URLParam(request, "taskID")

	t, err := handler.registry.Get(taskID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, t)
}

func (handler *Handler) deleteTask(writer http.ResponseWriter, request *http.Request) {
	taskID := chi.URLParam(request, "taskID")

	if err := handler.registry.Delete(taskID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
