// Copyright (c) 2026 ScholarLink. All rights reserved.

package apikey

import (
	"net/http"

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
	router.Put("/", handler.updateKeys)
	router.Get("/", handler.getKeys)
}

func (handler *Handler) updateKeys(writer http.ResponseWriter, request *http.Request) {
	var input Keys
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	stored, err := handler.service.UpdateKeys(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Even the update response carries only masked values.
	stored.CleOpenAI = Mask(stored.CleOpenAI)
	stored.CleGemini = Mask(stored.CleGemini)
	stored.CleDeepSeek = Mask(stored.CleDeepSeek)
	respond.OK(writer, stored)
}

func (handler *Handler) getKeys(writer http.ResponseWriter, request *http.Request) {
	keys, err := handler.service.GetMasked(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, keys)
}
