// Copyright (c) 2026 ScholarLink. All rights reserved.

package similarity

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/hbadaoui/scholarlink/internal/platform/request"
	"github.com/hbadaoui/scholarlink/internal/platform/respond"
)

type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/search", handler.search)
}

func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	var input SearchRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.client.Search(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}
