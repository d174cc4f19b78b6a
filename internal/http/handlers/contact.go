package handlers

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/themeflex/internal/contact"
)

// ContactHandler accepts contact messages over the JSON API.
type ContactHandler struct {
	service *contact.Service
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(service *contact.Service) *ContactHandler {
	return &ContactHandler{service: service}
}

// Register registers the contact routes with the API.
func (h *ContactHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "submitContact",
		Method:        "POST",
		Path:          "/api/v1/contact",
		Summary:       "Send a contact message",
		Description:   "Validates and acknowledges a contact message",
		Tags:          []string{"Contact"},
		DefaultStatus: http.StatusCreated,
	}, h.Submit)
}

// SubmitContactInput is the input for sending a contact message.
type SubmitContactInput struct {
	Body contact.Submission
}

// SubmitContactOutput is the output for sending a contact message.
type SubmitContactOutput struct {
	Body struct {
		contact.Receipt
		Title   string `json:"title"`
		Message string `json:"message"`
	}
}

// Submit validates the message and returns a receipt.
func (h *ContactHandler) Submit(ctx context.Context, input *SubmitContactInput) (*SubmitContactOutput, error) {
	receipt, err := h.service.Submit(ctx, input.Body)
	if err != nil {
		var verr *contact.ValidationError
		if errors.As(err, &verr) {
			return nil, huma.Error422UnprocessableEntity("invalid contact message", fieldErrors(verr)...)
		}
		return nil, huma.Error500InternalServerError("failed to accept contact message")
	}

	resp := &SubmitContactOutput{}
	resp.Body.Receipt = receipt
	resp.Body.Title = contact.SuccessTitle
	resp.Body.Message = contact.SuccessDescription
	return resp, nil
}

// fieldErrors converts validation failures to huma details in field order.
func fieldErrors(verr *contact.ValidationError) []error {
	names := make([]string, 0, len(verr.Fields))
	for name := range verr.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	details := make([]error, 0, len(names))
	for _, name := range names {
		details = append(details, &huma.ErrorDetail{
			Message:  verr.Fields[name],
			Location: "body." + name,
		})
	}
	return details
}
