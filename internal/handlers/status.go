package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/daralachab/reservation-api/internal/models"
	"github.com/daralachab/reservation-api/internal/service"
	"go.uber.org/zap"
)

// StatusHandler serves the liveness message and client heartbeats.
type StatusHandler struct {
	svc *service.StatusCheckService
	log *zap.Logger
}

func NewStatusHandler(svc *service.StatusCheckService, log *zap.Logger) *StatusHandler {
	return &StatusHandler{svc: svc, log: log.Named("handlers")}
}

type MessageOutput struct {
	Body struct {
		Message string `json:"message"`
	}
}

type CreateStatusCheckInput struct {
	Body struct {
		ClientName string `json:"client_name" doc:"Name of the pinging client"`
	}
}

type StatusCheckOutput struct {
	Body models.StatusCheck
}

type StatusCheckListOutput struct {
	Body []models.StatusCheck
}

func (h *StatusHandler) HandleRoot(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	resp := &MessageOutput{}
	resp.Body.Message = "Hello World"
	return resp, nil
}

func (h *StatusHandler) HandleCreate(ctx context.Context, input *CreateStatusCheckInput) (*StatusCheckOutput, error) {
	c, err := h.svc.Create(ctx, input.Body.ClientName)
	if err != nil {
		h.log.Error("failed to create status check", zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to create status check")
	}
	return &StatusCheckOutput{Body: *c}, nil
}

func (h *StatusHandler) HandleList(ctx context.Context, _ *struct{}) (*StatusCheckListOutput, error) {
	checks, err := h.svc.List(ctx)
	if err != nil {
		h.log.Error("failed to list status checks", zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to list status checks")
	}
	if checks == nil {
		checks = []models.StatusCheck{}
	}
	return &StatusCheckListOutput{Body: checks}, nil
}
