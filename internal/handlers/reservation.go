package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/daralachab/reservation-api/internal/auth"
	"github.com/daralachab/reservation-api/internal/export"
	"github.com/daralachab/reservation-api/internal/models"
	"github.com/daralachab/reservation-api/internal/service"
	"github.com/daralachab/reservation-api/internal/store"
	"go.uber.org/zap"
)

type ReservationHandler struct {
	svc            *service.ReservationService
	gate           *auth.Gate
	restaurant     string
	pricePerPerson int
	log            *zap.Logger
}

func NewReservationHandler(svc *service.ReservationService, gate *auth.Gate, restaurant string, pricePerPerson int, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		svc:            svc,
		gate:           gate,
		restaurant:     restaurant,
		pricePerPerson: pricePerPerson,
		log:            log.Named("handlers"),
	}
}

type CreateReservationInput struct {
	Body struct {
		Name    string  `json:"name" doc:"Guest name"`
		Phone   string  `json:"phone" doc:"Guest phone number"`
		Email   *string `json:"email,omitempty" required:"false" doc:"Guest email, receives a confirmation when set"`
		Date    string  `json:"date" doc:"Reservation date, YYYY-MM-DD"`
		Time    string  `json:"time" doc:"Reservation time, HH:MM"`
		Persons int     `json:"persons" doc:"Party size"`
		Message *string `json:"message,omitempty" required:"false" doc:"Free-text note"`
		Status  string  `json:"status,omitempty" required:"false" doc:"Initial status, defaults to en_attente. English aliases are stored as their French value."`
	}
}

type ReservationOutput struct {
	Body models.Reservation
}

type ReservationListOutput struct {
	Body []models.Reservation
}

type ListReservationsInput struct {
	auth.AdminInput
	Status   string `query:"status" doc:"Only this status (en_attente, confirme, arrive or the English names)"`
	DateFrom string `query:"date_from" doc:"Earliest date, YYYY-MM-DD"`
	DateTo   string `query:"date_to" doc:"Latest date, YYYY-MM-DD"`
}

type ReservationIDInput struct {
	auth.AdminInput
	ID string `path:"id" doc:"Reservation ID"`
}

type UpdateStatusInput struct {
	auth.AdminInput
	ID   string `path:"id" doc:"Reservation ID"`
	Body struct {
		Status string `json:"status" doc:"en_attente, confirme or arrive. The English aliases pending, confirmed and arrived are accepted case-insensitively and stored as their French value, so confirmed reads back as confirme."`
	}
}

type UpdatePersonsInput struct {
	auth.AdminInput
	ID   string `path:"id" doc:"Reservation ID"`
	Body struct {
		Persons int `json:"persons" doc:"New party size"`
	}
}

type DeleteOutput struct {
	Body struct {
		Success bool `json:"success"`
	}
}

type ExportInput struct {
	auth.AdminInput
	Format   string `query:"format" enum:"csv,pdf" default:"csv" doc:"Output format"`
	DateFrom string `query:"date_from" doc:"Earliest date, YYYY-MM-DD"`
	DateTo   string `query:"date_to" doc:"Latest date, YYYY-MM-DD"`
}

type ExportOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

// fail maps service errors onto HTTP errors.
func (h *ReservationHandler) fail(err error, msg string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return huma.Error404NotFound("Reservation not found")
	case errors.Is(err, service.ErrInvalidStatus):
		return huma.Error422UnprocessableEntity(err.Error())
	}
	h.log.Error(msg, zap.Error(err))
	return huma.Error500InternalServerError(msg)
}

func (h *ReservationHandler) HandleCreate(ctx context.Context, input *CreateReservationInput) (*ReservationOutput, error) {
	r, err := h.svc.Create(ctx, models.ReservationFields{
		Name:    input.Body.Name,
		Phone:   input.Body.Phone,
		Email:   input.Body.Email,
		Date:    input.Body.Date,
		Time:    input.Body.Time,
		Persons: input.Body.Persons,
		Message: input.Body.Message,
		Status:  models.Status(input.Body.Status),
	})
	if err != nil {
		return nil, h.fail(err, "Failed to create reservation")
	}
	return &ReservationOutput{Body: *r}, nil
}

func (h *ReservationHandler) HandleList(ctx context.Context, input *ListReservationsInput) (*ReservationListOutput, error) {
	if err := h.gate.Check(input.AdminInput); err != nil {
		return nil, err
	}

	filter := store.Filter{DateFrom: input.DateFrom, DateTo: input.DateTo}
	if input.Status != "" {
		st, err := h.svc.NormalizeStatus(input.Status)
		if err != nil {
			return nil, h.fail(err, "Invalid status filter")
		}
		filter.Status = st
	}

	reservations, err := h.svc.List(ctx, filter)
	if err != nil {
		return nil, h.fail(err, "Failed to fetch reservations")
	}
	if reservations == nil {
		reservations = []models.Reservation{}
	}
	return &ReservationListOutput{Body: reservations}, nil
}

func (h *ReservationHandler) HandleGet(ctx context.Context, input *ReservationIDInput) (*ReservationOutput, error) {
	if err := h.gate.Check(input.AdminInput); err != nil {
		return nil, err
	}

	r, err := h.svc.Get(ctx, input.ID)
	if err != nil {
		return nil, h.fail(err, "Failed to fetch reservation")
	}
	return &ReservationOutput{Body: *r}, nil
}

func (h *ReservationHandler) HandleUpdateStatus(ctx context.Context, input *UpdateStatusInput) (*ReservationOutput, error) {
	if err := h.gate.Check(input.AdminInput); err != nil {
		return nil, err
	}

	r, err := h.svc.UpdateStatus(ctx, input.ID, input.Body.Status)
	if err != nil {
		return nil, h.fail(err, "Failed to update reservation status")
	}
	return &ReservationOutput{Body: *r}, nil
}

func (h *ReservationHandler) HandleUpdatePersons(ctx context.Context, input *UpdatePersonsInput) (*ReservationOutput, error) {
	if err := h.gate.Check(input.AdminInput); err != nil {
		return nil, err
	}

	r, err := h.svc.UpdatePersons(ctx, input.ID, input.Body.Persons)
	if err != nil {
		return nil, h.fail(err, "Failed to update reservation persons")
	}
	return &ReservationOutput{Body: *r}, nil
}

func (h *ReservationHandler) HandleDelete(ctx context.Context, input *ReservationIDInput) (*DeleteOutput, error) {
	if err := h.gate.Check(input.AdminInput); err != nil {
		return nil, err
	}

	if err := h.svc.Delete(ctx, input.ID); err != nil {
		return nil, h.fail(err, "Failed to delete reservation")
	}
	resp := &DeleteOutput{}
	resp.Body.Success = true
	return resp, nil
}

// HandleExport renders the arrived guests for accounting.
func (h *ReservationHandler) HandleExport(ctx context.Context, input *ExportInput) (*ExportOutput, error) {
	if err := h.gate.Check(input.AdminInput); err != nil {
		return nil, err
	}

	arrived, err := h.svc.Arrived(ctx, input.DateFrom, input.DateTo)
	if err != nil {
		return nil, h.fail(err, "Failed to export reservations")
	}
	if len(arrived) == 0 {
		return nil, huma.Error404NotFound("No arrived reservations to export for this filter")
	}

	format := export.Format(input.Format)
	rep := export.NewReport(h.restaurant, arrived, h.pricePerPerson)

	var buf bytes.Buffer
	switch format {
	case export.FormatPDF:
		err = export.WritePDF(&buf, rep)
	default:
		format = export.FormatCSV
		err = export.WriteCSV(&buf, rep)
	}
	if err != nil {
		return nil, h.fail(err, "Failed to render export")
	}

	return &ExportOutput{
		ContentType:        format.ContentType(),
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", export.Filename(h.restaurant, format)),
		Body:               buf.Bytes(),
	}, nil
}
