package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/findcut/internal/domain/booking"
	"github.com/BruksfildServices01/findcut/internal/httperr"
	"github.com/BruksfildServices01/findcut/internal/httpresp"
	infraRepo "github.com/BruksfildServices01/findcut/internal/infra/repository"
	"github.com/BruksfildServices01/findcut/internal/middleware"
	"github.com/BruksfildServices01/findcut/internal/models"
	ucAppointment "github.com/BruksfildServices01/findcut/internal/usecase/appointment"
)

type BookingHandler struct {
	repo *infraRepo.Memory
	loc  *time.Location

	createUC       *ucAppointment.CreateBooking
	updateStatusUC *ucAppointment.UpdateBookingStatus
	availabilityUC *ucAppointment.CheckAvailability
}

func NewBookingHandler(
	repo *infraRepo.Memory,
	loc *time.Location,
	createUC *ucAppointment.CreateBooking,
	updateStatusUC *ucAppointment.UpdateBookingStatus,
	availabilityUC *ucAppointment.CheckAvailability,
) *BookingHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &BookingHandler{
		repo:           repo,
		loc:            loc,
		createUC:       createUC,
		updateStatusUC: updateStatusUC,
		availabilityUC: availabilityUC,
	}
}

type CreateBookingRequest struct {
	ServiceID    string `json:"serviceId" binding:"required"`
	BarbershopID string `json:"barbershopId"`
	BarberID     string `json:"barberId"`
	Date         string `json:"date" binding:"required"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Status e mensagem de cada erro de negócio dos casos de uso.
var bookingErrors = map[string]struct {
	status  int
	message string
}{
	ucAppointment.CodeServiceNotFound:    {http.StatusNotFound, "Serviço não encontrado."},
	ucAppointment.CodeBarbershopMismatch: {http.StatusBadRequest, "O serviço não pertence a esta barbearia."},
	ucAppointment.CodePastDate:           {http.StatusBadRequest, "Escolha um horário no futuro."},
	ucAppointment.CodeInvalidBarber:      {http.StatusBadRequest, "Barbeiro não atende nesta barbearia."},
	ucAppointment.CodeTimeConflict:       {http.StatusConflict, "Horário indisponível para este barbeiro."},
	ucAppointment.CodeBookingNotFound:    {http.StatusNotFound, "Agendamento não encontrado."},
	ucAppointment.CodeForbidden:          {http.StatusForbidden, "Você não pode alterar este agendamento."},
	domain.CodeInvalidTransition:         {http.StatusBadRequest, httperr.Message(domain.CodeInvalidTransition)},
}

// --------------------------------------------------
// Disponibilidade (pública)
// --------------------------------------------------

func (h *BookingHandler) Availability(c *gin.Context) {
	barberID := strings.TrimSpace(c.Query("barberId"))
	if barberID == "" {
		httperr.BadRequest(c, "missing_barber_id", "Informe o barbeiro.")
		return
	}

	start, err := parseBookingDate(c.Query("date"), h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data e horário inválidos.")
		return
	}

	available := h.availabilityUC.Execute(c.Request.Context(), barberID, start, c.Query("serviceId"))
	httpresp.OK(c, gin.H{"available": available})
}

// --------------------------------------------------
// Agendamentos
// --------------------------------------------------

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	start, err := parseBookingDate(req.Date, h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data e horário inválidos.")
		return
	}

	booking, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateBookingInput{
		ClientID:     middleware.UserID(c),
		ServiceID:    req.ServiceID,
		BarbershopID: req.BarbershopID,
		BarberID:     req.BarberID,
		Start:        start,
	})
	if err != nil {
		writeBookingError(c, err, "failed_to_create_booking", "Erro ao criar o agendamento.")
		return
	}

	httpresp.Created(c, booking)
}

func (h *BookingHandler) List(c *gin.Context) {
	user, err := h.repo.GetUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.Unauthorized(c, "user_not_found", "Sessão inválida.")
		return
	}

	if user.Role == models.RoleOwner && user.BarberShopID == "" {
		if shop, err := h.repo.BarbershopForUser(c.Request.Context(), user.ID); err == nil {
			user.BarberShopID = shop.ID
		}
	}

	httpresp.OK(c, h.repo.ListBookingsForUser(c.Request.Context(), user))
}

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	next, ok := domain.ParseStatus(req.Status)
	if !ok {
		httperr.BadRequest(c, "invalid_status", "Status inválido.")
		return
	}

	updated, err := h.updateStatusUC.Execute(c.Request.Context(), ucAppointment.UpdateBookingStatusInput{
		UserID:    middleware.UserID(c),
		Role:      middleware.UserRole(c),
		BookingID: c.Param("id"),
		Status:    next,
	})
	if err != nil {
		writeBookingError(c, err, "failed_to_update_booking", "Erro ao atualizar o agendamento.")
		return
	}

	httpresp.OK(c, updated)
}

func writeBookingError(c *gin.Context, err error, code, message string) {
	var be httperr.BusinessError
	if errors.As(err, &be) {
		if known, ok := bookingErrors[be.Code]; ok {
			httperr.Write(c, known.status, be.Code, known.message)
			return
		}
	}
	httperr.Internal(c, code, message)
}
