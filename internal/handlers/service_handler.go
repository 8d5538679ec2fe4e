package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/findcut/internal/audit"
	"github.com/BruksfildServices01/findcut/internal/httperr"
	"github.com/BruksfildServices01/findcut/internal/httpresp"
	infraRepo "github.com/BruksfildServices01/findcut/internal/infra/repository"
	"github.com/BruksfildServices01/findcut/internal/middleware"
	"github.com/BruksfildServices01/findcut/internal/models"
	"github.com/BruksfildServices01/findcut/internal/validators"
)

type ServiceHandler struct {
	repo   *infraRepo.Memory
	events *audit.Dispatcher
}

func NewServiceHandler(repo *infraRepo.Memory, events *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{repo: repo, events: events}
}

type ServiceRequest struct {
	BarbershopID *string  `json:"barbershopId"`
	Name         *string  `json:"name"`
	Price        *float64 `json:"price"`
	Duration     *int     `json:"duration"`
}

func (h *ServiceHandler) List(c *gin.Context) {
	services := h.repo.ListServices(c.Request.Context(), c.Query("barbershopId"))
	httpresp.OK(c, services)
}

// Barbers lista quem atende o serviço; ?barbershopId restringe à barbearia.
func (h *ServiceHandler) Barbers(c *gin.Context) {
	barbers, err := h.repo.ServiceBarbers(c.Request.Context(), c.Param("id"), c.Query("barbershopId"))
	if err != nil {
		httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
		return
	}
	httpresp.OK(c, barbers)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if err := validators.ValidateService(deref(req.Name)); err != nil {
		writeValidation(c, err)
		return
	}
	if !validServiceNumbers(req) {
		httperr.BadRequest(c, "invalid_service", "Preço e duração não podem ser negativos.")
		return
	}

	if !h.ownsShop(c, deref(req.BarbershopID)) {
		return
	}

	svc, err := h.repo.CreateService(c.Request.Context(), models.Service{
		BarbershopID: deref(req.BarbershopID),
		Name:         strings.TrimSpace(deref(req.Name)),
		Price:        req.Price,
		Duration:     req.Duration,
	})
	if err != nil {
		httperr.Internal(c, "failed_to_create_service", "Erro ao criar o serviço.")
		return
	}

	writeAudit(h.events, "service", "created", svc.ID, gin.H{"barbershopId": svc.BarbershopID})
	httpresp.Created(c, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	current, err := h.repo.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
		return
	}
	if !h.ownsShop(c, current.BarbershopID) {
		return
	}

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if req.BarbershopID != nil && *req.BarbershopID != current.BarbershopID {
		httperr.BadRequest(c, "barbershop_mismatch", "O serviço não pertence a esta barbearia.")
		return
	}
	if req.Name != nil {
		if err := validators.ValidateService(*req.Name); err != nil {
			writeValidation(c, err)
			return
		}
	}
	if !validServiceNumbers(req) {
		httperr.BadRequest(c, "invalid_service", "Preço e duração não podem ser negativos.")
		return
	}

	svc, err := h.repo.UpdateService(c.Request.Context(), current.ID, func(s *models.Service) {
		if req.Name != nil {
			s.Name = strings.TrimSpace(*req.Name)
		}
		if req.Price != nil {
			s.Price = req.Price
		}
		if req.Duration != nil {
			s.Duration = req.Duration
		}
	})
	if err != nil {
		httperr.Internal(c, "failed_to_update_service", "Erro ao salvar o serviço.")
		return
	}

	writeAudit(h.events, "service", "updated", svc.ID, nil)
	httpresp.OK(c, svc)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	current, err := h.repo.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
		return
	}
	if !h.ownsShop(c, current.BarbershopID) {
		return
	}

	if err := h.repo.DeleteService(c.Request.Context(), current.ID); err != nil {
		httperr.Internal(c, "failed_to_delete_service", "Erro ao excluir o serviço.")
		return
	}

	writeAudit(h.events, "service", "deleted", current.ID, nil)
	httpresp.NoContent(c)
}

func (h *ServiceHandler) ownsShop(c *gin.Context, shopID string) bool {
	shop, err := h.repo.GetBarbershop(c.Request.Context(), shopID)
	if err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
		return false
	}
	if shop.OwnerID != middleware.UserID(c) {
		httperr.Forbidden(c, "not_barbershop_owner", "Apenas o proprietário pode alterar esta barbearia.")
		return false
	}
	return true
}

func validServiceNumbers(req ServiceRequest) bool {
	if req.Price != nil && *req.Price < 0 {
		return false
	}
	if req.Duration != nil && *req.Duration < 0 {
		return false
	}
	return true
}
