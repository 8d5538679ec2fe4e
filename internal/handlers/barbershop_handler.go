package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/findcut/internal/audit"
	"github.com/BruksfildServices01/findcut/internal/httperr"
	"github.com/BruksfildServices01/findcut/internal/httpresp"
	infraRepo "github.com/BruksfildServices01/findcut/internal/infra/repository"
	"github.com/BruksfildServices01/findcut/internal/middleware"
	"github.com/BruksfildServices01/findcut/internal/models"
	"github.com/BruksfildServices01/findcut/internal/validators"
)

const (
	defaultInviteDays = 7
	maxPageLimit      = 100
)

type BarbershopHandler struct {
	repo   *infraRepo.Memory
	events *audit.Dispatcher
}

func NewBarbershopHandler(repo *infraRepo.Memory, events *audit.Dispatcher) *BarbershopHandler {
	return &BarbershopHandler{repo: repo, events: events}
}

type BarbershopRequest struct {
	Name        *string  `json:"name"`
	Address     *string  `json:"address"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Phone       *string  `json:"phone"`
	Description *string  `json:"description"`
}

type InviteRequest struct {
	BarbershopID string     `json:"barbershopId"`
	DaysValid    int        `json:"daysValid"`
	ExpiresAt    *time.Time `json:"expiresAt"`
}

// --------------------------------------------------
// Público
// --------------------------------------------------

func (h *BarbershopHandler) List(c *gin.Context) {
	f := infraRepo.ListFilter{
		Region:  c.Query("region"),
		Page:    queryInt(c, "page", 1),
		Limit:   queryInt(c, "limit", 0),
		OrderBy: c.DefaultQuery("orderBy", "createdAt"),
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit > maxPageLimit {
		f.Limit = maxPageLimit
	}

	switch f.OrderBy {
	case "name", "createdAt", "distance":
	default:
		httperr.BadRequest(c, "invalid_order_by", "Ordenação inválida.")
		return
	}

	f.Latitude = queryFloat(c, "latitude")
	f.Longitude = queryFloat(c, "longitude")
	f.Radius = queryFloat(c, "radius")

	if f.OrderBy == "distance" && (f.Latitude == nil || f.Longitude == nil) {
		httperr.BadRequest(c, "missing_coordinates", "Informe latitude e longitude para ordenar por distância.")
		return
	}

	shops, total := h.repo.ListBarbershops(c.Request.Context(), f)
	httpresp.List(c, shops, total)
}

func (h *BarbershopHandler) Get(c *gin.Context) {
	shop, err := h.repo.GetBarbershop(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
		return
	}
	httpresp.OK(c, shop)
}

// --------------------------------------------------
// Proprietário
// --------------------------------------------------

func (h *BarbershopHandler) Create(c *gin.Context) {
	var req BarbershopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	name, address := deref(req.Name), deref(req.Address)
	if err := validators.ValidateBarbershop(name, address); err != nil {
		writeValidation(c, err)
		return
	}

	shop, err := h.repo.CreateBarbershop(c.Request.Context(), models.Barbershop{
		Name:        strings.TrimSpace(name),
		Address:     strings.TrimSpace(address),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Phone:       deref(req.Phone),
		Description: deref(req.Description),
		OwnerID:     middleware.UserID(c),
	})
	if errors.Is(err, infraRepo.ErrAlreadyOwner) {
		httperr.Conflict(c, "barbershop_already_exists", "Você já possui uma barbearia.")
		return
	}
	if err != nil {
		httperr.Internal(c, "failed_to_create_barbershop", "Erro ao criar a barbearia.")
		return
	}

	writeAudit(h.events, "barbershop", "created", shop.ID, nil)
	httpresp.Created(c, shop)
}

func (h *BarbershopHandler) Update(c *gin.Context) {
	shop, ok := h.ownedShop(c, c.Param("id"))
	if !ok {
		return
	}

	var req BarbershopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if (req.Name != nil && strings.TrimSpace(*req.Name) == "") ||
		(req.Address != nil && strings.TrimSpace(*req.Address) == "") {
		httperr.BadRequest(c, httperr.CodeMissingShopFields, httperr.Message(httperr.CodeMissingShopFields))
		return
	}

	updated, err := h.repo.UpdateBarbershop(c.Request.Context(), shop.ID, func(s *models.Barbershop) {
		if req.Name != nil {
			s.Name = strings.TrimSpace(*req.Name)
		}
		if req.Address != nil {
			s.Address = strings.TrimSpace(*req.Address)
		}
		if req.Latitude != nil {
			s.Latitude = req.Latitude
		}
		if req.Longitude != nil {
			s.Longitude = req.Longitude
		}
		if req.Phone != nil {
			s.Phone = *req.Phone
		}
		if req.Description != nil {
			s.Description = *req.Description
		}
	})
	if err != nil {
		httperr.Internal(c, "failed_to_update_barbershop", "Erro ao salvar a barbearia.")
		return
	}

	writeAudit(h.events, "barbershop", "updated", updated.ID, nil)
	httpresp.OK(c, updated)
}

// CreateInvite aceita {daysValid} (barbearia do dono) ou {barbershopId, expiresAt}.
func (h *BarbershopHandler) CreateInvite(c *gin.Context) {
	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	shopID := req.BarbershopID
	if shopID == "" {
		shop, err := h.repo.BarbershopForUser(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
			return
		}
		shopID = shop.ID
	}

	shop, ok := h.ownedShop(c, shopID)
	if !ok {
		return
	}

	expiresAt := time.Now().AddDate(0, 0, defaultInviteDays)
	switch {
	case req.ExpiresAt != nil:
		expiresAt = *req.ExpiresAt
	case req.DaysValid > 0:
		expiresAt = time.Now().AddDate(0, 0, req.DaysValid)
	case req.DaysValid < 0:
		httperr.BadRequest(c, "invalid_days_valid", "Validade do convite inválida.")
		return
	}

	if !expiresAt.After(time.Now()) {
		httperr.BadRequest(c, "invalid_expires_at", "A validade do convite precisa estar no futuro.")
		return
	}

	inv, err := h.repo.CreateInvite(c.Request.Context(), shop.ID, expiresAt)
	if err != nil {
		httperr.Internal(c, "failed_to_create_invite", "Erro ao gerar o convite.")
		return
	}

	writeAudit(h.events, "barbershop", "invite_created", shop.ID, gin.H{"code": inv.Code})
	httpresp.Created(c, inv)
}

// ownedShop carrega a barbearia e confere se pertence ao usuário logado.
func (h *BarbershopHandler) ownedShop(c *gin.Context, id string) (models.Barbershop, bool) {
	shop, err := h.repo.GetBarbershop(c.Request.Context(), id)
	if err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
		return models.Barbershop{}, false
	}
	if shop.OwnerID != middleware.UserID(c) {
		httperr.Forbidden(c, "not_barbershop_owner", "Apenas o proprietário pode alterar esta barbearia.")
		return models.Barbershop{}, false
	}
	return shop, true
}

// --------------------------------------------------
// Query helpers
// --------------------------------------------------

func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}

func queryFloat(c *gin.Context, key string) *float64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
