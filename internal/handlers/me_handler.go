package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/findcut/internal/httperr"
	infraRepo "github.com/BruksfildServices01/findcut/internal/infra/repository"
	"github.com/BruksfildServices01/findcut/internal/middleware"
)

type MeHandler struct {
	repo *infraRepo.Memory
}

func NewMeHandler(repo *infraRepo.Memory) *MeHandler {
	return &MeHandler{repo: repo}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	user, err := h.repo.GetUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.Unauthorized(c, "user_not_found", "Sessão inválida.")
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetMyBarbershop devolve null quando o usuário não tem barbearia.
func (h *MeHandler) GetMyBarbershop(c *gin.Context) {
	shop, err := h.repo.BarbershopForUser(c.Request.Context(), middleware.UserID(c))
	if errors.Is(err, infraRepo.ErrNotFound) {
		c.JSON(http.StatusOK, nil)
		return
	}
	if err != nil {
		httperr.Internal(c, "failed_to_get_barbershop", "Erro ao buscar dados da barbearia.")
		return
	}

	c.JSON(http.StatusOK, shop)
}
