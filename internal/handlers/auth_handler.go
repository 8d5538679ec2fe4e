package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/findcut/internal/audit"
	"github.com/BruksfildServices01/findcut/internal/httperr"
	infraRepo "github.com/BruksfildServices01/findcut/internal/infra/repository"
	"github.com/BruksfildServices01/findcut/internal/models"
	"github.com/BruksfildServices01/findcut/internal/validators"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	repo   *infraRepo.Memory
	secret string
	events *audit.Dispatcher
	now    func() time.Time
}

func NewAuthHandler(repo *infraRepo.Memory, secret string, events *audit.Dispatcher) *AuthHandler {
	return &AuthHandler{repo: repo, secret: secret, events: events, now: time.Now}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
	Role         string `json:"role"`
	BarberShopID string `json:"barberShopId"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	role := models.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	if role == "" {
		role = models.RoleClient
	}

	form := validators.RegistrationForm{
		Name:            req.Name,
		Email:           strings.TrimSpace(req.Email),
		Password:        req.Password,
		ConfirmPassword: req.Password,
		Role:            role,
		BarberShopID:    req.BarberShopID,
	}
	if err := validators.ValidateRegistration(form); err != nil {
		writeValidation(c, err)
		return
	}

	shopID := ""
	if role == models.RoleBarber {
		if req.BarberShopID == "" {
			httperr.BadRequest(c, "barbershop_required", "Barbeiros precisam informar a barbearia.")
			return
		}
		if _, err := h.repo.GetBarbershop(c.Request.Context(), req.BarberShopID); err != nil {
			httperr.BadRequest(c, "barbershop_not_found", "Barbearia não encontrada.")
			return
		}
		shopID = req.BarberShopID
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro ao criar a conta.")
		return
	}

	user, err := h.repo.CreateUser(c.Request.Context(), models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		Role:         role,
		BarberShopID: shopID,
	}, string(hashed))
	if errors.Is(err, infraRepo.ErrEmailTaken) {
		httperr.Conflict(c, "email_taken", "Este e-mail já está cadastrado.")
		return
	}
	if err != nil {
		httperr.Internal(c, "failed_to_create_user", "Erro ao criar a conta.")
		return
	}

	token, err := h.generateToken(user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao criar a conta.")
		return
	}

	writeAudit(h.events, "user", "registered", user.ID, gin.H{"role": user.Role})

	c.JSON(http.StatusCreated, gin.H{
		"user":    user,
		"token":   token,
		"message": "Conta criada com sucesso.",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	user, hash, err := h.repo.FindUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		httperr.Write(c, http.StatusUnauthorized, "invalid_credentials", "E-mail ou senha inválidos.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		httperr.Write(c, http.StatusUnauthorized, "invalid_credentials", "E-mail ou senha inválidos.")
		return
	}

	token, err := h.generateToken(user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao entrar.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"token": token,
	})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user models.User) (string, error) {
	now := h.now()
	claims := jwt.MapClaims{
		"sub":          user.ID,
		"barbershopId": user.BarberShopID,
		"role":         string(user.Role),
		"exp":          now.Add(tokenTTL).Unix(),
		"iat":          now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.secret))
}

// writeValidation traduz um erro de validação local em 400.
func writeValidation(c *gin.Context, err error) {
	var be httperr.BusinessError
	if errors.As(err, &be) {
		httperr.BadRequest(c, be.Code, be.Message())
		return
	}
	httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
}
