package tokenstore

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims são os campos do JWT emitido pela API que o cliente usa.
type Claims struct {
	Subject      string
	Role         string
	BarbershopID string
	ExpiresAt    time.Time
}

// ParseClaims lê o payload do JWT SEM verificar assinatura: o cliente não
// tem o segredo, só precisa saber quando o token expira.
func ParseClaims(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("tokenstore: parse jwt: %w", err)
	}

	var c Claims
	c.Subject, _ = mc["sub"].(string)
	c.Role, _ = mc["role"].(string)
	c.BarbershopID, _ = mc["barbershopId"].(string)

	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

// Expired diz se o token é um JWT vencido. Tokens opacos nunca vencem aqui.
func Expired(token string, now time.Time) bool {
	c, err := ParseClaims(token)
	if err != nil || c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(c.ExpiresAt)
}
