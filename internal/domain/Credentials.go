package domain

import (
	"errors"
	"time"
)

// Erros de validação de credenciais
var ErrCredentialsMissing = errors.New("credenciais da conta ausentes ou incompletas")

// Credentials representa as credenciais OAuth de uma conta do Mercado Livre
// pertencente a uma empresa (tenant). Uma linha por par (empresa, marketplace).
type Credentials struct {
	ID             string    `json:"id"`
	CompanyID      string    `json:"company_id"`
	CompanyName    string    `json:"company_name"`
	ClientID       string    `json:"client_id"`
	ClientSecret   string    `json:"client_secret"`
	AccessToken    string    `json:"-"`
	RefreshToken   string    `json:"-"`
	SellerID       string    `json:"seller_id"`
	Active         bool      `json:"active"`
	TokenExpiresAt time.Time `json:"token_expires_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Validate verifica os campos obrigatórios antes de iniciar uma sincronização.
// Falha cedo com ErrCredentialsMissing em vez de propagar campos vazios até a
// montagem da requisição.
func (c *Credentials) Validate() error {
	if c == nil {
		return ErrCredentialsMissing
	}

	if c.ClientID == "" || c.ClientSecret == "" || c.RefreshToken == "" || c.SellerID == "" {
		return ErrCredentialsMissing
	}

	return nil
}
