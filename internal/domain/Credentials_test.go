package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredentialsValidate(t *testing.T) {
	valid := func() *Credentials {
		return &Credentials{
			ID:           "cred-1",
			CompanyID:    "empresa-1",
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			AccessToken:  "access",
			RefreshToken: "refresh",
			SellerID:     "12345",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Credentials)
		wantErr bool
	}{
		{name: "Credenciais completas passam", mutate: func(c *Credentials) {}, wantErr: false},
		{name: "ClientID ausente falha", mutate: func(c *Credentials) { c.ClientID = "" }, wantErr: true},
		{name: "ClientSecret ausente falha", mutate: func(c *Credentials) { c.ClientSecret = "" }, wantErr: true},
		{name: "RefreshToken ausente falha", mutate: func(c *Credentials) { c.RefreshToken = "" }, wantErr: true},
		{name: "SellerID ausente falha", mutate: func(c *Credentials) { c.SellerID = "" }, wantErr: true},
		// O access token pode estar vencido ou vazio: o renovador resolve
		{name: "AccessToken vazio não falha", mutate: func(c *Credentials) { c.AccessToken = "" }, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds := valid()
			tt.mutate(creds)

			err := creds.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrCredentialsMissing)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("Credenciais nulas falham", func(t *testing.T) {
		var creds *Credentials
		assert.ErrorIs(t, creds.Validate(), ErrCredentialsMissing)
	})
}
