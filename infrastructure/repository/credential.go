package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/fisgarone/marketplace-sync-api/infrastructure/database/postgres"
	"github.com/fisgarone/marketplace-sync-api/internal/domain"
)

const credentialsTable = "ml_credentials c"

// CredentialRepository dá acesso às credenciais OAuth das contas do
// Mercado Livre. Os campos de token são escritos apenas pelo renovador de
// tokens; o resto da configuração vem de fora do motor de sincronização.
type CredentialRepository interface {
	GetByCompanyID(ctx context.Context, companyID string) (*domain.Credentials, error)
	ListActive(ctx context.Context) ([]*domain.Credentials, error)
	UpdateTokens(ctx context.Context, credentialID, accessToken, refreshToken string, expiresAt time.Time) error
}

type credentialRepository struct {
	conn *postgres.Connection
}

func NewCredentialRepository(conn *postgres.Connection) CredentialRepository {
	return &credentialRepository{
		conn: conn,
	}
}

func (r *credentialRepository) GetByCompanyID(ctx context.Context, companyID string) (*domain.Credentials, error) {
	query, args, err := squirrel.
		Select("c.id, c.company_id, c.company_name, c.client_id, c.client_secret, c.access_token, c.refresh_token, c.seller_id, c.active, c.token_expires_at, c.updated_at").
		From(credentialsTable).
		Where(squirrel.Eq{"c.company_id": companyID, "c.active": true}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRowContext(ctx, query, args...)

	creds, err := r.scanCredentials(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear credenciais: %w", err)
	}

	return creds, nil
}

func (r *credentialRepository) ListActive(ctx context.Context) ([]*domain.Credentials, error) {
	query, args, err := squirrel.
		Select("c.id, c.company_id, c.company_name, c.client_id, c.client_secret, c.access_token, c.refresh_token, c.seller_id, c.active, c.token_expires_at, c.updated_at").
		From(credentialsTable).
		Where(squirrel.Eq{"c.active": true}).
		OrderBy("c.company_name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	credentials := make([]*domain.Credentials, 0)
	for rows.Next() {
		creds := &domain.Credentials{}
		if err := rows.Scan(
			&creds.ID,
			&creds.CompanyID,
			&creds.CompanyName,
			&creds.ClientID,
			&creds.ClientSecret,
			&creds.AccessToken,
			&creds.RefreshToken,
			&creds.SellerID,
			&creds.Active,
			&creds.TokenExpiresAt,
			&creds.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear credenciais: %w", err)
		}
		credentials = append(credentials, creds)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return credentials, nil
}

// UpdateTokens grava o par renovado e a estimativa de expiração em um único
// UPDATE. A serialização entre renovações concorrentes da mesma conta é
// garantida pelo TokenManager, não aqui.
func (r *credentialRepository) UpdateTokens(ctx context.Context, credentialID, accessToken, refreshToken string, expiresAt time.Time) error {
	query, args, err := squirrel.
		Update("ml_credentials").
		Set("access_token", accessToken).
		Set("refresh_token", refreshToken).
		Set("token_expires_at", expiresAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": credentialID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("nenhuma credencial encontrada com id %s", credentialID)
	}

	return nil
}

func (r *credentialRepository) scanCredentials(row *sql.Row) (*domain.Credentials, error) {
	creds := &domain.Credentials{}

	if err := row.Scan(
		&creds.ID,
		&creds.CompanyID,
		&creds.CompanyName,
		&creds.ClientID,
		&creds.ClientSecret,
		&creds.AccessToken,
		&creds.RefreshToken,
		&creds.SellerID,
		&creds.Active,
		&creds.TokenExpiresAt,
		&creds.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return creds, nil
}
