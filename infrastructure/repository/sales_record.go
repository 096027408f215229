package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/fisgarone/marketplace-sync-api/infrastructure/database/postgres"
	"github.com/fisgarone/marketplace-sync-api/internal/domain"
	"github.com/lib/pq"
)

const salesRecordsTable = "ml_sales_records sr"

// SalesRecordRepository persiste a projeção de itens de pedido.
// Invariante: no máximo uma linha por chave (order_id, line_index) —
// reingestões atualizam a linha existente, nunca duplicam.
type SalesRecordRepository interface {
	GetByOrderLine(ctx context.Context, orderID string, lineIndex int) (*domain.SalesRecord, error)
	SaveOrUpdate(ctx context.Context, record *domain.SalesRecord) error
}

type salesRecordRepository struct {
	conn *postgres.Connection
}

func NewSalesRecordRepository(conn *postgres.Connection) SalesRecordRepository {
	return &salesRecordRepository{
		conn: conn,
	}
}

func (r *salesRecordRepository) GetByOrderLine(ctx context.Context, orderID string, lineIndex int) (*domain.SalesRecord, error) {
	query, args, err := squirrel.
		Select(`sr.order_id, sr.line_index, sr.company_id, sr.account_name, sr.seller_id,
			sr.mlb, sr.sku, sr.title, sr.buyer_id, sr.shipment_id, sr.status, sr.delivery_status,
			sr.logistic_type, sr.cancellation, sr.sale_date,
			sr.unit_price, sr.quantity, sr.marketplace_fee, sr.fixed_fee, sr.commission,
			sr.commission_percent, sr.seller_shipping, sr.shipping_cost, sr.channel_cost,
			sr.contribution_margin, sr.created_at, sr.updated_at`).
		From(salesRecordsTable).
		Where(squirrel.Eq{"sr.order_id": orderID, "sr.line_index": lineIndex}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRowContext(ctx, query, args...)

	record, err := r.scanRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear registro de venda: %w", err)
	}

	return record, nil
}

// SaveOrUpdate faz o upsert idempotente de uma linha de venda. O conflito na
// chave (order_id, line_index) sobrescreve todos os campos mutáveis, cobrindo
// transições de status e correções tardias de taxa.
func (r *salesRecordRepository) SaveOrUpdate(ctx context.Context, record *domain.SalesRecord) error {
	query := squirrel.StatementBuilder.
		Insert("ml_sales_records").
		Columns(
			"order_id", "line_index", "company_id", "account_name", "seller_id",
			"mlb", "sku", "title", "buyer_id", "shipment_id", "status", "delivery_status",
			"logistic_type", "cancellation", "sale_date",
			"unit_price", "quantity", "marketplace_fee", "fixed_fee", "commission",
			"commission_percent", "seller_shipping", "shipping_cost", "channel_cost",
			"contribution_margin",
		).
		Values(
			record.OrderID,
			record.LineIndex,
			record.CompanyID,
			record.AccountName,
			record.SellerID,
			record.MLB,
			record.SKU,
			record.Title,
			record.BuyerID,
			record.ShipmentID,
			record.Status,
			record.DeliveryStatus,
			record.LogisticType,
			record.Cancellation,
			record.SaleDate,
			record.UnitPrice,
			record.Quantity,
			record.MarketplaceFee,
			record.FixedFee,
			record.Commission,
			record.CommissionPercent,
			record.SellerShipping,
			record.ShippingCost,
			record.ChannelCost,
			record.ContributionMargin,
		).
		Suffix(`
			ON CONFLICT (order_id, line_index) DO UPDATE SET
				company_id = EXCLUDED.company_id,
				account_name = EXCLUDED.account_name,
				seller_id = EXCLUDED.seller_id,
				mlb = EXCLUDED.mlb,
				sku = EXCLUDED.sku,
				title = EXCLUDED.title,
				buyer_id = EXCLUDED.buyer_id,
				shipment_id = EXCLUDED.shipment_id,
				status = EXCLUDED.status,
				delivery_status = EXCLUDED.delivery_status,
				logistic_type = EXCLUDED.logistic_type,
				cancellation = EXCLUDED.cancellation,
				sale_date = EXCLUDED.sale_date,
				unit_price = EXCLUDED.unit_price,
				quantity = EXCLUDED.quantity,
				marketplace_fee = EXCLUDED.marketplace_fee,
				fixed_fee = EXCLUDED.fixed_fee,
				commission = EXCLUDED.commission,
				commission_percent = EXCLUDED.commission_percent,
				seller_shipping = EXCLUDED.seller_shipping,
				shipping_cost = EXCLUDED.shipping_cost,
				channel_cost = EXCLUDED.channel_cost,
				contribution_margin = EXCLUDED.contribution_margin,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *salesRecordRepository) scanRecord(row *sql.Row) (*domain.SalesRecord, error) {
	record := &domain.SalesRecord{}

	if err := row.Scan(
		&record.OrderID,
		&record.LineIndex,
		&record.CompanyID,
		&record.AccountName,
		&record.SellerID,
		&record.MLB,
		&record.SKU,
		&record.Title,
		&record.BuyerID,
		&record.ShipmentID,
		&record.Status,
		&record.DeliveryStatus,
		&record.LogisticType,
		&record.Cancellation,
		&record.SaleDate,
		&record.UnitPrice,
		&record.Quantity,
		&record.MarketplaceFee,
		&record.FixedFee,
		&record.Commission,
		&record.CommissionPercent,
		&record.SellerShipping,
		&record.ShippingCost,
		&record.ChannelCost,
		&record.ContributionMargin,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return record, nil
}
