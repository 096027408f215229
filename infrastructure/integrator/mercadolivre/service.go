package mercadolivre

import (
	"context"
	"strconv"
	"sync"
	"time"

	melidomain "github.com/fisgarone/marketplace-sync-api/infrastructure/integrator/mercadolivre/domain"
	"github.com/fisgarone/marketplace-sync-api/infrastructure/integrator/mercadolivre/meliclient"
	"github.com/fisgarone/marketplace-sync-api/infrastructure/repository"
	"github.com/fisgarone/marketplace-sync-api/internal/config"
	"github.com/fisgarone/marketplace-sync-api/internal/domain"
	"github.com/fisgarone/marketplace-sync-api/internal/usecases/pricing"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Formato de data exigido por order.date_created.from
const meliDateFormat = "2006-01-02T15:04:05.000-07:00"

// ErrAuthFailure indica que o token expirou e o refresh também falhou.
// Fatal para a sincronização da conta, não para a execução inteira.
var ErrAuthFailure = errors.New("token expirado e renovação de token falhou")

// MeliIntegrator é o pipeline de ingestão de pedidos de uma conta
type MeliIntegrator interface {
	SyncAccountOrders(ctx context.Context, creds *domain.Credentials, window domain.SyncWindow) *domain.AccountSyncResult
	EnsureFreshToken(ctx context.Context, creds *domain.Credentials) error
}

type MeliService struct {
	cfg          *config.Config
	client       meliclient.Client
	tokenManager *meliclient.TokenManager
	salesRepo    repository.SalesRecordRepository
	location     *time.Location
}

func New(
	cfg *config.Config,
	client meliclient.Client,
	tokenManager *meliclient.TokenManager,
	salesRepo repository.SalesRecordRepository,
) MeliIntegrator {
	location, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		logrus.Warnf("Fuso horário inválido: %s, usando UTC", cfg.App.Timezone)
		location = time.UTC
	}

	return &MeliService{
		cfg:          cfg,
		client:       client,
		tokenManager: tokenManager,
		salesRepo:    salesRepo,
		location:     location,
	}
}

// EnsureFreshToken faz uma verificação barata do token antes da paginação e
// renova uma vez se a API o rejeitar.
func (s *MeliService) EnsureFreshToken(ctx context.Context, creds *domain.Credentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}

	err := s.client.Probe(ctx, creds.AccessToken)
	if err == nil {
		return nil
	}

	if errors.Is(err, meliclient.ErrAuthExpired) {
		logrus.WithField("company_id", creds.CompanyID).
			Info("Token rejeitado na verificação inicial, renovando antes da paginação")
		return s.tokenManager.Refresh(ctx, creds)
	}

	// Falha transitória na verificação não impede a sincronização: a
	// paginação fará sua própria classificação
	logrus.WithField("company_id", creds.CompanyID).WithError(err).
		Warn("Verificação de token inconclusiva, seguindo com o token atual")
	return nil
}

// SyncAccountOrders pagina /orders/search dentro da janela e projeta cada item
// de pedido no banco. Token expirado durante a paginação dispara uma única
// renovação seguida de um único reinício da conta — o upsert idempotente torna
// o reinício seguro.
func (s *MeliService) SyncAccountOrders(ctx context.Context, creds *domain.Credentials, window domain.SyncWindow) *domain.AccountSyncResult {
	startedAt := time.Now()

	result := &domain.AccountSyncResult{
		CompanyID:   creds.CompanyID,
		AccountName: creds.CompanyName,
	}
	defer func() {
		result.Duration = time.Since(startedAt)
	}()

	if err := creds.Validate(); err != nil {
		result.Err = err
		return result
	}

	from := window.Start(time.Now().In(s.location)).Format(meliDateFormat)

	logrus.WithFields(logrus.Fields{
		"company_id": creds.CompanyID,
		"account":    creds.CompanyName,
		"from":       from,
		"window":     window.Label,
	}).Info("Iniciando busca de pedidos")

	stats, err := s.paginate(ctx, creds, from)
	if errors.Is(err, meliclient.ErrAuthExpired) {
		if refreshErr := s.tokenManager.Refresh(ctx, creds); refreshErr != nil {
			result.Err = errors.Wrap(ErrAuthFailure, refreshErr.Error())
			return result
		}

		result.TokenRefreshed = true

		// Reinício único da conta com o token novo; pedidos já gravados na
		// primeira passada serão apenas reaplicados
		stats, err = s.paginate(ctx, creds, from)
		if errors.Is(err, meliclient.ErrAuthExpired) {
			err = ErrAuthFailure
		}
	}

	if stats != nil {
		result.OrdersFetched = stats.ordersFetched
		result.LinesUpserted = stats.linesUpserted
		result.OrdersFailed = stats.ordersFailed
		result.PagesFetched = stats.pagesFetched
	}

	if err != nil {
		result.Err = err
		result.Aborted = ctx.Err() != nil

		logrus.WithFields(logrus.Fields{
			"company_id": creds.CompanyID,
			"account":    creds.CompanyName,
		}).WithError(err).Error("Sincronização da conta abortada")
		return result
	}

	logrus.WithFields(logrus.Fields{
		"company_id":     creds.CompanyID,
		"account":        creds.CompanyName,
		"orders":         result.OrdersFetched,
		"lines_upserted": result.LinesUpserted,
		"orders_failed":  result.OrdersFailed,
		"pages":          result.PagesFetched,
	}).Info("Busca de pedidos finalizada")

	return result
}

// pageStats acumula os contadores de uma passada de paginação
type pageStats struct {
	ordersFetched int
	linesUpserted int
	ordersFailed  int
	pagesFetched  int
}

// paginate percorre as páginas em offset estritamente crescente até a página
// vazia ou offset ≥ total, com trava defensiva de iterações para o caso de a
// API nunca reportar o total.
func (s *MeliService) paginate(ctx context.Context, creds *domain.Credentials, from string) (*pageStats, error) {
	stats := &pageStats{}
	limit := s.cfg.Meli.PageSize
	offset := 0

	for page := 1; ; page++ {
		if page > s.cfg.Meli.MaxPages {
			logrus.WithFields(logrus.Fields{
				"company_id": creds.CompanyID,
				"max_pages":  s.cfg.Meli.MaxPages,
			}).Warn("Limite defensivo de páginas atingido, encerrando paginação")
			break
		}

		if err := ctx.Err(); err != nil {
			return stats, err
		}

		response, err := s.client.SearchOrders(ctx, meliclient.SearchOrdersParams{
			AccessToken: creds.AccessToken,
			SellerID:    creds.SellerID,
			CreatedFrom: from,
			Offset:      offset,
			Limit:       limit,
		})
		if err != nil {
			return stats, err
		}

		stats.pagesFetched++

		if len(response.Results) == 0 {
			break
		}

		s.processBatch(ctx, creds, response.Results, stats)

		offset += limit
		if response.Paging.Total > 0 && offset >= response.Paging.Total {
			break
		}
	}

	return stats, nil
}

// processBatch processa os pedidos de uma página em paralelo, limitado por um
// semáforo. A falha de um pedido é isolada: loga, conta e segue para o próximo.
func (s *MeliService) processBatch(ctx context.Context, creds *domain.Credentials, orders []melidomain.Order, stats *pageStats) {
	semaphore := make(chan struct{}, s.cfg.Meli.OrderWorkers)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, order := range orders {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(o melidomain.Order) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			lines, err := s.processOrder(ctx, creds, &o)

			mu.Lock()
			defer mu.Unlock()

			stats.ordersFetched++
			stats.linesUpserted += lines

			if err != nil {
				stats.ordersFailed++
				logrus.WithFields(logrus.Fields{
					"company_id": creds.CompanyID,
					"order_id":   o.ID,
				}).WithError(err).Error("Erro ao processar pedido")
			}
		}(order)
	}

	wg.Wait()
}

// processOrder projeta cada item do pedido em um registro de venda.
// Devolve quantas linhas foram gravadas; erro em uma linha interrompe apenas
// as linhas restantes do mesmo pedido.
func (s *MeliService) processOrder(ctx context.Context, creds *domain.Credentials, order *melidomain.Order) (int, error) {
	orderID := strconv.FormatInt(order.ID, 10)

	cancellation := domain.SalesRecordActive
	if order.Status == "cancelled" {
		cancellation = domain.SalesRecordCancelled
	}

	// Enriquecimento de envio é melhor esforço: a linha é gravada mesmo sem
	// os detalhes do envio
	shipment := s.fetchShipment(ctx, creds, order.Shipping.ID)

	saleDate := formatSaleDate(order.DateCreated)
	buyerID := ""
	if order.Buyer.ID != 0 {
		buyerID = strconv.FormatInt(order.Buyer.ID, 10)
	}
	shipmentID := ""
	if order.Shipping.ID != 0 {
		shipmentID = strconv.FormatInt(order.Shipping.ID, 10)
	}

	upserted := 0

	for i, item := range order.OrderItems {
		breakdown := pricing.Calculate(pricing.LineInput{
			UnitPrice: decimal.NewFromFloat(item.UnitPrice),
			Quantity:  item.Quantity,
			SaleFee:   decimal.NewFromFloat(item.SaleFee),
			MLB:       item.Item.ID,
		})

		record := &domain.SalesRecord{
			OrderID:            orderID,
			LineIndex:          i,
			CompanyID:          creds.CompanyID,
			AccountName:        creds.CompanyName,
			SellerID:           creds.SellerID,
			MLB:                item.Item.ID,
			SKU:                item.Item.SellerSKU,
			Title:              item.Item.Title,
			BuyerID:            buyerID,
			ShipmentID:         shipmentID,
			Status:             melidomain.TranslateStatus(order.Status),
			Cancellation:       cancellation,
			SaleDate:           saleDate,
			UnitPrice:          decimal.NewFromFloat(item.UnitPrice).Round(2),
			Quantity:           item.Quantity,
			MarketplaceFee:     decimal.NewFromFloat(item.SaleFee).Round(2),
			FixedFee:           breakdown.FixedFeeTotal,
			Commission:         breakdown.Commission,
			CommissionPercent:  breakdown.CommissionPercent,
			SellerShipping:     breakdown.SellerShipping,
			ChannelCost:        breakdown.ChannelCost,
			ContributionMargin: breakdown.ContributionMargin,
		}

		if shipment != nil {
			record.Status = melidomain.TranslateStatus(shipment.Status)
			record.DeliveryStatus = shipment.Tracking.Status
			record.LogisticType = melidomain.TranslateLogisticType(shipment.LogisticType)
			record.ShippingCost = decimal.NewFromFloat(shipment.ShippingOption.Cost).Round(2)
		}

		if err := s.salesRepo.SaveOrUpdate(ctx, record); err != nil {
			return upserted, errors.Wrapf(err, "erro ao gravar linha %d do pedido %s", i, orderID)
		}

		upserted++
	}

	return upserted, nil
}

func (s *MeliService) fetchShipment(ctx context.Context, creds *domain.Credentials, shipmentID int64) *melidomain.Shipment {
	if shipmentID == 0 {
		return nil
	}

	shipment, err := s.client.GetShipment(ctx, creds.AccessToken, shipmentID)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"company_id":  creds.CompanyID,
			"shipment_id": shipmentID,
		}).WithError(err).Debug("Erro ao buscar detalhes do envio, seguindo sem enriquecimento")
		return nil
	}

	return shipment
}

// formatSaleDate converte a data de criação do pedido para o formato BR usado
// no painel. Se a data não puder ser interpretada, mantém o valor original.
func formatSaleDate(dateCreated string) string {
	if dateCreated == "" {
		return ""
	}

	parsed, err := time.Parse(meliDateFormat, dateCreated)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, dateCreated)
	}
	if err != nil {
		return dateCreated
	}

	return parsed.Format("02/01/2006")
}
