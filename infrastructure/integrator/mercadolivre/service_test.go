package mercadolivre

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	melidomain "github.com/fisgarone/marketplace-sync-api/infrastructure/integrator/mercadolivre/domain"
	"github.com/fisgarone/marketplace-sync-api/infrastructure/integrator/mercadolivre/meliclient"
	climocks "github.com/fisgarone/marketplace-sync-api/infrastructure/integrator/mercadolivre/meliclient/mocks"
	"github.com/fisgarone/marketplace-sync-api/infrastructure/repository/mocks"
	"github.com/fisgarone/marketplace-sync-api/internal/config"
	"github.com/fisgarone/marketplace-sync-api/internal/domain"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testSyncConfig() *config.Config {
	return &config.Config{
		App: config.App{
			Timezone: "America/Sao_Paulo",
		},
		Meli: config.Meli{
			PageSize:     2,
			MaxPages:     200,
			OrderWorkers: 2,
		},
	}
}

func testCredentials() *domain.Credentials {
	return &domain.Credentials{
		ID:           "cred-1",
		CompanyID:    "empresa-1",
		CompanyName:  "Loja Teste",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		SellerID:     "12345",
		Active:       true,
	}
}

func testWindow() domain.SyncWindow {
	return domain.SyncWindow{Duration: 3 * time.Hour, Label: "3h"}
}

func simpleOrder(id int64) melidomain.Order {
	return melidomain.Order{
		ID:          id,
		DateCreated: "2026-06-10T14:35:00.000-03:00",
		Status:      "paid",
		OrderItems: []melidomain.OrderItem{
			{
				Item:      melidomain.Item{ID: "MLB123", Title: "Produto", SellerSKU: "SKU-1"},
				UnitPrice: 40.00,
				Quantity:  1,
				SaleFee:   8.00,
			},
		},
	}
}

// recordSink acumula os registros gravados pelas goroutines do pipeline
type recordSink struct {
	mu      sync.Mutex
	records []*domain.SalesRecord
}

func (s *recordSink) save(_ context.Context, record *domain.SalesRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func TestSyncAccountOrders_Pagination(t *testing.T) {
	t.Run("Percorre todas as páginas até offset alcançar o total", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockClient := climocks.NewMockClient(ctrl)
		mockCredRepo := mocks.NewMockCredentialRepository(ctrl)
		mockSalesRepo := mocks.NewMockSalesRecordRepository(ctrl)

		// 5 pedidos com páginas de 2: offsets 0, 2 e 4
		pages := map[int][]melidomain.Order{
			0: {simpleOrder(1), simpleOrder(2)},
			2: {simpleOrder(3), simpleOrder(4)},
			4: {simpleOrder(5)},
		}

		var seenOffsets []int
		var offsetsMu sync.Mutex

		mockClient.EXPECT().
			SearchOrders(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params meliclient.SearchOrdersParams) (*melidomain.OrdersSearchResponse, error) {
				offsetsMu.Lock()
				seenOffsets = append(seenOffsets, params.Offset)
				offsetsMu.Unlock()

				assert.Equal(t, "12345", params.SellerID)
				assert.Equal(t, "access-1", params.AccessToken)
				assert.Equal(t, 2, params.Limit)

				return &melidomain.OrdersSearchResponse{
					Results: pages[params.Offset],
					Paging:  melidomain.Paging{Total: 5, Offset: params.Offset, Limit: 2},
				}, nil
			}).
			Times(3)

		mockSalesRepo.EXPECT().
			SaveOrUpdate(gomock.Any(), gomock.Any()).
			Return(nil).
			Times(5)

		tokenManager := meliclient.NewTokenManager(mockClient, mockCredRepo)
		service := New(testSyncConfig(), mockClient, tokenManager, mockSalesRepo)

		result := service.SyncAccountOrders(context.Background(), testCredentials(), testWindow())

		require.NoError(t, result.Err)
		assert.Equal(t, []int{0, 2, 4}, seenOffsets)
		assert.Equal(t, 5, result.OrdersFetched)
		assert.Equal(t, 5, result.LinesUpserted)
		assert.Equal(t, 0, result.OrdersFailed)
		assert.Equal(t, 3, result.PagesFetched)
		assert.False(t, result.TokenRefreshed)
	})

	t.Run("Página vazia encerra a paginação", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockClient := climocks.NewMockClient(ctrl)
		mockCredRepo := mocks.NewMockCredentialRepository(ctrl)
		mockSalesRepo := mocks.NewMockSalesRecordRepository(ctrl)

		mockClient.EXPECT().
			SearchOrders(gomock.Any(), gomock.Any()).
			Return(&melidomain.OrdersSearchResponse{
				Results: []melidomain.Order{},
				Paging:  melidomain.Paging{Total: 0},
			}, nil).
			Times(1)

		tokenManager := meliclient.NewTokenManager(mockClient, mockCredRepo)
		service := New(testSyncConfig(), mockClient, tokenManager, mockSalesRepo)

		result := service.SyncAccountOrders(context.Background(), testCredentials(), testWindow())

		require.NoError(t, result.Err)
		assert.Equal(t, 0, result.OrdersFetched)
		assert.Equal(t, 1, result.PagesFetched)
	})

	t.Run("Credenciais incompletas falham antes de qualquer chamada", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockClient := climocks.NewMockClient(ctrl)
		mockCredRepo := mocks.NewMockCredentialRepository(ctrl)
		mockSalesRepo := mocks.NewMockSalesRecordRepository(ctrl)

		creds := testCredentials()
		creds.SellerID = ""

		tokenManager := meliclient.NewTokenManager(mockClient, mockCredRepo)
		service := New(testSyncConfig(), mockClient, tokenManager, mockSalesRepo)

		result := service.SyncAccountOrders(context.Background(), creds, testWindow())

		assert.True(t, errors.Is(result.Err, domain.ErrCredentialsMissing))
	})
}

func TestSyncAccountOrders_TokenExpirado(t *testing.T) {
	t.Run("Token expirado renova uma vez e reinicia a conta", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockClient := climocks.NewMockClient(ctrl)
		mockCredRepo := mocks.NewMockCredentialRepository(ctrl)
		mockSalesRepo := mocks.NewMockSalesRecordRepository(ctrl)

		// Primeira passada: token rejeitado logo na primeira página
		first := mockClient.EXPECT().
			SearchOrders(gomock.Any(), gomock.Any()).
			Return(nil, meliclient.ErrAuthExpired)

		exchange := mockClient.EXPECT().
			ExchangeRefreshToken(gomock.Any(), "client-id", "client-secret", "refresh-1").
			Return(&melidomain.TokenResponse{
				AccessToken:  "access-2",
				RefreshToken: "refresh-2",
				ExpiresIn:    21600,
			}, nil).
			After(first)

		persist := mockCredRepo.EXPECT().
			UpdateTokens(gomock.Any(), "cred-1", "access-2", "refresh-2", gomock.Any()).
			Return(nil).
			After(exchange)

		// Segunda passada com o token novo
		mockClient.EXPECT().
			SearchOrders(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params meliclient.SearchOrdersParams) (*melidomain.OrdersSearchResponse, error) {
				assert.Equal(t, "access-2", params.AccessToken)
				return &melidomain.OrdersSearchResponse{
					Results: []melidomain.Order{simpleOrder(1)},
					Paging:  melidomain.Paging{Total: 1},
				}, nil
			}).
			After(persist)

		mockSalesRepo.EXPECT().
			SaveOrUpdate(gomock.Any(), gomock.Any()).
			Return(nil)

		tokenManager := meliclient.NewTokenManager(mockClient, mockCredRepo)
		service := New(testSyncConfig(), mockClient, tokenManager, mockSalesRepo)

		result := service.SyncAccountOrders(context.Background(), testCredentials(), testWindow())

		require.NoError(t, result.Err)
		assert.True(t, result.TokenRefreshed)
		// Contadores refletem só a passada bem-sucedida
		assert.Equal(t, 1, result.OrdersFetched)
		assert.Equal(t, 1, result.LinesUpserted)
	})

	t.Run("Token rejeitado de novo após a renovação é falha de autenticação", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockClient := climocks.NewMockClient(ctrl)
		mockCredRepo := mocks.NewMockCredentialRepository(ctrl)
		mockSalesRepo := mocks.NewMockSalesRecordRepository(ctrl)

		mockClient.EXPECT().
			SearchOrders(gomock.Any(), gomock.Any()).
			Return(nil, meliclient.ErrAuthExpired).
			Times(2)

		mockClient.EXPECT().
			ExchangeRefreshToken(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&melidomain.TokenResponse{
				AccessToken:  "access-2",
				RefreshToken: "refresh-2",
				ExpiresIn:    21600,
			}, nil)

		mockCredRepo.EXPECT().
			UpdateTokens(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		tokenManager := meliclient.NewTokenManager(mockClient, mockCredRepo)
		service := New(testSyncConfig(), mockClient, tokenManager, mockSalesRepo)

		result := service.SyncAccountOrders(context.Background(), testCredentials(), testWindow())

		assert.True(t, errors.Is(result.Err, ErrAuthFailure))
		assert.True(t, result.TokenRefreshed)
	})

	t.Run("Renovação recusada é falha de autenticação sem reinício", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockClient := climocks.NewMockClient(ctrl)
		mockCredRepo := mocks.NewMockCredentialRepository(ctrl)
		mockSalesRepo := mocks.NewMockSalesRecordRepository(ctrl)

		mockClient.EXPECT().
			SearchOrders(gomock.Any(), gomock.Any()).
			Return(nil, meliclient.ErrAuthExpired)

		mockClient.EXPECT().
			ExchangeRefreshToken(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, meliclient.ErrTokenRefused)

		tokenManager := meliclient.NewTokenManager(mockClient, mockCredRepo)
		service := New(testSyncConfig(), mockClient, tokenManager, mockSalesRepo)

		result := service.SyncAccountOrders(context.Background(), testCredentials(), testWindow())

		assert.True(t, errors.Is(result.Err, ErrAuthFailure))
		assert.False(t, result.TokenRefreshed)
	})
}

func TestSyncAccountOrders_ProjecaoDeLinhas(t *testing.T) {
	t.Run("Cada item do pedido vira uma linha com a decomposição de custo", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockClient := climocks.NewMockClient(ctrl)
		mockCredRepo := mocks.NewMockCredentialRepository(ctrl)
		mockSalesRepo := mocks.NewMockSalesRecordRepository(ctrl)

		order := melidomain.Order{
			ID:          2000003508419013,
			DateCreated: "2026-06-10T14:35:00.000-03:00",
			Status:      "paid",
			Buyer:       melidomain.Buyer{ID: 777, Nickname: "COMPRADOR"},
			Shipping:    melidomain.Shipping{ID: 555},
			OrderItems: []melidomain.OrderItem{
				{
					Item:      melidomain.Item{ID: "MLB111", Title: "Produto Caro", SellerSKU: "SKU-A"},
					UnitPrice: 79.00,
					Quantity:  2,
					SaleFee:   10.00,
				},
				{
					Item:      melidomain.Item{ID: "MLB222", Title: "Produto Médio", SellerSKU: "SKU-B"},
					UnitPrice: 40.00,
					Quantity:  3,
					SaleFee:   5.00,
				},
			},
		}

		mockClient.EXPECT().
			SearchOrders(gomock.Any(), gomock.Any()).
			Return(&melidomain.OrdersSearchResponse{
				Results: []melidomain.Order{order},
				Paging:  melidomain.Paging{Total: 1},
			}, nil)

		mockClient.EXPECT().
			GetShipment(gomock.Any(), "access-1", int64(555)).
			Return(&melidomain.Shipment{
				ID:           555,
				Status:       "shipped",
				LogisticType: "fulfillment",
				ShippingOption: melidomain.ShippingOption{
					Cost: 12.34,
				},
				Tracking: melidomain.Tracking{Status: "in_transit"},
			}, nil)

		sink := &recordSink{}
		mockSalesRepo.EXPECT().
			SaveOrUpdate(gomock.Any(), gomock.Any()).
			DoAndReturn(sink.save).
			Times(2)

		tokenManager := meliclient.NewTokenManager(mockClient, mockCredRepo)
		service := New(testSyncConfig(), mockClient, tokenManager, mockSalesRepo)

		result := service.SyncAccountOrders(context.Background(), testCredentials(), testWindow())

		require.NoError(t, result.Err)
		require.Len(t, sink.records, 2)

		sort.Slice(sink.records, func(i, j int) bool {
			return sink.records[i].LineIndex < sink.records[j].LineIndex
		})

		first := sink.records[0]
		assert.Equal(t, "2000003508419013", first.OrderID)
		assert.Equal(t, 0, first.LineIndex)
		assert.Equal(t, "empresa-1", first.CompanyID)
		assert.Equal(t, "MLB111", first.MLB)
		assert.Equal(t, "SKU-A", first.SKU)
		assert.Equal(t, "777", first.BuyerID)
		assert.Equal(t, "555", first.ShipmentID)
		assert.Equal(t, "10/06/2026", first.SaleDate)
		assert.Equal(t, domain.SalesRecordActive, first.Cancellation)

		// Enriquecimento do envio sobrescreve situação e logística
		assert.Equal(t, "Enviado", first.Status)
		assert.Equal(t, "in_transit", first.DeliveryStatus)
		assert.Equal(t, "Full", first.LogisticType)
		assert.True(t, decimal.NewFromFloat(12.34).Equal(first.ShippingCost))

		// 79.00 × 2 com taxa 10.00: sem taxa fixa, frete do vendedor 58.00
		assert.True(t, decimal.NewFromFloat(158.00).Equal(first.UnitPrice.Mul(decimal.NewFromInt(int64(first.Quantity)))))
		assert.True(t, decimal.Zero.Equal(first.FixedFee))
		assert.True(t, decimal.NewFromFloat(20.00).Equal(first.Commission))
		assert.True(t, decimal.NewFromFloat(58.00).Equal(first.SellerShipping))
		assert.True(t, decimal.NewFromFloat(78.00).Equal(first.ChannelCost))
		assert.True(t, decimal.NewFromFloat(80.00).Equal(first.ContributionMargin))

		second := sink.records[1]
		assert.Equal(t, "2000003508419013", second.OrderID)
		assert.Equal(t, 1, second.LineIndex)
		assert.Equal(t, "MLB222", second.MLB)

		// 40.00 × 3 com taxa 5.00: taxa fixa 19.50 engole a comissão
		assert.True(t, decimal.NewFromFloat(19.50).Equal(second.FixedFee))
		assert.True(t, decimal.Zero.Equal(second.Commission))
		assert.True(t, decimal.Zero.Equal(second.SellerShipping))
		assert.True(t, decimal.NewFromFloat(100.50).Equal(second.ContributionMargin))
	})

	t.Run("Pedido cancelado grava as linhas com situação de cancelamento", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockClient := climocks.NewMockClient(ctrl)
		mockCredRepo := mocks.NewMockCredentialRepository(ctrl)
		mockSalesRepo := mocks.NewMockSalesRecordRepository(ctrl)

		order := simpleOrder(42)
		order.Status = "cancelled"

		mockClient.EXPECT().
			SearchOrders(gomock.Any(), gomock.Any()).
			Return(&melidomain.OrdersSearchResponse{
				Results: []melidomain.Order{order},
				Paging:  melidomain.Paging{Total: 1},
			}, nil)

		sink := &recordSink{}
		mockSalesRepo.EXPECT().
			SaveOrUpdate(gomock.Any(), gomock.Any()).
			DoAndReturn(sink.save)

		tokenManager := meliclient.NewTokenManager(mockClient, mockCredRepo)
		service := New(testSyncConfig(), mockClient, tokenManager, mockSalesRepo)

		result := service.SyncAccountOrders(context.Background(), testCredentials(), testWindow())

		require.NoError(t, result.Err)
		require.Len(t, sink.records, 1)
		assert.Equal(t, domain.SalesRecordCancelled, sink.records[0].Cancellation)
		assert.Equal(t, "Cancelado", sink.records[0].Status)
	})

	t.Run("Falha no envio não impede a gravação da linha", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockClient := climocks.NewMockClient(ctrl)
		mockCredRepo := mocks.NewMockCredentialRepository(ctrl)
		mockSalesRepo := mocks.NewMockSalesRecordRepository(ctrl)

		order := simpleOrder(42)
		order.Shipping = melidomain.Shipping{ID: 555}

		mockClient.EXPECT().
			SearchOrders(gomock.Any(), gomock.Any()).
			Return(&melidomain.OrdersSearchResponse{
				Results: []melidomain.Order{order},
				Paging:  melidomain.Paging{Total: 1},
			}, nil)

		mockClient.EXPECT().
			GetShipment(gomock.Any(), gomock.Any(), int64(555)).
			Return(nil, errors.New("envio indisponível"))

		sink := &recordSink{}
		mockSalesRepo.EXPECT().
			SaveOrUpdate(gomock.Any(), gomock.Any()).
			DoAndReturn(sink.save)

		tokenManager := meliclient.NewTokenManager(mockClient, mockCredRepo)
		service := New(testSyncConfig(), mockClient, tokenManager, mockSalesRepo)

		result := service.SyncAccountOrders(context.Background(), testCredentials(), testWindow())

		require.NoError(t, result.Err)
		require.Len(t, sink.records, 1)
		assert.Equal(t, 0, result.OrdersFailed)
		// Sem enriquecimento, a situação vem do próprio pedido
		assert.Empty(t, sink.records[0].LogisticType)
	})

	t.Run("Reingestão do mesmo pedido grava a mesma chave com a situação nova", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockClient := climocks.NewMockClient(ctrl)
		mockCredRepo := mocks.NewMockCredentialRepository(ctrl)
		mockSalesRepo := mocks.NewMockSalesRecordRepository(ctrl)

		pending := simpleOrder(42)
		pending.Status = "pending"

		shipped := simpleOrder(42)
		shipped.Status = "shipped"

		gomock.InOrder(
			mockClient.EXPECT().
				SearchOrders(gomock.Any(), gomock.Any()).
				Return(&melidomain.OrdersSearchResponse{
					Results: []melidomain.Order{pending},
					Paging:  melidomain.Paging{Total: 1},
				}, nil),
			mockClient.EXPECT().
				SearchOrders(gomock.Any(), gomock.Any()).
				Return(&melidomain.OrdersSearchResponse{
					Results: []melidomain.Order{shipped},
					Paging:  melidomain.Paging{Total: 1},
				}, nil),
		)

		sink := &recordSink{}
		mockSalesRepo.EXPECT().
			SaveOrUpdate(gomock.Any(), gomock.Any()).
			DoAndReturn(sink.save).
			Times(2)

		tokenManager := meliclient.NewTokenManager(mockClient, mockCredRepo)
		service := New(testSyncConfig(), mockClient, tokenManager, mockSalesRepo)

		first := service.SyncAccountOrders(context.Background(), testCredentials(), testWindow())
		second := service.SyncAccountOrders(context.Background(), testCredentials(), testWindow())

		require.NoError(t, first.Err)
		require.NoError(t, second.Err)
		require.Len(t, sink.records, 2)

		// Mesma chave (pedido, linha): o upsert do repositório troca a
		// situação em vez de duplicar a linha
		assert.Equal(t, sink.records[0].OrderID, sink.records[1].OrderID)
		assert.Equal(t, sink.records[0].LineIndex, sink.records[1].LineIndex)
		assert.Equal(t, "Pendente", sink.records[0].Status)
		assert.Equal(t, "Enviado", sink.records[1].Status)
	})

	t.Run("Falha de um pedido é isolada e contada", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockClient := climocks.NewMockClient(ctrl)
		mockCredRepo := mocks.NewMockCredentialRepository(ctrl)
		mockSalesRepo := mocks.NewMockSalesRecordRepository(ctrl)

		mockClient.EXPECT().
			SearchOrders(gomock.Any(), gomock.Any()).
			Return(&melidomain.OrdersSearchResponse{
				Results: []melidomain.Order{simpleOrder(1), simpleOrder(2)},
				Paging:  melidomain.Paging{Total: 2},
			}, nil)

		mockSalesRepo.EXPECT().
			SaveOrUpdate(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, record *domain.SalesRecord) error {
				if record.OrderID == "1" {
					return errors.New("violação de restrição")
				}
				return nil
			}).
			Times(2)

		tokenManager := meliclient.NewTokenManager(mockClient, mockCredRepo)
		service := New(testSyncConfig(), mockClient, tokenManager, mockSalesRepo)

		result := service.SyncAccountOrders(context.Background(), testCredentials(), testWindow())

		require.NoError(t, result.Err)
		assert.Equal(t, 2, result.OrdersFetched)
		assert.Equal(t, 1, result.OrdersFailed)
		assert.Equal(t, 1, result.LinesUpserted)
	})
}

func TestEnsureFreshToken(t *testing.T) {
	t.Run("Token aceito segue sem renovação", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockClient := climocks.NewMockClient(ctrl)
		mockCredRepo := mocks.NewMockCredentialRepository(ctrl)
		mockSalesRepo := mocks.NewMockSalesRecordRepository(ctrl)

		mockClient.EXPECT().
			Probe(gomock.Any(), "access-1").
			Return(nil)

		tokenManager := meliclient.NewTokenManager(mockClient, mockCredRepo)
		service := New(testSyncConfig(), mockClient, tokenManager, mockSalesRepo)

		err := service.EnsureFreshToken(context.Background(), testCredentials())
		assert.NoError(t, err)
	})

	t.Run("Token rejeitado dispara renovação antecipada", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockClient := climocks.NewMockClient(ctrl)
		mockCredRepo := mocks.NewMockCredentialRepository(ctrl)
		mockSalesRepo := mocks.NewMockSalesRecordRepository(ctrl)

		creds := testCredentials()

		mockClient.EXPECT().
			Probe(gomock.Any(), "access-1").
			Return(meliclient.ErrAuthExpired)

		mockClient.EXPECT().
			ExchangeRefreshToken(gomock.Any(), "client-id", "client-secret", "refresh-1").
			Return(&melidomain.TokenResponse{
				AccessToken:  "access-2",
				RefreshToken: "refresh-2",
				ExpiresIn:    21600,
			}, nil)

		mockCredRepo.EXPECT().
			UpdateTokens(gomock.Any(), "cred-1", "access-2", "refresh-2", gomock.Any()).
			Return(nil)

		tokenManager := meliclient.NewTokenManager(mockClient, mockCredRepo)
		service := New(testSyncConfig(), mockClient, tokenManager, mockSalesRepo)

		err := service.EnsureFreshToken(context.Background(), creds)

		require.NoError(t, err)
		assert.Equal(t, "access-2", creds.AccessToken)
	})

	t.Run("Falha transitória na verificação não impede a sincronização", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockClient := climocks.NewMockClient(ctrl)
		mockCredRepo := mocks.NewMockCredentialRepository(ctrl)
		mockSalesRepo := mocks.NewMockSalesRecordRepository(ctrl)

		mockClient.EXPECT().
			Probe(gomock.Any(), "access-1").
			Return(errors.New("timeout de rede"))

		tokenManager := meliclient.NewTokenManager(mockClient, mockCredRepo)
		service := New(testSyncConfig(), mockClient, tokenManager, mockSalesRepo)

		err := service.EnsureFreshToken(context.Background(), testCredentials())
		assert.NoError(t, err)
	})
}
