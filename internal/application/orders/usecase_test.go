package orders_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/orders"
	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/internal/domain"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
)

// ── In-memory OrderRepository con asignador atómico ──────────────────────────

type stubOrderRepo struct {
	mu        sync.Mutex
	orders    map[string]*entity.Order
	seq       int64
	allocFail bool
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[string]*entity.Order)}
}

func (r *stubOrderRepo) NextOrderNumber(context.Context) (string, error) {
	if r.allocFail {
		return "", errors.New("función obtener_siguiente_numero_pedido no disponible")
	}
	n := atomic.AddInt64(&r.seq, 1)
	return fmt.Sprintf("PED-%06d", n), nil
}

func (r *stubOrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *stubOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *stubOrderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Order
	for _, o := range r.orders {
		if f.SalespersonID != "" && (o.SalespersonID == nil || *o.SalespersonID != f.SalespersonID) {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[id].Status = status
	return nil
}

func (r *stubOrderRepo) MarkDelivered(context.Context, string, repository.DeliveryUpdate) error {
	return nil
}
func (r *stubOrderRepo) ListByStatusOldestFirst(context.Context, string) ([]*entity.Order, error) {
	return nil, nil
}
func (r *stubOrderRepo) SetAuditAlert(context.Context, []string, bool) (int64, error) { return 0, nil }
func (r *stubOrderRepo) MarkInvoiced(context.Context, string, repository.InvoiceUpdate) error {
	return nil
}
func (r *stubOrderRepo) MarkInvoicedLegacy(context.Context, string, string) error { return nil }

type recordingNotifier struct {
	mu     sync.Mutex
	events map[string]int
	last   map[string]interface{}
}

func (n *recordingNotifier) Notify(event string, data map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.events == nil {
		n.events = map[string]int{}
	}
	n.events[event]++
	n.last = data
}

func newOrderUC(repo *stubOrderRepo, n ports.Notifier) *orders.OrderUseCase {
	return orders.NewOrderUseCase(repo, nil, n, nil, zerolog.Nop())
}

func cart() []dto.OrderItemRequest {
	return []dto.OrderItemRequest{
		{ProductID: "p1", Name: "Guantes", Price: decimal.NewFromInt(250), Quantity: 2},
		{ProductID: "p2", Name: "Gasas", Price: decimal.NewFromInt(500), Quantity: 1},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta de pedidos
// ──────────────────────────────────────────────────────────────────────────────

func TestOrderCreate_ValoresPorDefectoYTotales(t *testing.T) {
	repo := newStubOrderRepo()
	n := &recordingNotifier{}
	uc := newOrderUC(repo, n)

	out, err := uc.Create(context.Background(), dto.CreateOrderRequest{
		CustomerID: "cli-1",
		Items:      cart(),
		Discount:   decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderConfirmed, out.Status)
	assert.Equal(t, entity.PaymentPending, out.PaymentStatus)
	assert.True(t, decimal.NewFromInt(1000).Equal(out.Subtotal), "subtotal = Σ precio*cantidad")
	assert.True(t, decimal.NewFromInt(900).Equal(out.Total), "total = subtotal - descuento")
	assert.Equal(t, "PED-000001", out.Number)
	assert.False(t, out.FallbackNumber)
	assert.Equal(t, 1, n.events[ports.EventNewOrder])
	assert.Equal(t, out.ID, n.last["pedidoId"])
}

func TestOrderCreate_RespetaTotalesInformados(t *testing.T) {
	uc := newOrderUC(newStubOrderRepo(), nil)
	out, err := uc.Create(context.Background(), dto.CreateOrderRequest{
		CustomerID: "cli-1",
		Items:      cart(),
		Subtotal:   decimal.NewFromInt(1000),
		Total:      decimal.NewFromInt(1210),
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1210).Equal(out.Total))
}

func TestOrderCreate_CarritoVacio(t *testing.T) {
	uc := newOrderUC(newStubOrderRepo(), nil)
	_, err := uc.Create(context.Background(), dto.CreateOrderRequest{CustomerID: "cli-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOrderCreate_NumeroProvisorioSiFallaElAsignador(t *testing.T) {
	repo := newStubOrderRepo()
	repo.allocFail = true
	uc := newOrderUC(repo, nil)
	out, err := uc.Create(context.Background(), dto.CreateOrderRequest{CustomerID: "cli-1", Items: cart()})
	require.NoError(t, err, "el pedido se crea igual")
	assert.Regexp(t, `^PED-ERR-\d+$`, out.Number)
	assert.True(t, out.FallbackNumber)
}

func TestOrderCreate_NumerosDistintosEnConcurrencia(t *testing.T) {
	repo := newStubOrderRepo()
	uc := newOrderUC(repo, nil)

	const n = 50
	numbers := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := uc.Create(context.Background(), dto.CreateOrderRequest{CustomerID: "cli", Items: cart()})
			if assert.NoError(t, err) {
				numbers <- out.Number
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[string]bool{}
	for num := range numbers {
		assert.False(t, seen[num], "número repetido %s", num)
		seen[num] = true
	}
	assert.Len(t, seen, n)
}

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados
// ──────────────────────────────────────────────────────────────────────────────

func TestOrderChangeStatus_SoloHaciaAdelante(t *testing.T) {
	repo := newStubOrderRepo()
	uc := newOrderUC(repo, nil)
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.CreateOrderRequest{CustomerID: "cli", Items: cart()})
	require.NoError(t, err)

	out, err := uc.ChangeStatus(ctx, created.ID, dto.ChangeOrderStatusRequest{Status: entity.OrderPreparing})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderPreparing, out.Status)

	_, err = uc.ChangeStatus(ctx, created.ID, dto.ChangeOrderStatusRequest{Status: entity.OrderConfirmed})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "no se retrocede")

	_, err = uc.ChangeStatus(ctx, created.ID, dto.ChangeOrderStatusRequest{Status: entity.OrderDelivered})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "la entrega la registra el despacho")
}

func TestOrderCancel_SoloEstadosTempranos(t *testing.T) {
	repo := newStubOrderRepo()
	uc := newOrderUC(repo, nil)
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.CreateOrderRequest{CustomerID: "cli", Items: cart()})
	require.NoError(t, err)

	out, err := uc.Cancel(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, out.Status)

	shipped, err := uc.Create(ctx, dto.CreateOrderRequest{CustomerID: "cli", Items: cart()})
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(ctx, shipped.ID, entity.OrderShipped))
	_, err = uc.Cancel(ctx, shipped.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = uc.Cancel(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderListBySalesperson(t *testing.T) {
	repo := newStubOrderRepo()
	uc := newOrderUC(repo, nil)
	ctx := context.Background()
	v := "vend-1"
	_, err := uc.Create(ctx, dto.CreateOrderRequest{CustomerID: "cli", SalespersonID: &v, Items: cart()})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateOrderRequest{CustomerID: "cli", Items: cart()})
	require.NoError(t, err)

	list, err := uc.ListBySalesperson(ctx, "vend-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
