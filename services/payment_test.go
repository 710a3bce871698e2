package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"enrollment-module/catalog"
	apperrors "enrollment-module/errors"
	"enrollment-module/gateway"
	"enrollment-module/logger"
	"enrollment-module/models"
	"enrollment-module/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_key_secret"

func dobInput(day, month, year int) utils.DOBInput {
	return utils.DOBInput{Day: day, Month: month, Year: year}
}

// fakeOrderStore is an in-memory OrderStore with the same conditional
// transition semantics as the SQL implementation.
type fakeOrderStore struct {
	mu     sync.Mutex
	orders map[string]*models.EnrollmentOrder
	nextID int
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[string]*models.EnrollmentOrder)}
}

func (s *fakeOrderStore) Create(_ context.Context, order *models.EnrollmentOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[order.OrderID]; exists {
		return apperrors.E(apperrors.Conflict, "order already exists")
	}
	s.nextID++
	order.ID = s.nextID
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	clone := *order
	s.orders[order.OrderID] = &clone
	return nil
}

func (s *fakeOrderStore) FindByOrderID(_ context.Context, orderID string) (*models.EnrollmentOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return nil, apperrors.E(apperrors.NotFound, "order not found")
	}
	clone := *order
	return &clone, nil
}

func (s *fakeOrderStore) FindByInvoiceLink(_ context.Context, link string) (*models.EnrollmentOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.orders {
		if order.InvoiceLink == link {
			clone := *order
			return &clone, nil
		}
	}
	return nil, apperrors.E(apperrors.NotFound, "order not found")
}

func (s *fakeOrderStore) MarkPaid(_ context.Context, orderID, paymentID string) (*models.EnrollmentOrder, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return nil, false, apperrors.E(apperrors.NotFound, "order not found")
	}
	if order.Status == models.StatusSuccess {
		clone := *order
		return &clone, false, nil
	}
	if order.Status != models.StatusProcessing {
		return nil, false, apperrors.E(apperrors.Conflict, "order cannot be marked paid")
	}
	order.Status = models.StatusSuccess
	order.PaymentID = paymentID
	if order.PaymentDate == nil {
		now := time.Now()
		order.PaymentDate = &now
	}
	clone := *order
	return &clone, true, nil
}

func (s *fakeOrderStore) MarkFailed(_ context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok || order.Status != models.StatusProcessing {
		return apperrors.E(apperrors.Conflict, "order cannot be marked failed")
	}
	order.Status = models.StatusFailed
	return nil
}

func (s *fakeOrderStore) MarkRefunded(_ context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok || order.Status != models.StatusSuccess {
		return apperrors.E(apperrors.Conflict, "order cannot be refunded")
	}
	order.Status = models.StatusRefunded
	return nil
}

func (s *fakeOrderStore) ListAll(_ context.Context) ([]models.EnrollmentOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.EnrollmentOrder
	for _, order := range s.orders {
		out = append(out, *order)
	}
	return out, nil
}

// fakeGateway issues deterministic order ids and verifies signatures the
// same way the Razorpay adapter does.
type fakeGateway struct {
	mu          sync.Mutex
	createdAmt  []int64
	orderSerial int
	failCreate  bool
}

func (g *fakeGateway) CreateOrder(amountPaise int64, currency, receipt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failCreate {
		return "", apperrors.E(apperrors.Unavailable, "payment gateway unavailable")
	}
	g.orderSerial++
	g.createdAmt = append(g.createdAmt, amountPaise)
	return fmt.Sprintf("order_test_%d", g.orderSerial), nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return gateway.Sign(orderID, paymentID, testSecret) == signature
}

type countingMailer struct {
	mu    sync.Mutex
	sends int
}

func (m *countingMailer) DispatchInvoice(_ *models.EnrollmentOrder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends++
}

func (m *countingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sends
}

func newTestPaymentService(t *testing.T) (*PaymentService, *fakeOrderStore, *fakeGateway, *countingMailer) {
	t.Helper()
	store := newFakeOrderStore()
	gw := &fakeGateway{}
	mailer := &countingMailer{}
	svc := NewPaymentService(store, gw, NewPricingService(catalog.Default()),
		mailer, nil, 18, logger.NewDefault())
	return svc, store, gw, mailer
}

func validCreateRequest() CreateOrderRequest {
	return CreateOrderRequest{
		Package: &models.Selection{
			Type:            "program",
			SelectedProduct: "fullstack",
			SelectedMonths:  6,
		},
		Student: &StudentData{
			Name:          "Asha Verma",
			Email:         "asha@example.com",
			Phone:         "+919876543210",
			Address:       "12 MG Road",
			City:          "Bengaluru",
			State:         "Karnataka",
			Pincode:       "560001",
			DOB:           dobInput(12, 4, 1998),
			TermsAgreed:   true,
			InfoCertified: true,
		},
	}
}

func TestCreateOrder_HappyPath(t *testing.T) {
	svc, store, gw, _ := newTestPaymentService(t)

	resp, err := svc.CreateOrder(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.OrderID)
	assert.NotEmpty(t, resp.InvoiceLink)
	assert.Equal(t, 3000.0, resp.Pricing.ProgramPrice)
	assert.Equal(t, resp.Pricing.Subtotal, resp.Pricing.Total)

	// Gateway got the rounded paise amount
	require.Len(t, gw.createdAmt, 1)
	assert.Equal(t, int64(300000), gw.createdAmt[0])

	order, err := store.FindByOrderID(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, order.Status)
	assert.Equal(t, 3000.0, order.ProgramPrice)
	assert.Equal(t, 18.0, order.GSTRate)
	assert.Empty(t, order.PaymentID)
	assert.Nil(t, order.PaymentDate)
	assert.True(t, order.TermsAgreed)
	assert.True(t, order.InfoCertified)
}

func TestCreateOrder_SnapshotsResolvedAddonsOnly(t *testing.T) {
	svc, store, _, _ := newTestPaymentService(t)

	req := validCreateRequest()
	req.Package.SelectedAddon = []string{"mentorship", "discontinued-addon"}

	resp, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)

	// Only the add-on that resolved is persisted, with its name and price
	// as sold
	order, err := store.FindByOrderID(context.Background(), resp.OrderID)
	require.NoError(t, err)
	require.Len(t, order.Addons, 1)
	assert.Equal(t, "mentorship", order.Addons[0].ID)
	assert.Equal(t, "1:1 Mentorship", order.Addons[0].Name)
	assert.Equal(t, 999.0, order.Addons[0].Price)
	assert.Equal(t, 999.0, order.AddonPrice)
}

func TestCreateOrder_MissingPayloadRejected(t *testing.T) {
	svc, _, gw, _ := newTestPaymentService(t)

	req := validCreateRequest()
	req.Student = nil
	_, err := svc.CreateOrder(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apperrors.Invalid, apperrors.KindOf(err))

	req = validCreateRequest()
	req.Package = nil
	_, err = svc.CreateOrder(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apperrors.Invalid, apperrors.KindOf(err))

	// No gateway calls were made
	assert.Empty(t, gw.createdAmt)
}

func TestCreateOrder_ConsentFlagsRequired(t *testing.T) {
	svc, _, gw, _ := newTestPaymentService(t)

	req := validCreateRequest()
	req.Student.TermsAgreed = false
	_, err := svc.CreateOrder(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apperrors.Invalid, apperrors.KindOf(err))

	req = validCreateRequest()
	req.Student.InfoCertified = false
	_, err = svc.CreateOrder(context.Background(), req)
	require.Error(t, err)

	assert.Empty(t, gw.createdAmt)
}

func TestCreateOrder_UnknownProductStopsBeforeGateway(t *testing.T) {
	svc, _, gw, _ := newTestPaymentService(t)

	req := validCreateRequest()
	req.Package.SelectedProduct = "doesnotexist"
	_, err := svc.CreateOrder(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apperrors.Invalid, apperrors.KindOf(err))
	assert.Empty(t, gw.createdAmt)
}

func TestCreateOrder_BadDOBStopsBeforeGateway(t *testing.T) {
	svc, _, gw, _ := newTestPaymentService(t)

	req := validCreateRequest()
	req.Student.DOB = dobInput(30, 2, 1998) // Feb 30
	_, err := svc.CreateOrder(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apperrors.Invalid, apperrors.KindOf(err))
	assert.Empty(t, gw.createdAmt)
}

func TestCreateOrder_GatewayFailurePropagates(t *testing.T) {
	svc, store, gw, _ := newTestPaymentService(t)
	gw.failCreate = true

	_, err := svc.CreateOrder(context.Background(), validCreateRequest())
	require.Error(t, err)
	assert.Equal(t, apperrors.Unavailable, apperrors.KindOf(err))

	orders, _ := store.ListAll(context.Background())
	assert.Empty(t, orders)
}

func TestVerifyPayment_HappyPathThenIdempotentReplay(t *testing.T) {
	svc, store, _, mailer := newTestPaymentService(t)
	ctx := context.Background()

	created, err := svc.CreateOrder(ctx, validCreateRequest())
	require.NoError(t, err)

	paymentID := "pay_test_123"
	req := VerifyPaymentRequest{
		OrderID:   created.OrderID,
		PaymentID: paymentID,
		Signature: gateway.Sign(created.OrderID, paymentID, testSecret),
	}

	first, err := svc.VerifyPayment(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, paymentID, first.PaymentID)
	assert.Equal(t, created.InvoiceLink, first.InvoiceLink)

	order, err := store.FindByOrderID(ctx, created.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, order.Status)
	require.NotNil(t, order.PaymentDate)
	firstPaidAt := *order.PaymentDate

	// Replay: same response, no second email, timestamp untouched
	second, err := svc.VerifyPayment(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	order, err = store.FindByOrderID(ctx, created.OrderID)
	require.NoError(t, err)
	require.NotNil(t, order.PaymentDate)
	assert.Equal(t, firstPaidAt, *order.PaymentDate)

	assert.Equal(t, 1, mailer.count())
}

func TestVerifyPayment_TamperedSignatureRejected(t *testing.T) {
	svc, store, _, mailer := newTestPaymentService(t)
	ctx := context.Background()

	created, err := svc.CreateOrder(ctx, validCreateRequest())
	require.NoError(t, err)

	good := gateway.Sign(created.OrderID, "pay_test_123", testSecret)
	// Same length and format, one hex digit flipped
	tampered := []byte(good)
	if tampered[0] == 'a' {
		tampered[0] = 'b'
	} else {
		tampered[0] = 'a'
	}

	_, err = svc.VerifyPayment(ctx, VerifyPaymentRequest{
		OrderID:   created.OrderID,
		PaymentID: "pay_test_123",
		Signature: string(tampered),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.Invalid, apperrors.KindOf(err))

	// Record untouched, retry still possible
	order, err := store.FindByOrderID(ctx, created.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, order.Status)
	assert.Equal(t, 0, mailer.count())
}

func TestVerifyPayment_UnknownOrderIs404(t *testing.T) {
	svc, _, _, _ := newTestPaymentService(t)

	orderID := "order_never_created"
	_, err := svc.VerifyPayment(context.Background(), VerifyPaymentRequest{
		OrderID:   orderID,
		PaymentID: "pay_x",
		Signature: gateway.Sign(orderID, "pay_x", testSecret),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.NotFound, apperrors.KindOf(err))
}

func TestVerifyPayment_MissingFieldsRejected(t *testing.T) {
	svc, _, _, _ := newTestPaymentService(t)

	_, err := svc.VerifyPayment(context.Background(), VerifyPaymentRequest{})
	require.Error(t, err)
	assert.Equal(t, apperrors.Invalid, apperrors.KindOf(err))
}
