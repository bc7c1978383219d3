package service

import (
	"context"
	"sync"
	"time"

	"elixa-backend/internal/client"
	"elixa-backend/internal/model"
	"elixa-backend/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// mockTxManager runs the unit of work directly; failures lets tests
// simulate transient conflicts surfacing from the storage layer.
type mockTxManager struct {
	mu       sync.Mutex
	calls    int
	failures int
	failErr  error
}

func (m *mockTxManager) Transaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	m.mu.Lock()
	m.calls++
	if m.failures > 0 {
		m.failures--
		m.mu.Unlock()
		return m.failErr
	}
	m.mu.Unlock()
	return fn(nil)
}

// mockGateway implements client.KhaltiClient for testing
type mockGateway struct {
	mu            sync.Mutex
	initiateResp  *client.InitiateResponse
	initiateErr   error
	lookupResp    *client.LookupResponse
	lookupErr     error
	initiateCalls int
	lookupCalls   int
}

func (m *mockGateway) InitiatePayment(_ context.Context, _ *client.InitiateRequest) (*client.InitiateResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initiateCalls++
	return m.initiateResp, m.initiateErr
}

func (m *mockGateway) LookupPayment(_ context.Context, _ string) (*client.LookupResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookupCalls++
	return m.lookupResp, m.lookupErr
}

// mockUserRepo implements repository.UserRepository for testing
type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User // by id
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) FindByID(_ context.Context, userID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindByVerifyToken(_ context.Context, token string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.VerifyToken != "" && u.VerifyToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) MarkVerified(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		u.Verified = true
		u.VerifyToken = ""
	}
	return nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

// mockCartRepo implements repository.CartRepository for testing
type mockCartRepo struct {
	mu         sync.Mutex
	carts      map[string]*model.Cart // by id
	nextItemID uint
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[string]*model.Cart)}
}

func (m *mockCartRepo) put(cart *model.Cart) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range cart.Items {
		if cart.Items[i].ID == 0 {
			m.nextItemID++
			cart.Items[i].ID = m.nextItemID
		}
	}
	m.carts[cart.ID] = cart
}

func copyCart(cart *model.Cart) *model.Cart {
	cp := *cart
	cp.Items = append([]model.CartItem(nil), cart.Items...)
	return &cp
}

func (m *mockCartRepo) Create(_ context.Context, _ *gorm.DB, cart *model.Cart) error {
	m.put(copyCart(cart))
	return nil
}

func (m *mockCartRepo) FindByID(_ context.Context, cartID string) (*model.Cart, error) {
	return m.find(cartID)
}

func (m *mockCartRepo) FindByIDTx(_ context.Context, _ *gorm.DB, cartID string) (*model.Cart, error) {
	return m.find(cartID)
}

func (m *mockCartRepo) find(cartID string) (*model.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[cartID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return copyCart(cart), nil
}

func (m *mockCartRepo) FindActiveByUser(_ context.Context, _ *gorm.DB, userID string) (*model.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cart := range m.carts {
		if cart.UserID == userID && cart.Status == model.CartStatusActive {
			return copyCart(cart), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCartRepo) UpdateStatus(_ context.Context, _ *gorm.DB, cartID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart, ok := m.carts[cartID]; ok {
		cart.Status = status
	}
	return nil
}

func (m *mockCartRepo) UpdateTotal(_ context.Context, _ *gorm.DB, cartID string, total decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart, ok := m.carts[cartID]; ok {
		cart.TotalPrice = total
	}
	return nil
}

func (m *mockCartRepo) FindItem(_ context.Context, _ *gorm.DB, cartID, productID string) (*model.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[cartID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for _, it := range cart.Items {
		if it.ProductID == productID {
			cp := it
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCartRepo) CreateItem(_ context.Context, _ *gorm.DB, item *model.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[item.CartID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.nextItemID++
	cp := *item
	cp.ID = m.nextItemID
	cart.Items = append(cart.Items, cp)
	return nil
}

func (m *mockCartRepo) UpdateItemQuantity(_ context.Context, _ *gorm.DB, itemID uint, quantity int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cart := range m.carts {
		for i := range cart.Items {
			if cart.Items[i].ID == itemID {
				cart.Items[i].Quantity = quantity
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockCartRepo) DeleteItem(_ context.Context, _ *gorm.DB, cartID, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[cartID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return nil
		}
	}
	return nil
}

// mockPaymentRepo implements repository.PaymentRepository for testing
type mockPaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*model.Payment // by pidx
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{payments: make(map[string]*model.Payment)}
}

func (m *mockPaymentRepo) put(payment *model.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *payment
	m.payments[payment.Pidx] = &cp
}

func (m *mockPaymentRepo) Create(_ context.Context, _ *gorm.DB, payment *model.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.payments[payment.Pidx]; exists {
		return gorm.ErrDuplicatedKey
	}
	cp := *payment
	m.payments[payment.Pidx] = &cp
	return nil
}

func (m *mockPaymentRepo) FindByPidx(_ context.Context, pidx string) (*model.Payment, error) {
	return m.find(pidx)
}

func (m *mockPaymentRepo) FindByPidxTx(_ context.Context, _ *gorm.DB, pidx string) (*model.Payment, error) {
	return m.find(pidx)
}

func (m *mockPaymentRepo) find(pidx string) (*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[pidx]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPaymentRepo) FindPendingByCart(_ context.Context, cartID string) (*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.CartID == cartID && p.Status == model.PaymentStatusPending {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaymentRepo) MarkCompleted(_ context.Context, _ *gorm.DB, paymentID, transactionID string, paidAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.ID == paymentID && p.Status == model.PaymentStatusPending {
			p.Status = model.PaymentStatusCompleted
			p.TransactionID = transactionID
			t := paidAt
			p.PaidAt = &t
		}
	}
	return nil
}

func (m *mockPaymentRepo) MarkFailed(_ context.Context, _ *gorm.DB, paymentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.ID == paymentID && p.Status == model.PaymentStatusPending {
			p.Status = model.PaymentStatusFailed
		}
	}
	return nil
}

// mockOrderRepo implements repository.OrderRepository for testing.
// createErr and findTxErr force outcomes for race-handling tests.
type mockOrderRepo struct {
	mu        sync.Mutex
	orders    map[string]*model.Order // by cart id
	createErr error
	findTxErr error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[string]*model.Order)}
}

func (m *mockOrderRepo) put(order *model.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.CartID] = order
}

func (m *mockOrderRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

func (m *mockOrderRepo) Create(_ context.Context, _ *gorm.DB, order *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.orders[order.CartID]; exists {
		return gorm.ErrDuplicatedKey
	}
	cp := *order
	m.orders[order.CartID] = &cp
	return nil
}

func (m *mockOrderRepo) FindByCartID(_ context.Context, cartID string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findLocked(cartID)
}

func (m *mockOrderRepo) FindByCartIDTx(_ context.Context, _ *gorm.DB, cartID string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findTxErr != nil {
		return nil, m.findTxErr
	}
	return m.findLocked(cartID)
}

func (m *mockOrderRepo) findLocked(cartID string) (*model.Order, error) {
	order, ok := m.orders[cartID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *order
	return &cp, nil
}

func (m *mockOrderRepo) FindByUser(_ context.Context, userID string) ([]*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var orders []*model.Order
	for _, o := range m.orders {
		if o.UserID == userID && o.Status == model.OrderStatusPurchased {
			cp := *o
			orders = append(orders, &cp)
		}
	}
	return orders, nil
}

// mockProductRepo implements repository.ProductRepository for testing
type mockProductRepo struct {
	mu       sync.Mutex
	products map[string]*model.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[string]*model.Product)}
}

func (m *mockProductRepo) put(product *model.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *product
	m.products[product.ID] = &cp
}

func (m *mockProductRepo) Create(_ context.Context, product *model.Product) error {
	m.put(product)
	return nil
}

func (m *mockProductRepo) FindByID(_ context.Context, productID string) (*model.Product, error) {
	return m.find(productID)
}

func (m *mockProductRepo) FindByIDTx(_ context.Context, _ *gorm.DB, productID string) (*model.Product, error) {
	return m.find(productID)
}

func (m *mockProductRepo) find(productID string) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) FindAll(_ context.Context) ([]*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var products []*model.Product
	for _, p := range m.products {
		cp := *p
		products = append(products, &cp)
	}
	return products, nil
}

func (m *mockProductRepo) Update(_ context.Context, product *model.Product) error {
	m.put(product)
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, productID)
	return nil
}

func (m *mockProductRepo) AdjustStock(_ context.Context, _ *gorm.DB, productID string, delta int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if p.Stock+delta < 0 {
		return repository.ErrInsufficientStock
	}
	p.Stock += delta
	p.Available = p.Stock > 0
	return nil
}

// mockMailer implements mailer.Mailer for testing
type mockMailer struct {
	mu    sync.Mutex
	sent  int
	toErr error
}

func (m *mockMailer) SendVerificationEmail(_, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent++
	return m.toErr
}
