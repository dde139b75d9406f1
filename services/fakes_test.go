package services

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"time"

	"grocery-store/models"
	"grocery-store/repositories"

	"github.com/shopspring/decimal"
)

type fakeUsers struct {
	users  map[int]*models.User
	nextID int
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{users: map[int]*models.User{}, nextID: 1}
	for i := range users {
		u := users[i]
		f.users[u.ID] = &u
		if u.ID >= f.nextID {
			f.nextID = u.ID + 1
		}
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, user.Email) {
			return models.ErrConflict
		}
	}
	user.ID = f.nextID
	f.nextID++
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeUsers) FindByID(_ context.Context, id int) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) FindAll(_ context.Context, role string, _, _ int) ([]models.User, int, error) {
	out := []models.User{}
	for _, u := range f.users {
		if role == "" || u.Role == role {
			out = append(out, *u)
		}
	}
	return out, len(out), nil
}

func (f *fakeUsers) Update(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return models.ErrNotFound
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, userID int, hashed string) error {
	u, ok := f.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	u.Password = hashed
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id int) error {
	if _, ok := f.users[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUsers) ListContacts(_ context.Context, roles []string, excludeID int) ([]models.Contact, error) {
	out := []models.Contact{}
	for _, u := range f.users {
		if u.ID == excludeID {
			continue
		}
		for _, r := range roles {
			if u.Role == r {
				out = append(out, models.Contact{ID: u.ID, FullName: u.FullName, Role: u.Role})
			}
		}
	}
	return out, nil
}

func (f *fakeUsers) CountByRole(_ context.Context, role string) (int, error) {
	n := 0
	for _, u := range f.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type fakeProducts struct {
	products map[int]*models.Product
	listCall int
}

func newFakeProducts(products ...models.Product) *fakeProducts {
	f := &fakeProducts{products: map[int]*models.Product{}}
	for i := range products {
		p := products[i]
		f.products[p.ID] = &p
	}
	return f
}

func (f *fakeProducts) List(_ context.Context, filter repositories.ProductFilter) ([]models.Product, int, error) {
	f.listCall++
	out := []models.Product{}
	for _, p := range f.products {
		if p.IsActive && (filter.Type == "" || p.Type == filter.Type) {
			out = append(out, *p)
		}
	}
	return out, len(out), nil
}

func (f *fakeProducts) FindByID(_ context.Context, id int) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) Create(_ context.Context, p *models.Product) error {
	p.ID = len(f.products) + 1
	p.IsActive = true
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProducts) Update(_ context.Context, p *models.Product) error {
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProducts) UpdateImage(_ context.Context, id int, url, publicID string) error {
	p, ok := f.products[id]
	if !ok {
		return models.ErrNotFound
	}
	p.ImageURL = url
	p.ImagePublicID = publicID
	return nil
}

func (f *fakeProducts) Deactivate(_ context.Context, id int) error {
	p, ok := f.products[id]
	if !ok {
		return models.ErrNotFound
	}
	p.IsActive = false
	return nil
}

func (f *fakeProducts) ListLowStock(_ context.Context) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range f.products {
		if p.IsActive && p.Stock.LessThanOrEqual(p.Threshold) {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeCart struct {
	products *fakeProducts
	items    map[int]map[int]decimal.Decimal
}

func newFakeCart(products *fakeProducts) *fakeCart {
	return &fakeCart{products: products, items: map[int]map[int]decimal.Decimal{}}
}

func (f *fakeCart) ListItems(_ context.Context, userID int) ([]models.CartItem, error) {
	out := []models.CartItem{}
	for productID, qty := range f.items[userID] {
		p := *f.products.products[productID]
		out = append(out, models.CartItem{UserID: userID, ProductID: productID, Quantity: qty, Product: &p})
	}
	return out, nil
}

func (f *fakeCart) AddItem(_ context.Context, userID, productID int, qty decimal.Decimal) error {
	if f.items[userID] == nil {
		f.items[userID] = map[int]decimal.Decimal{}
	}
	f.items[userID][productID] = f.items[userID][productID].Add(qty)
	return nil
}

func (f *fakeCart) SetQuantity(_ context.Context, userID, productID int, qty decimal.Decimal) error {
	if _, ok := f.items[userID][productID]; !ok {
		return models.ErrNotFound
	}
	f.items[userID][productID] = qty
	return nil
}

func (f *fakeCart) RemoveItem(_ context.Context, userID, productID int) error {
	if _, ok := f.items[userID][productID]; !ok {
		return models.ErrNotFound
	}
	delete(f.items[userID], productID)
	return nil
}

func (f *fakeCart) Clear(_ context.Context, userID int) error {
	delete(f.items, userID)
	return nil
}

// fakeOrders mimics the conditional updates of the SQL repository.
type fakeOrders struct {
	orders   map[int]*models.Order
	products *fakeProducts
	coupons  *fakeCoupons
	cart     *fakeCart
	nextID   int
}

func newFakeOrders(products *fakeProducts, coupons *fakeCoupons, cart *fakeCart) *fakeOrders {
	return &fakeOrders{orders: map[int]*models.Order{}, products: products, coupons: coupons, cart: cart, nextID: 1}
}

func (f *fakeOrders) Create(_ context.Context, order *models.Order) error {
	for _, it := range order.Items {
		p := f.products.products[it.ProductID]
		if p == nil || p.Stock.LessThan(it.Quantity) {
			return models.ErrInsufficientStock
		}
	}
	if order.CouponID != nil {
		c := f.coupons.byID(*order.CouponID)
		if c == nil || c.UsedAt != nil {
			return models.ErrCouponUsed
		}
	}
	for _, it := range order.Items {
		p := f.products.products[it.ProductID]
		p.Stock = p.Stock.Sub(it.Quantity)
	}
	order.ID = f.nextID
	f.nextID++
	if order.CouponID != nil {
		c := f.coupons.byID(*order.CouponID)
		now := time.Now()
		c.UsedAt = &now
		c.UsedByOrderID = &order.ID
	}
	delete(f.cart.items, order.CustomerID)
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeOrders) FindByID(_ context.Context, id int) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) List(_ context.Context, filter models.OrderFilter) ([]models.Order, int, error) {
	out := []models.Order{}
	for _, o := range f.orders {
		if filter.CustomerID != 0 && o.CustomerID != filter.CustomerID {
			continue
		}
		if filter.CarrierID != 0 && (o.CarrierID == nil || *o.CarrierID != filter.CarrierID) {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (f *fakeOrders) Assign(_ context.Context, orderID, carrierID int) error {
	o := f.orders[orderID]
	if o == nil || o.Status != models.OrderStatusPending {
		return models.ErrInvalidTransition
	}
	o.Status = models.OrderStatusAssigned
	o.CarrierID = &carrierID
	return nil
}

func (f *fakeOrders) MarkDelivered(_ context.Context, orderID, carrierID int, at time.Time) error {
	o := f.orders[orderID]
	if o == nil || o.Status != models.OrderStatusAssigned || o.CarrierID == nil || *o.CarrierID != carrierID {
		return models.ErrInvalidTransition
	}
	o.Status = models.OrderStatusDelivered
	o.DeliveredAt = &at
	return nil
}

func (f *fakeOrders) Cancel(_ context.Context, orderID, customerID int) error {
	o := f.orders[orderID]
	if o == nil || o.CustomerID != customerID || !models.CanTransition(o.Status, models.OrderStatusCancelled) {
		return models.ErrInvalidTransition
	}
	o.Status = models.OrderStatusCancelled
	for _, it := range o.Items {
		p := f.products.products[it.ProductID]
		p.Stock = p.Stock.Add(it.Quantity)
	}
	if o.CouponID != nil {
		c := f.coupons.byID(*o.CouponID)
		c.UsedAt = nil
		c.UsedByOrderID = nil
	}
	return nil
}

func (f *fakeOrders) Rate(_ context.Context, orderID, customerID, rating int) error {
	o := f.orders[orderID]
	if o == nil || o.CustomerID != customerID || o.Status != models.OrderStatusDelivered || o.CarrierRating != nil {
		return models.ErrAlreadyRated
	}
	o.CarrierRating = &rating
	return nil
}

func (f *fakeOrders) CountCompleted(_ context.Context, customerID int) (int, error) {
	n := 0
	for _, o := range f.orders {
		if o.CustomerID == customerID && o.Status == models.OrderStatusDelivered {
			n++
		}
	}
	return n, nil
}

type fakeCoupons struct {
	coupons []*models.Coupon
}

func (f *fakeCoupons) byID(id int) *models.Coupon {
	for _, c := range f.coupons {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (f *fakeCoupons) Create(_ context.Context, c *models.Coupon) error {
	for _, existing := range f.coupons {
		if existing.Code == c.Code {
			return models.ErrConflict
		}
	}
	c.ID = len(f.coupons) + 1
	cp := *c
	f.coupons = append(f.coupons, &cp)
	return nil
}

func (f *fakeCoupons) FindByCode(_ context.Context, code string) (*models.Coupon, error) {
	for _, c := range f.coupons {
		if c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeCoupons) FindByID(_ context.Context, id int) (*models.Coupon, error) {
	if c := f.byID(id); c != nil {
		cp := *c
		return &cp, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeCoupons) List(_ context.Context, userID int) ([]models.Coupon, error) {
	out := []models.Coupon{}
	for _, c := range f.coupons {
		if userID == 0 || c.UserID == nil || *c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCoupons) Delete(_ context.Context, id int) error {
	for i, c := range f.coupons {
		if c.ID == id && c.UsedAt == nil {
			f.coupons = append(f.coupons[:i], f.coupons[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

type fakeLoyalty struct {
	settings models.LoyaltySettings
	gets     int
}

func (f *fakeLoyalty) Get(_ context.Context) (models.LoyaltySettings, error) {
	f.gets++
	return f.settings, nil
}

func (f *fakeLoyalty) Save(_ context.Context, s *models.LoyaltySettings) error {
	s.UpdatedAt = time.Now()
	f.settings = *s
	return nil
}

type fakeMessages struct {
	messages []*models.Message
}

func (f *fakeMessages) Create(_ context.Context, m *models.Message) error {
	m.ID = len(f.messages) + 1
	m.CreatedAt = time.Now()
	cp := *m
	f.messages = append(f.messages, &cp)
	return nil
}

func (f *fakeMessages) FindByID(_ context.Context, id int) (*models.Message, error) {
	for _, m := range f.messages {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeMessages) Inbox(_ context.Context, userID, _, _ int) ([]models.Message, int, error) {
	out := []models.Message{}
	for _, m := range f.messages {
		if m.ReceiverID == userID && !m.ReceiverDeleted {
			out = append(out, *m)
		}
	}
	return out, len(out), nil
}

func (f *fakeMessages) Sent(_ context.Context, userID, _, _ int) ([]models.Message, int, error) {
	out := []models.Message{}
	for _, m := range f.messages {
		if m.SenderID == userID && !m.SenderDeleted {
			out = append(out, *m)
		}
	}
	return out, len(out), nil
}

func (f *fakeMessages) MarkRead(_ context.Context, id, receiverID int) error {
	for _, m := range f.messages {
		if m.ID == id && m.ReceiverID == receiverID {
			m.IsRead = true
		}
	}
	return nil
}

func (f *fakeMessages) CountUnread(_ context.Context, userID int) (int, error) {
	n := 0
	for _, m := range f.messages {
		if m.ReceiverID == userID && !m.IsRead && !m.ReceiverDeleted {
			n++
		}
	}
	return n, nil
}

func (f *fakeMessages) Delete(_ context.Context, id, userID int) error {
	for _, m := range f.messages {
		if m.ID == id && (m.SenderID == userID || m.ReceiverID == userID) {
			m.SenderDeleted = m.SenderDeleted || m.SenderID == userID
			m.ReceiverDeleted = m.ReceiverDeleted || m.ReceiverID == userID
			return nil
		}
	}
	return models.ErrNotFound
}

// memoryCache is a map-backed stand-in for the redis cache.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) GetJSON(_ context.Context, key string, dst interface{}) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (m *memoryCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(value)
	if err == nil {
		m.data[key] = raw
	}
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
}

func (m *memoryCache) DeletePattern(_ context.Context, pattern string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
		}
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, routingKey)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type fakeImageStore struct {
	uploads []string
	deleted []string
}

func (s *fakeImageStore) Upload(_ context.Context, file io.Reader, filename string) (string, string, error) {
	if _, err := io.ReadAll(file); err != nil {
		return "", "", err
	}
	id := "products/" + filename
	s.uploads = append(s.uploads, id)
	return "https://img.example.com/" + id, id, nil
}

func (s *fakeImageStore) Delete(_ context.Context, publicID string) error {
	s.deleted = append(s.deleted, publicID)
	return nil
}
