package services

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"buildmart-storefront/internal/filters"
	"buildmart-storefront/internal/models"
	"buildmart-storefront/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errFakeMiss = errors.New("cache miss")

type fakeCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	setErr error
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = b
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	b, ok := c.data[key]
	c.mu.Unlock()
	if !ok {
		return errFakeMiss
	}
	return json.Unmarshal(b, dest)
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type publishedEvent struct {
	topic string
	key   string
	value interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, topic, key string, value interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{topic: topic, key: key, value: value})
	return p.err
}

func (p *fakePublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.topic
	}
	return out
}

type stateKey struct {
	profile uuid.UUID
	name    string
}

type fakeStateRepo struct {
	mu      sync.Mutex
	data    map[stateKey][]byte
	saves   int
	saveErr error
}

func newFakeStateRepo() *fakeStateRepo { return &fakeStateRepo{data: map[stateKey][]byte{}} }

func (r *fakeStateRepo) Load(_ context.Context, profileID uuid.UUID, name string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data[stateKey{profileID, name}], nil
}

func (r *fakeStateRepo) Save(_ context.Context, profileID uuid.UUID, name string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.data[stateKey{profileID, name}] = append([]byte(nil), payload...)
	r.saves++
	return nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*models.Product
	listed   int
}

func newFakeProductRepo(products ...models.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[string]*models.Product{}}
	for i := range products {
		p := products[i]
		r.products[p.ID] = &p
	}
	return r
}

func (r *fakeProductRepo) Upsert(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := product.Clone()
	r.products[p.ID] = &p
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := p.Clone()
	return &c, nil
}

func (r *fakeProductRepo) ListAll(_ context.Context) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listed++
	out := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.Status != "inactive" {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeProductRepo) UpdateRating(_ context.Context, id string, average float64, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.AverageRating = &average
	p.ReviewCount = &count
	return nil
}

func (r *fakeProductRepo) ReserveStock(_ context.Context, id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.Stock < quantity {
		return repositories.ErrStockUnavailable
	}
	p.Stock -= quantity
	return nil
}

func (r *fakeProductRepo) ReleaseStock(_ context.Context, id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.Stock += quantity
	return nil
}

func (r *fakeProductRepo) stock(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id].Stock
}

type fakeCategoryRepo struct {
	categories []models.Category
}

func (r *fakeCategoryRepo) Upsert(_ context.Context, category *models.Category) error {
	r.categories = append(r.categories, *category)
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id string) (*models.Category, error) {
	for i := range r.categories {
		if r.categories[i].ID == id {
			c := r.categories[i]
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeCategoryRepo) ListAll(_ context.Context) ([]models.Category, error) {
	return append([]models.Category(nil), r.categories...), nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders []models.Order
	err    error
}

func (r *fakeOrderRepo) Create(_ context.Context, order *models.Order) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, *order)
	return nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].ID == id {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].ID == id {
			o := r.orders[i]
			return &o, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeOrderRepo) GetByUserID(_ context.Context, userID uuid.UUID, offset, limit int) ([]models.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var mine []models.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			mine = append(mine, o)
		}
	}
	page, _, _ := filters.Paginate(mine, offset/limit+1, limit)
	return page, int64(len(mine)), nil
}

type fakeAddressRepo struct {
	addresses []*models.Address
}

func (r *fakeAddressRepo) Create(_ context.Context, address *models.Address) error {
	a := *address
	r.addresses = append(r.addresses, &a)
	return nil
}

func (r *fakeAddressRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Address, error) {
	for _, a := range r.addresses {
		if a.ID == id {
			c := *a
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeAddressRepo) GetByUserID(_ context.Context, userID uuid.UUID, offset, limit int) ([]models.Address, int64, error) {
	var mine []models.Address
	for _, a := range r.addresses {
		if a.UserID == userID {
			mine = append(mine, *a)
		}
	}
	page, _, _ := filters.Paginate(mine, offset/limit+1, limit)
	return page, int64(len(mine)), nil
}

func (r *fakeAddressRepo) GetDefault(_ context.Context, userID uuid.UUID) (*models.Address, error) {
	for _, a := range r.addresses {
		if a.UserID == userID && a.IsDefault {
			c := *a
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeAddressRepo) Update(_ context.Context, address *models.Address) error {
	for i, a := range r.addresses {
		if a.ID == address.ID {
			c := *address
			r.addresses[i] = &c
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeAddressRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, a := range r.addresses {
		if a.ID == id {
			r.addresses = append(r.addresses[:i], r.addresses[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeAddressRepo) UnsetDefaultAddresses(_ context.Context, userID uuid.UUID) error {
	for _, a := range r.addresses {
		if a.UserID == userID {
			a.IsDefault = false
		}
	}
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo { return &fakeUserRepo{users: map[uuid.UUID]*models.User{}} }

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	u := *user
	r.users[u.ID] = &u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	u := *user
	r.users[u.ID] = &u
	return nil
}

type fakeReviewRepo struct {
	reviews []models.Review
}

func (r *fakeReviewRepo) Create(_ context.Context, review *models.Review) error {
	r.reviews = append(r.reviews, *review)
	return nil
}

func (r *fakeReviewRepo) GetByProductID(_ context.Context, productID string, offset, limit int) ([]models.Review, int64, error) {
	var out []models.Review
	for i := len(r.reviews) - 1; i >= 0; i-- {
		if r.reviews[i].ProductID == productID {
			out = append(out, r.reviews[i])
		}
	}
	page, _, _ := filters.Paginate(out, offset/limit+1, limit)
	return page, int64(len(out)), nil
}

func (r *fakeReviewRepo) Stats(_ context.Context, productID string) (repositories.ReviewStats, error) {
	var sum, n int
	for _, rv := range r.reviews {
		if rv.ProductID == productID {
			sum += rv.Rating
			n++
		}
	}
	if n == 0 {
		return repositories.ReviewStats{}, nil
	}
	return repositories.ReviewStats{Average: float64(sum) / float64(n), Count: n}, nil
}

type fakeInquiryRepo struct {
	inquiries []models.Inquiry
}

func (r *fakeInquiryRepo) Create(_ context.Context, inquiry *models.Inquiry) error {
	r.inquiries = append(r.inquiries, *inquiry)
	return nil
}

func (r *fakeInquiryRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Inquiry, error) {
	for i := range r.inquiries {
		if r.inquiries[i].ID == id {
			q := r.inquiries[i]
			return &q, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeInquiryRepo) GetByUserID(_ context.Context, userID uuid.UUID, offset, limit int) ([]models.Inquiry, int64, error) {
	var mine []models.Inquiry
	for _, q := range r.inquiries {
		if q.UserID == userID {
			mine = append(mine, q)
		}
	}
	page, _, _ := filters.Paginate(mine, offset/limit+1, limit)
	return page, int64(len(mine)), nil
}

// storefront wires every service over in-memory fakes.
type storefront struct {
	products  *fakeProductRepo
	states    *fakeStateRepo
	orders    *fakeOrderRepo
	addresses *fakeAddressRepo
	users     *fakeUserRepo
	reviews   *fakeReviewRepo
	cache     *fakeCache
	publisher *fakePublisher

	catalog  *CatalogService
	carts    *CartService
	wishlist *WishlistService
	checkout *OrderService
	review   *ReviewService
	address  *AddressService
}

var testTopics = Topics{Orders: "order_events", Carts: "cart_events", Catalog: "catalog_events"}

func newStorefront(products ...models.Product) *storefront {
	logger := zap.NewNop()
	s := &storefront{
		products:  newFakeProductRepo(products...),
		states:    newFakeStateRepo(),
		orders:    &fakeOrderRepo{},
		addresses: &fakeAddressRepo{},
		users:     newFakeUserRepo(),
		reviews:   &fakeReviewRepo{},
		cache:     newFakeCache(),
		publisher: &fakePublisher{},
	}
	categories := &fakeCategoryRepo{categories: []models.Category{
		{ID: "cement", Name: "시멘트", Order: 1},
		{ID: "tile", Name: "타일", Order: 2},
	}}

	s.catalog = NewCatalogService(s.products, categories, s.cache, filters.NewPipeline("ko", 12), time.Minute, logger)
	s.carts = NewCartService(s.states, s.catalog, s.cache, ShippingPolicy{Fee: 15000, FreeShippingThreshold: 50000}, logger)
	s.wishlist = NewWishlistService(s.states, s.catalog, logger)
	s.checkout = NewOrderService(s.orders, s.addresses, s.products, s.carts, s.catalog, s.publisher, testTopics, logger)
	s.review = NewReviewService(s.reviews, s.products, s.orders, s.users, s.catalog, logger)
	s.address = NewAddressService(s.addresses)
	return s
}

func catalogProduct(id, categoryID string, price int64, stock int) models.Product {
	return models.Product{
		ID:         id,
		Name:       "product " + id,
		Price:      price,
		CategoryID: categoryID,
		Stock:      stock,
		Status:     "active",
		CreatedAt:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *fakeProductRepo) listCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listed
}
