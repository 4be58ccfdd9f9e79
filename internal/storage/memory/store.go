// Package memory implements every repository on in-process maps. A
// transaction holds the store lock for its whole duration and restores a
// snapshot when it fails, so concurrent callers never observe partial writes.
package memory

import (
	"context"
	"sync"

	"github.com/Emmanuel-365/chezflora-api/internal/model"
)

type txKey struct{}

type state struct {
	users         map[string]model.User
	categories    map[string]model.Category
	products      map[string]model.Product
	promotions    map[string]model.Promotion
	photos        map[string]model.Photo
	carts         map[string]model.Cart
	cartLines     map[string]model.CartLine
	orders        map[string]model.Order
	payments      []model.Payment
	subscriptions map[string]model.Subscription
	quotes        map[string]model.Quote
	workshops     map[string]model.Workshop
	participants  map[string]model.Participant
}

func newState() *state {
	return &state{
		users:         map[string]model.User{},
		categories:    map[string]model.Category{},
		products:      map[string]model.Product{},
		promotions:    map[string]model.Promotion{},
		photos:        map[string]model.Photo{},
		carts:         map[string]model.Cart{},
		cartLines:     map[string]model.CartLine{},
		orders:        map[string]model.Order{},
		subscriptions: map[string]model.Subscription{},
		quotes:        map[string]model.Quote{},
		workshops:     map[string]model.Workshop{},
		participants:  map[string]model.Participant{},
	}
}

func copyMap[K comparable, V any](in map[K]V, clone func(V) V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		if clone != nil {
			v = clone(v)
		}
		out[k] = v
	}
	return out
}

func (s *state) clone() *state {
	return &state{
		users:         copyMap(s.users, nil),
		categories:    copyMap(s.categories, nil),
		products:      copyMap(s.products, nil),
		promotions:    copyMap(s.promotions, clonePromotion),
		photos:        copyMap(s.photos, nil),
		carts:         copyMap(s.carts, nil),
		cartLines:     copyMap(s.cartLines, nil),
		orders:        copyMap(s.orders, cloneOrder),
		payments:      append([]model.Payment(nil), s.payments...),
		subscriptions: copyMap(s.subscriptions, cloneSubscription),
		quotes:        copyMap(s.quotes, nil),
		workshops:     copyMap(s.workshops, nil),
		participants:  copyMap(s.participants, nil),
	}
}

func clonePromotion(p model.Promotion) model.Promotion {
	p.ProductIDs = append([]string(nil), p.ProductIDs...)
	return p
}

func cloneOrder(o model.Order) model.Order {
	o.Lines = append([]model.OrderLine(nil), o.Lines...)
	return o
}

func cloneSubscription(s model.Subscription) model.Subscription {
	s.Items = append([]model.SubscriptionItem(nil), s.Items...)
	return s
}

type Store struct {
	mu sync.RWMutex
	st *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

// WithTransaction implements storage.TxManager.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// read and write take the store lock unless the caller's transaction
// already holds it.
func (s *Store) read(ctx context.Context, fn func(st *state)) {
	if !inTx(ctx) {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	fn(s.st)
}

func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if !inTx(ctx) {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.st)
}

func (s *Store) Users() *Users                 { return &Users{s} }
func (s *Store) Catalog() *Catalog             { return &Catalog{s} }
func (s *Store) Carts() *Carts                 { return &Carts{s} }
func (s *Store) Orders() *Orders               { return &Orders{s} }
func (s *Store) Payments() *Payments           { return &Payments{s} }
func (s *Store) Subscriptions() *Subscriptions { return &Subscriptions{s} }
func (s *Store) Quotes() *Quotes               { return &Quotes{s} }
func (s *Store) Workshops() *Workshops         { return &Workshops{s} }

// SaveUser seeds an account. Accounts are owned by the authentication service
// in production.
func (s *Store) SaveUser(u model.User) {
	_ = s.write(context.Background(), func(st *state) error {
		st.users[u.ID] = u
		return nil
	})
}
