// Package memory keeps every repository in process memory. It backs DB_DRIVER=memory
// and the use case tests.
package memory

import (
	"context"
	"sync"

	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
)

type state struct {
	categories    map[string]model.Category
	products      map[string]model.Product
	movements     []model.InventoryMovement
	customers     map[string]model.Customer
	users         map[string]model.User
	holdings      map[string]model.AccountHolding
	soldProducts  []model.SoldProduct
	payments      []model.Payment
	sales         map[string]model.Sale
	discounts     map[string]model.Discount
	quotations    map[string]model.Quotation
	sessions      map[string]model.CashRegisterSession
	cashMovements []model.CashMovement
}

func newState() *state {
	return &state{
		categories: map[string]model.Category{},
		products:   map[string]model.Product{},
		customers:  map[string]model.Customer{},
		users:      map[string]model.User{},
		holdings:   map[string]model.AccountHolding{},
		sales:      map[string]model.Sale{},
		discounts:  map[string]model.Discount{},
		quotations: map[string]model.Quotation{},
		sessions:   map[string]model.CashRegisterSession{},
	}
}

func (s *state) clone() *state {
	return &state{
		categories:    cloneMap(s.categories),
		products:      cloneMap(s.products),
		movements:     append([]model.InventoryMovement(nil), s.movements...),
		customers:     cloneMap(s.customers),
		users:         cloneMap(s.users),
		holdings:      cloneMap(s.holdings),
		soldProducts:  append([]model.SoldProduct(nil), s.soldProducts...),
		payments:      append([]model.Payment(nil), s.payments...),
		sales:         cloneMap(s.sales),
		discounts:     cloneMap(s.discounts),
		quotations:    cloneMap(s.quotations),
		sessions:      cloneMap(s.sessions),
		cashMovements: append([]model.CashMovement(nil), s.cashMovements...),
	}
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Store is the shared state behind every repository. Units of work are serialized,
// which stands in for the row locks the SQL repositories take. A unit of work runs on a
// private copy of the state that replaces the shared one on commit, so readers outside it
// only ever see committed data.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data *state
}

func NewStore() *Store {
	return &Store{data: newState()}
}

// PingContext lets the store stand in for a database in health checks.
func (s *Store) PingContext(context.Context) error {
	return nil
}

type txKey struct{}

type unitOfWork struct {
	store *Store
	data  *state
}

// working returns the uncommitted state of the unit of work carried by ctx.
func (s *Store) working(ctx context.Context) (*state, bool) {
	uow, ok := ctx.Value(txKey{}).(*unitOfWork)
	if !ok || uow.store != s {
		return nil, false
	}
	return uow.data, true
}

// WithTx runs fn with exclusive access to the store. Nothing fn wrote is kept when it
// fails or panics.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := s.working(ctx); ok {
		return fn(ctx)
	}

	runHooks, err := s.commit(ctx, fn)
	if err != nil {
		return err
	}
	runHooks(ctx)
	return nil
}

func (s *Store) commit(ctx context.Context, fn func(ctx context.Context) error) (func(ctx context.Context), error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.data.clone()
	s.mu.RUnlock()

	txCtx, runHooks := database.BeginHooks(context.WithValue(ctx, txKey{}, &unitOfWork{store: s, data: work}))
	if err := fn(txCtx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.data = work
	s.mu.Unlock()
	return runHooks, nil
}

func (s *Store) read(ctx context.Context, fn func(d *state)) {
	if d, ok := s.working(ctx); ok {
		fn(d)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

// write applies fn. Outside a unit of work it waits for any running one to finish.
func (s *Store) write(ctx context.Context, fn func(d *state) error) error {
	if d, ok := s.working(ctx); ok {
		return fn(d)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// uniqueViolation reports a duplicate key the way postgres does, so callers using
// database.IsUniqueViolation behave the same against the store.
func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", Severity: "ERROR", ConstraintName: constraint,
		Message: "duplicate key value violates unique constraint \"" + constraint + "\""}
}

func (s *Store) Categories() *CategoryRepository { return &CategoryRepository{s} }
func (s *Store) Products() *ProductRepository { return &ProductRepository{s} }
func (s *Store) Inventory() *InventoryRepository { return &InventoryRepository{s} }
func (s *Store) Discounts() *DiscountRepository { return &DiscountRepository{s} }
func (s *Store) Customers() *CustomerRepository { return &CustomerRepository{s} }
func (s *Store) Users() *UserRepository { return &UserRepository{s} }
func (s *Store) AccountHoldings() *AccountHoldingRepository { return &AccountHoldingRepository{s} }
func (s *Store) SoldProducts() *SoldProductRepository { return &SoldProductRepository{s} }
func (s *Store) Payments() *PaymentRepository { return &PaymentRepository{s} }
func (s *Store) Sales() *SaleRepository { return &SaleRepository{s} }
func (s *Store) Quotations() *QuotationRepository { return &QuotationRepository{s} }
func (s *Store) CashRegister() *CashRegisterRepository { return &CashRegisterRepository{s} }
