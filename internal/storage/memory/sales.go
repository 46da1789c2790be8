package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	holdingdto "github.com/fekuna/omnipos-sales-service/internal/accountholding/dto"
	customerdto "github.com/fekuna/omnipos-sales-service/internal/customer/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	paymentdto "github.com/fekuna/omnipos-sales-service/internal/payment/dto"
	saledto "github.com/fekuna/omnipos-sales-service/internal/sale/dto"
	"github.com/shopspring/decimal"
)

type CustomerRepository struct {
	store *Store
}

func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	return r.store.write(ctx, func(d *state) error {
		d.customers[c.ID] = *c
		return nil
	})
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	var out *model.Customer
	r.store.read(ctx, func(d *state) {
		if c, ok := d.customers[id]; ok {
			out = &c
		}
	})
	return out, nil
}

func (r *CustomerRepository) FindAll(ctx context.Context, f *customerdto.CustomerFilters) ([]model.Customer, int, error) {
	search := strings.ToLower(f.SearchQuery)
	var items []model.Customer
	r.store.read(ctx, func(d *state) {
		for _, c := range d.customers {
			if search != "" &&
				!strings.Contains(strings.ToLower(c.Name), search) &&
				!strings.Contains(strings.ToLower(deref(c.Email)), search) &&
				!strings.Contains(deref(c.DocumentNumber), f.SearchQuery) {
				continue
			}
			items = append(items, c)
		}
	})
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return page(items, f.Params)
}

type UserRepository struct {
	store *Store
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	return r.store.write(ctx, func(d *state) error {
		for _, other := range d.users {
			if other.Username == u.Username {
				return uniqueViolation("users_username_key")
			}
		}
		d.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var out *model.User
	r.store.read(ctx, func(d *state) {
		if u, ok := d.users[id]; ok {
			out = &u
		}
	})
	return out, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var out *model.User
	r.store.read(ctx, func(d *state) {
		for _, u := range d.users {
			if u.Username == username {
				u := u
				out = &u
				return
			}
		}
	})
	return out, nil
}

type AccountHoldingRepository struct {
	store *Store
}

func (r *AccountHoldingRepository) Create(ctx context.Context, ah *model.AccountHolding) error {
	return r.store.write(ctx, func(d *state) error {
		d.holdings[ah.ID] = stripHolding(*ah)
		return nil
	})
}

func stripHolding(ah model.AccountHolding) model.AccountHolding {
	ah.Customer = nil
	ah.Products = nil
	ah.Payments = nil
	return ah
}

func (r *AccountHoldingRepository) FindByID(ctx context.Context, id string) (*model.AccountHolding, error) {
	var out *model.AccountHolding
	r.store.read(ctx, func(d *state) {
		if ah, ok := d.holdings[id]; ok {
			out = &ah
		}
	})
	return out, nil
}

// FindByIDForUpdate needs no row lock: units of work on the store are already serialized.
func (r *AccountHoldingRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.AccountHolding, error) {
	return r.FindByID(ctx, id)
}

func (r *AccountHoldingRepository) FindAll(ctx context.Context, f *holdingdto.AccountHoldingFilters) ([]model.AccountHolding, int, error) {
	var items []model.AccountHolding
	r.store.read(ctx, func(d *state) {
		for _, ah := range d.holdings {
			if f.CustomerID != "" && ah.CustomerID != f.CustomerID {
				continue
			}
			if f.Type != "" && string(ah.Type) != f.Type {
				continue
			}
			if f.Status != "" && string(ah.Status) != f.Status {
				continue
			}
			items = append(items, ah)
		}
	})
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.After(items[j].Date)
		}
		return items[i].ID > items[j].ID
	})
	return page(items, f.Params)
}

func (r *AccountHoldingRepository) Update(ctx context.Context, ah *model.AccountHolding) error {
	return r.store.write(ctx, func(d *state) error {
		cur, ok := d.holdings[ah.ID]
		if !ok {
			return nil
		}
		cur.Paid = ah.Paid
		cur.ToPay = ah.ToPay
		cur.Status = ah.Status
		cur.SaleID = ah.SaleID
		cur.UpdatedAt = ah.UpdatedAt
		d.holdings[ah.ID] = cur
		return nil
	})
}

func (r *AccountHoldingRepository) Delete(ctx context.Context, id string) error {
	return r.store.write(ctx, func(d *state) error {
		delete(d.holdings, id)
		return nil
	})
}

type SoldProductRepository struct {
	store *Store
}

func (r *SoldProductRepository) CreateBatch(ctx context.Context, items []model.SoldProduct) error {
	return r.store.write(ctx, func(d *state) error {
		for _, sp := range items {
			sp.Product = nil
			d.soldProducts = append(d.soldProducts, sp)
		}
		return nil
	})
}

func (r *SoldProductRepository) ListByOwner(ctx context.Context, owner model.LineOwner) ([]model.SoldProduct, error) {
	out := []model.SoldProduct{}
	r.store.read(ctx, func(d *state) {
		for _, sp := range d.soldProducts {
			if sp.LineOwner == owner {
				out = append(out, sp)
			}
		}
	})
	return out, nil
}

func (r *SoldProductRepository) Reparent(ctx context.Context, from, to model.LineOwner) (int, error) {
	moved := 0
	err := r.store.write(ctx, func(d *state) error {
		for i := range d.soldProducts {
			if d.soldProducts[i].LineOwner == from {
				d.soldProducts[i].LineOwner = to
				moved++
			}
		}
		return nil
	})
	return moved, err
}

func (r *SoldProductRepository) DeleteByOwner(ctx context.Context, owner model.LineOwner) error {
	return r.store.write(ctx, func(d *state) error {
		kept := d.soldProducts[:0:0]
		for _, sp := range d.soldProducts {
			if sp.LineOwner != owner {
				kept = append(kept, sp)
			}
		}
		d.soldProducts = kept
		return nil
	})
}

type PaymentRepository struct {
	store *Store
}

func (r *PaymentRepository) Create(ctx context.Context, p *model.Payment) error {
	return r.store.write(ctx, func(d *state) error {
		d.payments = append(d.payments, *p)
		return nil
	})
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	var out *model.Payment
	r.store.read(ctx, func(d *state) {
		for _, p := range d.payments {
			if p.ID == id {
				p := p
				out = &p
				return
			}
		}
	})
	return out, nil
}

func (r *PaymentRepository) ListByAccountHolding(ctx context.Context, accountHoldingID string) ([]model.Payment, error) {
	out := []model.Payment{}
	r.store.read(ctx, func(d *state) {
		for _, p := range d.payments {
			if p.AccountHoldingID == accountHoldingID {
				out = append(out, p)
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *PaymentRepository) FindAll(ctx context.Context, f *paymentdto.PaymentFilters) ([]model.Payment, int, error) {
	var items []model.Payment
	r.store.read(ctx, func(d *state) {
		for i := len(d.payments) - 1; i >= 0; i-- {
			p := d.payments[i]
			if f.AccountHoldingID != "" && p.AccountHoldingID != f.AccountHoldingID {
				continue
			}
			if f.CustomerID != "" && p.CustomerID != f.CustomerID {
				continue
			}
			items = append(items, p)
		}
	})
	sort.SliceStable(items, func(i, j int) bool { return items[i].Date.After(items[j].Date) })
	return page(items, f.Params)
}

func (r *PaymentRepository) DeleteByAccountHolding(ctx context.Context, accountHoldingID string) error {
	return r.store.write(ctx, func(d *state) error {
		kept := d.payments[:0:0]
		for _, p := range d.payments {
			if p.AccountHoldingID != accountHoldingID {
				kept = append(kept, p)
			}
		}
		d.payments = kept
		return nil
	})
}

func (r *PaymentRepository) Collected(ctx context.Context, from, to time.Time) (decimal.Decimal, int, error) {
	total, count := decimal.Zero, 0
	r.store.read(ctx, func(d *state) {
		for _, p := range d.payments {
			if p.CreatedAt.Before(from) || p.CreatedAt.After(to) {
				continue
			}
			total = total.Add(p.Amount)
			count++
		}
	})
	return total, count, nil
}

type SaleRepository struct {
	store *Store
}

func (r *SaleRepository) Create(ctx context.Context, s *model.Sale) error {
	return r.store.write(ctx, func(d *state) error {
		if s.AccountHoldingID != nil {
			for _, other := range d.sales {
				if other.AccountHoldingID != nil && *other.AccountHoldingID == *s.AccountHoldingID {
					return uniqueViolation("sales_account_holding_id_key")
				}
			}
		}
		stored := *s
		stored.Products = nil
		d.sales[s.ID] = stored
		return nil
	})
}

func (r *SaleRepository) FindByID(ctx context.Context, id string) (*model.Sale, error) {
	var out *model.Sale
	r.store.read(ctx, func(d *state) {
		if s, ok := d.sales[id]; ok {
			out = &s
		}
	})
	return out, nil
}

func (r *SaleRepository) FindByAccountHolding(ctx context.Context, accountHoldingID string) (*model.Sale, error) {
	var out *model.Sale
	r.store.read(ctx, func(d *state) {
		for _, s := range d.sales {
			if s.AccountHoldingID != nil && *s.AccountHoldingID == accountHoldingID {
				s := s
				out = &s
				return
			}
		}
	})
	return out, nil
}

func (r *SaleRepository) FindAll(ctx context.Context, f *saledto.SaleFilters) ([]model.Sale, int, error) {
	var items []model.Sale
	r.store.read(ctx, func(d *state) {
		for _, s := range d.sales {
			if f.CustomerID != "" && s.CustomerID != f.CustomerID {
				continue
			}
			if f.From != nil && s.Date.Before(*f.From) {
				continue
			}
			if f.To != nil && !s.Date.Before(*f.To) {
				continue
			}
			items = append(items, s)
		}
	})
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.After(items[j].Date)
		}
		return items[i].ID > items[j].ID
	})
	return page(items, f.Params)
}
