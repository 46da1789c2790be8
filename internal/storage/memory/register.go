package memory

import (
	"context"
	"sort"

	cashdto "github.com/fekuna/omnipos-sales-service/internal/cashregister/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	quotationdto "github.com/fekuna/omnipos-sales-service/internal/quotation/dto"
)

type QuotationRepository struct {
	store *Store
}

func (r *QuotationRepository) Create(ctx context.Context, q *model.Quotation) error {
	return r.store.write(ctx, func(d *state) error {
		stored := *q
		stored.Customer = nil
		stored.Products = nil
		d.quotations[q.ID] = stored
		return nil
	})
}

func (r *QuotationRepository) FindByID(ctx context.Context, id string) (*model.Quotation, error) {
	var out *model.Quotation
	r.store.read(ctx, func(d *state) {
		if q, ok := d.quotations[id]; ok {
			out = &q
		}
	})
	return out, nil
}

func (r *QuotationRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.Quotation, error) {
	return r.FindByID(ctx, id)
}

func (r *QuotationRepository) FindAll(ctx context.Context, f *quotationdto.QuotationFilters) ([]model.Quotation, int, error) {
	var items []model.Quotation
	r.store.read(ctx, func(d *state) {
		for _, q := range d.quotations {
			if f.CustomerID != "" && q.CustomerID != f.CustomerID {
				continue
			}
			if f.Status != "" && string(q.Status) != f.Status {
				continue
			}
			items = append(items, q)
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

func (r *QuotationRepository) Update(ctx context.Context, q *model.Quotation) error {
	return r.store.write(ctx, func(d *state) error {
		cur, ok := d.quotations[q.ID]
		if !ok {
			return nil
		}
		if q.AccountHoldingID != nil {
			for _, other := range d.quotations {
				if other.ID != q.ID && other.AccountHoldingID != nil && *other.AccountHoldingID == *q.AccountHoldingID {
					return uniqueViolation("quotations_account_holding_id_key")
				}
			}
		}
		cur.Status = q.Status
		cur.AccountHoldingID = q.AccountHoldingID
		cur.UpdatedAt = q.UpdatedAt
		d.quotations[q.ID] = cur
		return nil
	})
}

type CashRegisterRepository struct {
	store *Store
}

func (r *CashRegisterRepository) Create(ctx context.Context, s *model.CashRegisterSession) error {
	return r.store.write(ctx, func(d *state) error {
		if s.Status == model.CashSessionOpen {
			for _, other := range d.sessions {
				if other.Status == model.CashSessionOpen {
					return uniqueViolation("uq_cash_register_sessions_open")
				}
			}
		}
		stored := *s
		stored.Movements = nil
		d.sessions[s.ID] = stored
		return nil
	})
}

func (r *CashRegisterRepository) FindByID(ctx context.Context, id string) (*model.CashRegisterSession, error) {
	var out *model.CashRegisterSession
	r.store.read(ctx, func(d *state) {
		if s, ok := d.sessions[id]; ok {
			out = &s
		}
	})
	return out, nil
}

func (r *CashRegisterRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.CashRegisterSession, error) {
	return r.FindByID(ctx, id)
}

func (r *CashRegisterRepository) FindOpen(ctx context.Context) (*model.CashRegisterSession, error) {
	var out *model.CashRegisterSession
	r.store.read(ctx, func(d *state) {
		for _, s := range d.sessions {
			if s.Status == model.CashSessionOpen {
				s := s
				out = &s
				return
			}
		}
	})
	return out, nil
}

func (r *CashRegisterRepository) FindAll(ctx context.Context, f *cashdto.SessionFilters) ([]model.CashRegisterSession, int, error) {
	var items []model.CashRegisterSession
	r.store.read(ctx, func(d *state) {
		for _, s := range d.sessions {
			if f.UserID != "" && s.UserID != f.UserID {
				continue
			}
			if f.Status != "" && string(s.Status) != f.Status {
				continue
			}
			items = append(items, s)
		}
	})
	sort.Slice(items, func(i, j int) bool {
		if !items[i].OpenedAt.Equal(items[j].OpenedAt) {
			return items[i].OpenedAt.After(items[j].OpenedAt)
		}
		return items[i].ID > items[j].ID
	})
	return page(items, f.Params)
}

func (r *CashRegisterRepository) Close(ctx context.Context, s *model.CashRegisterSession) error {
	return r.store.write(ctx, func(d *state) error {
		cur, ok := d.sessions[s.ID]
		if !ok {
			return nil
		}
		cur.Expected = s.Expected
		cur.Counted = s.Counted
		cur.Difference = s.Difference
		cur.Deviation = s.Deviation
		cur.Status = s.Status
		cur.Notes = s.Notes
		cur.ClosedAt = s.ClosedAt
		cur.UpdatedAt = s.UpdatedAt
		d.sessions[s.ID] = cur
		return nil
	})
}

func (r *CashRegisterRepository) AddMovement(ctx context.Context, m *model.CashMovement) error {
	return r.store.write(ctx, func(d *state) error {
		d.cashMovements = append(d.cashMovements, *m)
		return nil
	})
}

func (r *CashRegisterRepository) ListMovements(ctx context.Context, sessionID string) ([]model.CashMovement, error) {
	out := []model.CashMovement{}
	r.store.read(ctx, func(d *state) {
		for _, m := range d.cashMovements {
			if m.SessionID == sessionID {
				out = append(out, m)
			}
		}
	})
	return out, nil
}
