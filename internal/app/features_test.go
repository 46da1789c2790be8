package app_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/fekuna/omnipos-sales-service/internal/accountholding/dto"
	"github.com/fekuna/omnipos-sales-service/internal/app"
	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/broker"
	"github.com/fekuna/omnipos-sales-service/internal/clock"
	custDto "github.com/fekuna/omnipos-sales-service/internal/customer/dto"
	invDto "github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	payDto "github.com/fekuna/omnipos-sales-service/internal/payment/dto"
	prodDto "github.com/fekuna/omnipos-sales-service/internal/product/dto"
	"github.com/fekuna/omnipos-sales-service/internal/storage/memory"
	userDto "github.com/fekuna/omnipos-sales-service/internal/user/dto"
	"github.com/shopspring/decimal"
)

type lifecycleContext struct {
	ctx       context.Context
	uc        *app.UseCases
	events    *broker.Recorder
	customers map[string]string
	userID    string
	products  map[string]string
	holding   *model.AccountHolding
	payment   *payDto.PaymentResult
	err       error
}

func (c *lifecycleContext) reset() {
	rec := broker.NewRecorder()
	repos := app.MemoryRepositories(memory.NewStore())
	c.ctx = context.Background()
	c.uc = app.NewUseCases(repos, app.Infra{Publisher: rec},
		clock.NewFixed(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)), logger.NewNop())
	c.events = rec
	c.customers = map[string]string{}
	c.userID = ""
	c.products = map[string]string{}
	c.holding = nil
	c.payment = nil
	c.err = nil
}

func (c *lifecycleContext) aCustomer(name string) error {
	cust, err := c.uc.Customers.CreateCustomer(c.ctx, &custDto.CreateCustomerInput{Name: name})
	if err != nil {
		return err
	}
	c.customers[name] = cust.ID
	return nil
}

func (c *lifecycleContext) aCashier(username string) error {
	u, err := c.uc.Users.CreateUser(c.ctx, &userDto.CreateUserInput{Name: username, Username: username})
	if err != nil {
		return err
	}
	c.userID = u.ID
	return nil
}

func (c *lifecycleContext) aProductPricedWithStock(sku, price string, stock int) error {
	amount, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	p, err := c.uc.Products.CreateProduct(c.ctx, &prodDto.CreateProductInput{
		SKU:            sku,
		Name:           sku,
		SalePrice:      amount,
		WholesalePrice: amount,
		TouristPrice:   amount,
		PurchasePrice:  amount,
		Stock:          stock,
	})
	if err != nil {
		return err
	}
	c.products[sku] = p.ID
	return nil
}

func (c *lifecycleContext) productIsAdjustedBy(sku string, change int) error {
	_, err := c.uc.Inventory.AdjustStock(c.ctx, &invDto.AdjustStockInput{
		ProductID:      c.products[sku],
		QuantityChange: change,
		Reason:         "recount",
	})
	return err
}

func (c *lifecycleContext) theCashierOpens(opType, customer string, qty int, sku string) error {
	c.holding, c.err = c.uc.AccountHoldings.CreateAccountHolding(c.ctx, &dto.CreateAccountHoldingInput{
		CustomerID: c.customers[customer],
		UserID:     c.userID,
		Type:       opType,
		Products:   []dto.LineItemInput{{ProductID: c.products[sku], Quantity: qty, PriceType: "SALE"}},
	})
	return nil
}

func (c *lifecycleContext) theCashierOpened(opType, customer string, qty int, sku string) error {
	_ = c.theCashierOpens(opType, customer, qty, sku)
	return c.err
}

func (c *lifecycleContext) customerPays(customer, amount string) error {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}
	if c.holding == nil {
		return errors.New("no account holding was opened")
	}
	c.payment, c.err = c.uc.Payments.CreatePayment(c.ctx, &payDto.CreatePaymentInput{
		Amount:           value,
		AccountHoldingID: c.holding.ID,
		CustomerID:       c.customers[customer],
	})
	return nil
}

func (c *lifecycleContext) customerPaid(customer, amount string) error {
	if err := c.customerPays(customer, amount); err != nil {
		return err
	}
	return c.err
}

func (c *lifecycleContext) theCashierCancelsTheReservation() error {
	if c.holding == nil {
		return errors.New("no account holding was opened")
	}
	_, c.err = c.uc.AccountHoldings.CancelReservation(c.ctx, c.holding.ID)
	return nil
}

func (c *lifecycleContext) theOperationSucceeds() error {
	if c.err != nil {
		return fmt.Errorf("expected success but got: %v", c.err)
	}
	return nil
}

func (c *lifecycleContext) theOperationFailsWith(kind string) error {
	if c.err == nil {
		return errors.New("expected the operation to fail but it succeeded")
	}
	if got := apperror.KindOf(c.err).String(); got != kind {
		return fmt.Errorf("expected %s, got %s (%v)", kind, got, c.err)
	}
	return nil
}

func (c *lifecycleContext) theErrorMessageIs(msg string) error {
	if got := apperror.PublicMessage(c.err); got != msg {
		return fmt.Errorf("expected message %q, got %q", msg, got)
	}
	return nil
}

func (c *lifecycleContext) current() (*model.AccountHolding, error) {
	if c.holding == nil {
		return nil, errors.New("no account holding was opened")
	}
	return c.uc.AccountHoldings.GetAccountHolding(c.ctx, c.holding.ID)
}

func equalAmount(name string, got decimal.Decimal, want string) error {
	w, err := decimal.NewFromString(want)
	if err != nil {
		return err
	}
	if !got.Equal(w) {
		return fmt.Errorf("expected %s %s, got %s", name, want, got.StringFixed(2))
	}
	return nil
}

func (c *lifecycleContext) theHoldingTotalIs(total string) error {
	ah, err := c.current()
	if err != nil {
		return err
	}
	return equalAmount("total", ah.Total, total)
}

func (c *lifecycleContext) theHoldingStatusIs(status string) error {
	ah, err := c.current()
	if err != nil {
		return err
	}
	if string(ah.Status) != status {
		return fmt.Errorf("expected status %s, got %s", status, ah.Status)
	}
	return nil
}

func (c *lifecycleContext) theHoldingHasLeftToPay(amount string) error {
	ah, err := c.current()
	if err != nil {
		return err
	}
	return equalAmount("to pay", ah.ToPay, amount)
}

func (c *lifecycleContext) theHoldingNoLongerExists() error {
	_, err := c.current()
	if !apperror.Is(err, apperror.KindNotFound) {
		return fmt.Errorf("expected not found, got %v", err)
	}
	return nil
}

func (c *lifecycleContext) productHasStockAndReserved(sku string, stock, reserved int) error {
	p, err := c.uc.Products.GetProduct(c.ctx, c.products[sku])
	if err != nil {
		return err
	}
	if p.Stock != stock || p.ReservedStock != reserved {
		return fmt.Errorf("expected %d in stock and %d reserved, got %d and %d", stock, reserved, p.Stock, p.ReservedStock)
	}
	return nil
}

func (c *lifecycleContext) saleWithTotal(total string) error {
	if c.payment == nil || c.payment.Sale == nil {
		return errors.New("no sale was created")
	}
	s := c.payment.Sale
	if !s.TotalWithoutIVA.Add(s.TotalIVA).Equal(s.TotalWithIVA) {
		return fmt.Errorf("sale totals do not add up: %s + %s != %s", s.TotalWithoutIVA, s.TotalIVA, s.TotalWithIVA)
	}
	return equalAmount("sale total", s.TotalWithIVA, total)
}

func (c *lifecycleContext) theSaleOwnsLineItems(n int) error {
	if c.payment == nil || c.payment.Sale == nil {
		return errors.New("no sale was created")
	}
	s, err := c.uc.Sales.GetSale(c.ctx, c.payment.Sale.ID)
	if err != nil {
		return err
	}
	if len(s.Products) != n {
		return fmt.Errorf("expected %d line items, got %d", n, len(s.Products))
	}
	return nil
}

func (c *lifecycleContext) aSaleFinalizedEventWasPublished() error {
	if n := len(c.events.Events("SaleFinalized")); n != 1 {
		return fmt.Errorf("expected 1 SaleFinalized event, got %d", n)
	}
	return nil
}

func (c *lifecycleContext) theChangeIs(amount string) error {
	if c.payment == nil {
		return errors.New("no payment was made")
	}
	return equalAmount("change", c.payment.Change, amount)
}

func (c *lifecycleContext) thePaymentsAddUpTo(amount string) error {
	ah, err := c.current()
	if err != nil {
		return err
	}
	sum := decimal.Zero
	for _, p := range ah.Payments {
		sum = sum.Add(p.Amount)
	}
	if !sum.Equal(ah.Paid) {
		return fmt.Errorf("payments sum to %s but paid is %s", sum, ah.Paid)
	}
	return equalAmount("payments", sum, amount)
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	lc := &lifecycleContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		lc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a customer "([^"]*)"$`, lc.aCustomer)
	ctx.Step(`^a cashier "([^"]*)"$`, lc.aCashier)
	ctx.Step(`^a product "([^"]*)" priced (\d+\.\d+) with (\d+) units in stock$`, lc.aProductPricedWithStock)
	ctx.Step(`^product "([^"]*)" is adjusted by (-?\d+) units$`, lc.productIsAdjustedBy)
	ctx.Step(`^the cashier opened an? (ACCOUNT|HOLDING) for "([^"]*)" with (\d+) units of "([^"]*)"$`, lc.theCashierOpened)
	ctx.Step(`^"([^"]*)" paid (\d+\.\d+)$`, lc.customerPaid)

	// When steps
	ctx.Step(`^the cashier opens an? (ACCOUNT|HOLDING) for "([^"]*)" with (\d+) units of "([^"]*)"$`, lc.theCashierOpens)
	ctx.Step(`^"([^"]*)" pays (\d+\.\d+)$`, lc.customerPays)
	ctx.Step(`^the cashier cancels the reservation$`, lc.theCashierCancelsTheReservation)

	// Then steps
	ctx.Step(`^the operation succeeds$`, lc.theOperationSucceeds)
	ctx.Step(`^the operation fails with "([^"]*)"$`, lc.theOperationFailsWith)
	ctx.Step(`^the error message is "([^"]*)"$`, lc.theErrorMessageIs)
	ctx.Step(`^the holding total is (\d+\.\d+)$`, lc.theHoldingTotalIs)
	ctx.Step(`^the holding status is (\w+)$`, lc.theHoldingStatusIs)
	ctx.Step(`^the holding has (\d+\.\d+) left to pay$`, lc.theHoldingHasLeftToPay)
	ctx.Step(`^the holding no longer exists$`, lc.theHoldingNoLongerExists)
	ctx.Step(`^product "([^"]*)" has (\d+) in stock and (\d+) reserved$`, lc.productHasStockAndReserved)
	ctx.Step(`^a sale exists with total (\d+\.\d+) including IVA$`, lc.saleWithTotal)
	ctx.Step(`^the sale owns (\d+) line items$`, lc.theSaleOwnsLineItems)
	ctx.Step(`^a SaleFinalized event was published$`, lc.aSaleFinalizedEventWasPublished)
	ctx.Step(`^the change is (\d+\.\d+)$`, lc.theChangeIs)
	ctx.Step(`^the payments add up to (\d+\.\d+)$`, lc.thePaymentsAddUpTo)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
