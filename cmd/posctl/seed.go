package main

import (
	"encoding/json"
	"fmt"

	"github.com/fekuna/omnipos-sales-service/internal/app"
	catDto "github.com/fekuna/omnipos-sales-service/internal/category/dto"
	"github.com/fekuna/omnipos-sales-service/internal/clock"
	custDto "github.com/fekuna/omnipos-sales-service/internal/customer/dto"
	prodDto "github.com/fekuna/omnipos-sales-service/internal/product/dto"
	userDto "github.com/fekuna/omnipos-sales-service/internal/user/dto"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:     "seed",
	Short:   "Create a cashier, a customer and a small stocked catalog",
	Example: `  posctl seed --prefix DEMO --stock 25`,
	RunE:    runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().String("prefix", "DEMO", "SKU and username prefix")
	seedCmd.Flags().Int("stock", 20, "Initial stock of each product")
}

type seedResult struct {
	UserID     string   `json:"userId"`
	CustomerID string   `json:"customerId"`
	CategoryID string   `json:"categoryId"`
	ProductIDs []string `json:"productIds"`
}

func runSeed(cmd *cobra.Command, args []string) error {
	prefix, _ := cmd.Flags().GetString("prefix")
	stock, _ := cmd.Flags().GetInt("stock")
	ctx := cmd.Context()

	repos, closeDB, err := app.Open(ctx, app.DatabaseConfig(cfg), cfg.Database.AutoMigrate)
	if err != nil {
		return err
	}
	defer closeDB()
	uc := app.NewUseCases(repos, app.Infra{}, clock.NewSystem(), appLogger)

	u, err := uc.Users.CreateUser(ctx, &userDto.CreateUserInput{Name: "Seed Cashier", Username: prefix + "-cashier"})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	c, err := uc.Customers.CreateCustomer(ctx, &custDto.CreateCustomerInput{Name: "Walk-in Customer"})
	if err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	cat, err := uc.Categories.CreateCategory(ctx, &catDto.CreateCategoryInput{Name: prefix + " Groceries"})
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}

	res := seedResult{UserID: u.ID, CustomerID: c.ID, CategoryID: cat.ID}
	for i, item := range []struct {
		name  string
		price string
	}{
		{"Coffee 500g", "8.50"},
		{"Rice 1kg", "2.25"},
		{"Olive Oil 750ml", "11.90"},
	} {
		price := decimal.RequireFromString(item.price)
		p, err := uc.Products.CreateProduct(ctx, &prodDto.CreateProductInput{
			CategoryID:     cat.ID,
			SKU:            fmt.Sprintf("%s-%03d", prefix, i+1),
			Name:           item.name,
			SalePrice:      price,
			WholesalePrice: price.Mul(decimal.RequireFromString("0.9")).Round(2),
			TouristPrice:   price.Mul(decimal.RequireFromString("1.1")).Round(2),
			PurchasePrice:  price.Mul(decimal.RequireFromString("0.6")).Round(2),
			Stock:          stock,
			MinStock:       3,
		})
		if err != nil {
			return fmt.Errorf("create product %s: %w", item.name, err)
		}
		res.ProductIDs = append(res.ProductIDs, p.ID)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
