package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	migrations "github.com/noah-isme/backend-pos/db/migrations"
	"github.com/noah-isme/backend-pos/internal/offers"
	"github.com/noah-isme/backend-pos/internal/promo"
	"github.com/noah-isme/backend-pos/internal/repo"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	tenantID := strings.TrimSpace(os.Getenv("SEED_TENANT"))
	if tenantID == "" {
		tenantID = "default"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := repo.NewPool(ctx, dbURL, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	if err := repo.RunMigrations(dbURL, migrations.FS); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	store := &offers.Store{Pool: pool}
	for _, offer := range sampleOffers() {
		if err := store.Upsert(ctx, tenantID, offer); err != nil {
			log.Fatalf("Failed to seed offer %s: %v", offer.Name, err)
		}
		log.Printf("Seeded offer %s (%s)", offer.Name, offer.Type)
	}

	log.Println("Seeding completed successfully!")
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func sampleOffers() []promo.Offer {
	now := time.Now().UTC()
	return []promo.Offer{
		{
			ID:           uuid.NewString(),
			Name:         "Storewide 10% Off",
			Type:         promo.TypePercentage,
			Status:       promo.StatusActive,
			ApplicableOn: promo.ScopeAll,
			Value:        dec("10"),
			MaxDiscount:  decPtr("50"),
			StartsAt:     now,
			EndsAt:       now.AddDate(0, 1, 0),
		},
		{
			ID:           uuid.NewString(),
			Name:         "5 Off Orders Over 50",
			Type:         promo.TypeFixed,
			Status:       promo.StatusActive,
			ApplicableOn: promo.ScopeAll,
			Value:        dec("5"),
			MinPurchase:  decPtr("50"),
		},
		{
			ID:           uuid.NewString(),
			Name:         "Beverages 15% Off",
			Type:         promo.TypeCategoryDiscount,
			Status:       promo.StatusActive,
			ApplicableOn: promo.ScopeCategory,
			CategoryID:   "beverages",
			Value:        dec("15"),
		},
		{
			ID:           uuid.NewString(),
			Name:         "Buy 2 Get 1 Free Soda",
			Type:         promo.TypeBuyXGetY,
			Status:       promo.StatusActive,
			ApplicableOn: promo.ScopeProduct,
			ProductIDs:   []string{"soda-can"},
			BuyXGetY: &promo.BuyXGetYRule{
				BuyProductIDs: []string{"soda-can"},
				BuyQty:        2,
				GetQty:        1,
				SameProduct:   true,
				DiscountType:  promo.GrantFree,
			},
		},
		{
			ID:           uuid.NewString(),
			Name:         "Razor and Blade Bundle",
			Type:         promo.TypeBundle,
			Status:       promo.StatusActive,
			ApplicableOn: promo.ScopeProduct,
			ProductIDs:   []string{"razor", "blade-pack"},
			Bundle: &promo.BundleRule{
				ProductIDs:  []string{"razor", "blade-pack"},
				PricingType: promo.BundleFixedPrice,
				Price:       dec("35"),
			},
		},
	}
}
