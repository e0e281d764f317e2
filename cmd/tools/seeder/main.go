package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = conn.Close(ctx) }()

	seedCheckouts(ctx, conn)
	seedFeeTables(ctx, conn)
	seedAffiliates(ctx, conn)
	seedPartners(ctx, conn)

	log.Println("Seeding completed successfully!")
}

func seedCheckouts(ctx context.Context, conn *pgx.Conn) {
	checkouts := []struct {
		ID               string
		TenantID         string
		MaxInstallments  int
		FeePassedToBuyer bool
		PixDiscountBps   int64
		Model            string
	}{
		{"chk-demo-pix", "tnt-acme", 12, true, 500, "last_click"},
		{"chk-demo-card", "tnt-acme", 12, true, 0, "last_click"},
		{"chk-demo-first", "tnt-umbrella", 6, false, 1000, "first_click"},
	}

	log.Println("Seeding checkout settings...")
	for _, c := range checkouts {
		_, err := conn.Exec(ctx, `
			INSERT INTO checkout_settings (checkout_id, tenant_id, max_installments, fee_passed_to_buyer, pix_discount_bps, attribution_model)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (checkout_id) DO UPDATE SET
				max_installments = EXCLUDED.max_installments,
				fee_passed_to_buyer = EXCLUDED.fee_passed_to_buyer,
				pix_discount_bps = EXCLUDED.pix_discount_bps,
				attribution_model = EXCLUDED.attribution_model,
				updated_at = now();
		`, c.ID, c.TenantID, c.MaxInstallments, c.FeePassedToBuyer, c.PixDiscountBps, c.Model)
		if err != nil {
			log.Printf("Failed to seed checkout %s: %v", c.ID, err)
		}
	}
}

func seedFeeTables(ctx context.Context, conn *pgx.Conn) {
	fees := map[int]int64{
		2: 299, 3: 429, 4: 559, 5: 689, 6: 819,
		7: 949, 8: 1079, 9: 1209, 10: 1339, 11: 1469, 12: 1599,
	}

	log.Println("Seeding installment fee tables...")
	for _, checkoutID := range []string{"chk-demo-pix", "chk-demo-card", "chk-demo-first"} {
		for n, bps := range fees {
			_, err := conn.Exec(ctx, `
				INSERT INTO installment_fees (checkout_id, installments, fee_bps)
				VALUES ($1, $2, $3)
				ON CONFLICT (checkout_id, installments) DO UPDATE SET fee_bps = EXCLUDED.fee_bps;
			`, checkoutID, n, bps)
			if err != nil {
				log.Printf("Failed to seed fee %d for %s: %v", n, checkoutID, err)
			}
		}
	}
}

func seedAffiliates(ctx context.Context, conn *pgx.Conn) {
	links := []struct {
		CheckoutID  string
		AffiliateID string
		Kind        string
		PercentBps  int64
		FixedCents  int64
	}{
		{"chk-demo-pix", "aff-blog-maria", "percentage", 1000, 0},
		{"chk-demo-card", "aff-blog-maria", "percentage", 1000, 0},
		{"chk-demo-card", "aff-youtube-joao", "fixed", 0, 700},
		{"chk-demo-first", "aff-insta-clara", "percentage", 1500, 0},
	}

	log.Println("Seeding affiliate links...")
	for _, l := range links {
		_, err := conn.Exec(ctx, `
			INSERT INTO affiliate_links (checkout_id, affiliate_id, commission_kind, percent_bps, fixed_cents)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (checkout_id, affiliate_id) DO UPDATE SET
				commission_kind = EXCLUDED.commission_kind,
				percent_bps = EXCLUDED.percent_bps,
				fixed_cents = EXCLUDED.fixed_cents;
		`, l.CheckoutID, l.AffiliateID, l.Kind, l.PercentBps, l.FixedCents)
		if err != nil {
			log.Printf("Failed to seed affiliate %s: %v", l.AffiliateID, err)
		}
	}
}

func seedPartners(ctx context.Context, conn *pgx.Conn) {
	terms := []struct {
		CheckoutID string
		Party      string
		Kind       string
		PercentBps int64
		FixedCents int64
	}{
		{"chk-demo-card", "industry", "fixed", 0, 500},
		{"chk-demo-card", "coproducer", "percentage", 300, 0},
		{"chk-demo-first", "factory", "percentage", 800, 0},
	}

	log.Println("Seeding partner terms...")
	for _, t := range terms {
		_, err := conn.Exec(ctx, `
			INSERT INTO partner_terms (checkout_id, party_kind, commission_kind, percent_bps, fixed_cents)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (checkout_id, party_kind) DO UPDATE SET
				commission_kind = EXCLUDED.commission_kind,
				percent_bps = EXCLUDED.percent_bps,
				fixed_cents = EXCLUDED.fixed_cents;
		`, t.CheckoutID, t.Party, t.Kind, t.PercentBps, t.FixedCents)
		if err != nil {
			log.Printf("Failed to seed partner %s/%s: %v", t.CheckoutID, t.Party, err)
		}
	}
}
