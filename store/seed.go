package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Vznu7/one-piece-web-application/apperrors"
	"github.com/Vznu7/one-piece-web-application/models"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	email, name, password string
	role                  models.Role
}

var seedUsers = []seedUser{
	{"admin@onemorpiece.com", "Admin User", "admin123", models.RoleAdmin},
	{"demo@example.com", "Demo Customer", "demo123", models.RoleCustomer},
}

var (
	topSizes    = models.StringList{"S", "M", "L", "XL"}
	teeSizes    = models.StringList{"S", "M", "L", "XL", "XXL"}
	waistSizes  = models.StringList{"28", "30", "32", "34", "36"}
	singleSizes = models.StringList{string(models.SizeFree)}
)

// Catalogue is the starter product range.
func Catalogue() []models.Product {
	return []models.Product{
		{Slug: "midnight-crew-shirt", Name: "Midnight Crew Shirt", Category: "shirts", Price: decimal.NewFromInt(2499), Sizes: topSizes, Images: models.StringList{"placeholder-1.jpg"}, InStock: true, Featured: true,
			Description: "A sharp, tailored button-down in midnight black. Breathable cotton with subtle stretch."},
		{Slug: "essential-cargo-pants", Name: "Essential Cargo Pants", Category: "pants", Price: decimal.NewFromInt(3499), Sizes: waistSizes, Images: models.StringList{"placeholder-2.jpg"}, InStock: true, Featured: true,
			Description: "Modern cargo pants with a clean silhouette, utility pockets and a tapered fit."},
		{Slug: "signature-tee-black", Name: "Signature Tee - Black", Category: "t-shirts", Price: decimal.NewFromInt(1299), Sizes: teeSizes, Images: models.StringList{"placeholder-3.jpg"}, InStock: true,
			Description: "Heavyweight cotton tee in black."},
		{Slug: "minimalist-leather-wallet", Name: "Minimalist Leather Wallet", Category: "accessories", Price: decimal.NewFromInt(1999), Sizes: singleSizes, Images: models.StringList{"placeholder-4.jpg"}, InStock: true,
			Description: "Slim full-grain leather card wallet."},
		{Slug: "oxford-dress-shirt-white", Name: "Oxford Dress Shirt - White", Category: "shirts", Price: decimal.NewFromInt(2799), Sizes: topSizes, Images: models.StringList{"placeholder-5.jpg"}, InStock: true,
			Description: "Crisp white oxford weave with a button-down collar."},
		{Slug: "slim-fit-chinos-khaki", Name: "Slim Fit Chinos - Khaki", Category: "pants", Price: decimal.NewFromInt(2999), Sizes: waistSizes, Images: models.StringList{"placeholder-6.jpg"}, InStock: true,
			Description: "Stretch cotton chinos with a slim leg."},
		{Slug: "signature-tee-white", Name: "Signature Tee - White", Category: "t-shirts", Price: decimal.NewFromInt(1299), Sizes: teeSizes, Images: models.StringList{"placeholder-7.jpg"}, InStock: true,
			Description: "Heavyweight cotton tee in white."},
		{Slug: "canvas-tote-bag", Name: "Canvas Tote Bag", Category: "accessories", Price: decimal.NewFromInt(1499), Sizes: singleSizes, Images: models.StringList{"placeholder-8.jpg"}, InStock: true,
			Description: "Heavy canvas tote with an inner pocket."},
	}
}

// Seed creates the starter users and catalogue. Existing rows are kept, so
// running it twice is harmless.
func Seed(ctx context.Context, s Store) error {
	log.Println("🌱 Seeding database...")

	for _, su := range seedUsers {
		if _, err := s.GetUserByEmail(ctx, su.email); err == nil {
			continue
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		u := &models.User{Email: su.email, Name: su.name, PasswordHash: string(hash), Role: su.role}
		if err := s.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", su.email, err)
		}
		log.Printf("✅ Created %s user: %s", su.role, u.Email)
	}

	for _, p := range Catalogue() {
		if err := s.UpsertProduct(ctx, &p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.Slug, err)
		}
		log.Printf("✅ Product ready: %s", p.Name)
	}

	log.Println("🎉 Database seeding completed")
	return nil
}
