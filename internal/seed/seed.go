package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"petrugs-storefront/internal/domain"
)

type categoryWriter interface {
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}

type productWriter interface {
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}

// Categories returns the demo category set.
func Categories() []domain.Category {
	return []domain.Category{
		{Name: "Dog Rugs", Slug: "dog-rugs", Description: "Durable, washable rugs for dogs of every size", ImageURL: "/images/categories/dog-rugs.jpg", SortOrder: 0, IsActive: true},
		{Name: "Cat Rugs", Slug: "cat-rugs", Description: "Soft scratch-friendly rugs for cats", ImageURL: "/images/categories/cat-rugs.jpg", SortOrder: 1, IsActive: true},
		{Name: "Small Pets", Slug: "small-pets", Description: "Cage liners and mats for rabbits and guinea pigs", ImageURL: "/images/categories/small-pets.jpg", SortOrder: 2, IsActive: true},
		{Name: "Outdoor Mats", Slug: "outdoor-mats", Description: "Weatherproof mats for porches and kennels", ImageURL: "/images/categories/outdoor-mats.jpg", SortOrder: 3, IsActive: true},
		{Name: "Seasonal", Slug: "seasonal", Description: "Limited holiday editions", SortOrder: 4, IsActive: false},
	}
}

type productSeed struct {
	category  string
	name      string
	slug      string
	short     string
	price     string
	salePrice string
	stock     int
	featured  bool
	active    bool
}

var productSeeds = []productSeed{
	{"dog-rugs", "Bone Pattern Rug", "bone-pattern-rug", "Classic bone print, machine washable", "39.99", "29.99", 24, true, true},
	{"dog-rugs", "Paw Print Runner", "paw-print-runner", "Long hallway runner with paw prints", "54.00", "", 12, true, true},
	{"dog-rugs", "Memory Foam Crate Mat", "memory-foam-crate-mat", "Orthopedic foam sized for crates", "64.50", "", 8, false, true},
	{"dog-rugs", "Chew-Proof Kennel Pad", "chew-proof-kennel-pad", "Ballistic nylon for determined chewers", "72.00", "59.00", 5, false, true},
	{"dog-rugs", "Muddy Paws Door Mat", "muddy-paws-door-mat", "Microfiber mat that traps mud and water", "27.95", "", 40, true, true},
	{"cat-rugs", "Fish Bone Mat", "fish-bone-mat", "Playful fish skeleton shape", "24.99", "", 30, true, true},
	{"cat-rugs", "Sisal Scratch Rug", "sisal-scratch-rug", "Natural sisal weave for scratching", "34.00", "27.20", 18, false, true},
	{"cat-rugs", "Whisker Lounge Rug", "whisker-lounge-rug", "Plush round rug for sunny windows", "44.00", "", 9, true, true},
	{"cat-rugs", "Litter Trap Mat", "litter-trap-mat", "Honeycomb mat that catches litter", "19.99", "", 55, false, true},
	{"small-pets", "Bunny Hay Mat", "bunny-hay-mat", "Woven hay mat safe for nibbling", "14.50", "", 20, false, true},
	{"small-pets", "Fleece Cage Liner", "fleece-cage-liner", "Absorbent fleece liner, set of two", "22.00", "18.00", 16, true, true},
	{"outdoor-mats", "All-Weather Porch Mat", "all-weather-porch-mat", "UV-resistant polypropylene", "49.00", "", 14, false, true},
	{"outdoor-mats", "Cooling Gel Mat", "cooling-gel-mat", "Pressure-activated cooling for hot days", "45.99", "39.99", 11, true, true},
	{"outdoor-mats", "Kennel Grid Mat", "kennel-grid-mat", "Raised grid keeps paws dry", "58.00", "", 7, false, true},
	{"seasonal", "Holiday Plaid Rug", "holiday-plaid-rug", "Retired holiday edition", "29.00", "", 0, false, false},
}

var seedEpoch = time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

// Products returns the demo products. Each product references its category
// by slug through Category; CreatedAt is spaced one day apart in list order.
func Products() []domain.Product {
	cats := map[string]domain.Category{}
	for _, c := range Categories() {
		cats[c.Slug] = c
	}
	out := make([]domain.Product, 0, len(productSeeds))
	for i, s := range productSeeds {
		p := domain.Product{
			Name:             s.name,
			Slug:             s.slug,
			ShortDescription: s.short,
			Description:      s.short + ". Sized and tested by our rug workshop.",
			SKU:              fmt.Sprintf("PR-%03d", i+1),
			Price:            decimal.RequireFromString(s.price),
			Images:           []string{"/images/products/" + s.slug + ".jpg"},
			StockQuantity:    s.stock,
			IsFeatured:       s.featured,
			IsActive:         s.active,
			Category:         &domain.CategoryRef{Name: cats[s.category].Name, Slug: s.category},
			CreatedAt:        seedEpoch.Add(time.Duration(i) * 24 * time.Hour),
		}
		if s.salePrice != "" {
			sale := decimal.RequireFromString(s.salePrice)
			p.SalePrice = &sale
		}
		out = append(out, p)
	}
	return out
}

// Apply upserts the demo catalog. It is idempotent: categories and products
// are keyed by slug.
func Apply(ctx context.Context, categories categoryWriter, products productWriter) error {
	ids := map[string]string{}
	for _, c := range Categories() {
		saved, err := categories.Upsert(ctx, c)
		if err != nil {
			return fmt.Errorf("upsert category %s: %w", c.Slug, err)
		}
		ids[c.Slug] = saved.ID
	}
	for _, p := range Products() {
		p.CategoryID = ids[p.Category.Slug]
		if _, err := products.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Slug, err)
		}
	}
	return nil
}
