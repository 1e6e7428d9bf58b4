package models

// SeedItems returns the default catalog inserted into an empty store, in
// insertion order. Each call returns fresh values.
func SeedItems() []*Item {
	return []*Item{
		{
			ID:          "luxury-suit",
			Category:    "Formal Wear",
			Title:       "Bespoke Midnight Suit",
			Description: "A masterfully tailored midnight blue suit crafted from the finest Italian wool. Perfect for high-profile galas and business events.",
			Price:       Price(1200),
			Image:       "https://images.unsplash.com/photo-1594932224456-75a779401e07?auto=format&fit=crop&q=80&w=1000",
			Highlights:  []string{"100% Virgin Wool", "Silk lining", "Slim fit silhouette", "Hand-finished details"},
			IsFeatured:  true,
		},
		{
			ID:          "silk-dress",
			Category:    "Evening Wear",
			Title:       "Emerald Silk Gown",
			Description: "An elegant floor-length gown made from premium mulberry silk. Features a sophisticated drape and a subtle side slit.",
			Price:       Price(850),
			Image:       "https://images.unsplash.com/photo-1539109136881-3be0616acf4b?auto=format&fit=crop&q=80&w=1000",
			Highlights:  []string{"Pure Mulberry Silk", "Bias cut", "Adjustable straps", "Hidden back zipper"},
			IsFeatured:  true,
		},
		{
			ID:          "leather-jacket",
			Category:    "Outerwear",
			Title:       "Vintage Biker Jacket",
			Description: "Authentic top-grain leather jacket with a distressed finish. A timeless piece that adds edge to any outfit.",
			Price:       Price(450),
			Image:       "https://images.unsplash.com/photo-1551028719-00167b16eac5?auto=format&fit=crop&q=80&w=1000",
			Highlights:  []string{"Top-grain Leather", "Quilted lining", "Heavy-duty YKK zippers", "Functional pockets"},
			IsFeatured:  true,
		},
		{
			ID:          "streetwear-hoodie",
			Category:    "Casual",
			Title:       "Urban Oversized Hoodie",
			Description: "Heavyweight cotton hoodie with a modern oversized fit and minimalist branding.",
			Price:       Price(120),
			Image:       "https://images.unsplash.com/photo-1556821840-3a63f95609a7?auto=format&fit=crop&q=80&w=1000",
			Highlights:  []string{"400GSM Cotton", "Dropped shoulders", "Brushed interior", "Sustainability sourced"},
			IsFeatured:  true,
		},
		{
			ID:          "designer-sneakers",
			Category:    "Footwear",
			Title:       "Aero-Step Sneakers",
			Description: "Cutting-edge footwear combining futuristic design with exceptional comfort. Lightweight and durable.",
			Price:       Price(320),
			Image:       "https://images.unsplash.com/photo-1552346154-21d32810aba3?auto=format&fit=crop&q=80&w=1000",
			Highlights:  []string{"Breathable mesh upper", "Responsive foam sole", "Reflective accents", "Ergonomic fit"},
			IsFeatured:  true,
		},
		{
			ID:          "trench-coat",
			Category:    "Outerwear",
			Title:       "Classic Camel Trench",
			Description: "The quintessential trench coat in a versatile camel shade. Water-resistant and perfect for layering.",
			Price:       Price(580),
			Image:       "https://images.unsplash.com/photo-1591047139829-d91aecb6caea?auto=format&fit=crop&q=80&w=1000",
			Highlights:  []string{"Cotton Gabardine", "Double-breasted", "Removable belt", "Storm flaps"},
			IsFeatured:  false,
		},
	}
}
