package registration

import "glsalliance/models"

// exportCategories is the product catalog offered to importer/exporter profiles.
var exportCategories = []models.ExportCategory{
	{
		ID:    "apparel-exporters-in-sri-lanka",
		Label: "Apparel & Textiles",
		Subcategories: []string{
			"Knitted garments",
			"Woven garments",
			"Sportswear / Activewear",
			"Lingerie & intimate apparel",
			"Children’s wear",
			"Workwear / uniforms",
		},
	},
	{
		ID:    "ayurvedic-herbal",
		Label: "Ayurvedic & Herbal Products",
		Subcategories: []string{
			"Ayurvedic medicines",
			"Herbal cosmetics & skin care",
			"Herbal food supplements",
			"Herbal teas & beverages",
			"Essential oils & extracts",
		},
	},
	{
		ID:    "boat-ship-building-exporters-in-sri-lanka",
		Label: "Boat and Ship Building",
		Subcategories: []string{
			"Leisure boats",
			"Fishing boats",
			"Patrol / service craft",
			"Boat repair & maintenance",
		},
	},
	{
		ID:    "ceramics-porcelain-products-manufacturers",
		Label: "Ceramics & Porcelain Products",
		Subcategories: []string{
			"Tableware",
			"Tiles",
			"Sanitary ware",
			"Ornamental ceramics",
		},
	},
	{
		ID:    "chemicals-and-plastic-products-exporters",
		Label: "Chemicals & Plastic Products",
		Subcategories: []string{
			"Industrial chemicals",
			"Paints & coatings",
			"Plastics raw material",
			"Plastic household items",
			"Plastic packaging",
		},
	},
	{
		ID:    "coconut-product-exporters-in-sri-lanka",
		Label: "Coconut & Coconut based Products",
		Subcategories: []string{
			"Desiccated coconut",
			"Virgin coconut oil",
			"Coconut milk / cream",
			"Coconut water",
			"Coconut based snacks",
			"Coconut fibre & coir products",
		},
	},
	{
		ID:    "floriculture-exporters-in-sri-lanka",
		Label: "Cut Flowers & Foliage",
		Subcategories: []string{
			"Fresh cut flowers",
			"Potted plants",
			"Foliage & greens",
			"Tissue-culture plants",
		},
	},
	{
		ID:    "gem-diamond-and-jewellery-exporters-in-sri-lanka",
		Label: "Diamonds, Gems & Jewellery",
		Subcategories: []string{
			"Loose gemstones",
			"Diamond jewellery",
			"Gold jewellery",
			"Silver jewellery",
			"Custom jewellery design",
		},
	},
	{
		ID:    "electrical-electronic-products-exporters-in-sri-lanka",
		Label: "Electrical and Electronic Products",
		Subcategories: []string{
			"Automatic data processing machines",
			"Cables & wiring",
			"Electrical switchgear & panels",
			"Household electrical appliances",
			"Electronic components & assemblies",
		},
	},
	{
		ID:    "engineering-products-exporters-in-sri-lanka",
		Label: "Engineering Products",
		Subcategories: []string{
			"Machinery & equipment",
			"Metal fabrications",
			"Agricultural machinery",
			"Precision engineering components",
		},
	},
	{
		ID:    "fish-fisheries-product-exporters-in-sri-lanka",
		Label: "Fish & Fisheries Products",
		Subcategories: []string{
			"Fresh fish",
			"Frozen fish",
			"Canned fish",
			"Processed seafood",
			"Value-added seafood products",
		},
	},
	{
		ID:    "food-and-beverages-exporters-in-sri-lanka",
		Label: "Food, Feed & Beverages",
		Subcategories: []string{
			"Processed food",
			"Confectionery & bakery products",
			"Ready-to-eat meals",
			"Animal feed",
			"Non-alcoholic beverages",
		},
	},
	{
		ID:    "footwear-parts-exporters-in-sri-lanka",
		Label: "Footwear and Parts",
		Subcategories: []string{
			"Leather footwear",
			"Rubber / synthetic footwear",
			"Industrial safety shoes",
			"Soles & footwear components",
		},
	},
	{
		ID:    "fruits-nuts-vegetables-exporters-in-sri-lanka",
		Label: "Fruits, Nuts and Vegetables",
		Subcategories: []string{
			"Fresh fruits",
			"Fresh vegetables",
			"Processed fruit products",
			"Dried fruits",
			"Nuts & kernels",
		},
	},
	{
		ID:    "giftware-and-toys-exporters-in-sri-lanka",
		Label: "Giftware & Toys",
		Subcategories: []string{
			"Handicrafts",
			"Wooden toys",
			"Soft toys",
			"Corporate gifts",
			"Souvenirs",
		},
	},
	{
		ID:    "leather-products-exporters-in-sri-lanka",
		Label: "Leather Products",
		Subcategories: []string{
			"Leather bags & accessories",
			"Leather garments",
			"Small leather goods",
			"Leather industrial products",
		},
	},
	{
		ID:    "light-engineering-services-sri-lanka",
		Label: "Light Engineering Products",
		Subcategories: []string{
			"Metalworking services",
			"Fabrication & welding",
			"Tooling & dies",
			"Light machinery",
		},
	},
	{
		ID:    "non-metallic-mineral-products-exporters-in-sri-lanka",
		Label: "Non-metallic Mineral Products",
		Subcategories: []string{
			"Industrial minerals",
			"Mineral-based chemicals",
			"Processed mineral products",
		},
	},
	{
		ID:    "organic-products-exporters-in-sri-lanka",
		Label: "Organic Products",
		Subcategories: []string{
			"Organic spices",
			"Organic tea",
			"Organic coconut products",
			"Organic fruits & vegetables",
		},
	},
	{
		ID:    "aquarium-fish",
		Label: "Ornamental Fish",
		Subcategories: []string{
			"Freshwater ornamental fish",
			"Marine ornamental fish",
			"Aquarium plants",
			"Aquarium accessories & equipment",
		},
	},
	{
		ID:    "other-export-crops-exporters-in-sri-lanka",
		Label: "Other Export Crops",
		Subcategories: []string{
			"Minor export crops",
			"Herbs & botanicals",
			"Specialty crop products",
		},
	},
	{
		ID:    "other-products-exporters-in-sri-lanka",
		Label: "Other Manufactured Products",
		Subcategories: []string{
			"Household goods",
			"Stationery & office items",
			"Miscellaneous manufactured items",
		},
	},
	{
		ID:    "ppe",
		Label: "Personal Protective Equipment (PPE)",
		Subcategories: []string{
			"Face masks",
			"Gloves",
			"Protective clothing",
			"Hospital & medical PPE",
			"Industrial PPE",
		},
	},
	{
		ID:    "printing-and-stationery-exporters-in-sri-lanka",
		Label: "Printing, Prepress and Packaging",
		Subcategories: []string{
			"Flexible packaging",
			"Cartons & boxes",
			"Labels & stickers",
			"Books & publications",
			"Commercial printing",
		},
	},
	{
		ID:    "rubber-exporters-in-sri-lanka",
		Label: "Rubber & Rubber Based Products",
		Subcategories: []string{
			"Industrial rubber products",
			"Rubber tyres & tubes",
			"Rubber gloves",
			"Rubber mats & floor coverings",
			"Technical rubber components",
		},
	},
	{
		ID:    "spices-exporters-in-sri-lanka",
		Label: "Spices, Essential Oils & Oleoresins",
		Subcategories: []string{
			"Cinnamon",
			"Pepper",
			"Cloves",
			"Cardamom",
			"Nutmeg & mace",
			"Spice mixes",
			"Essential oils & oleoresins",
		},
	},
	{
		ID:    "tea-exporters-in-sri-lanka",
		Label: "Tea",
		Subcategories: []string{
			"Bulk black tea",
			"Bulk green tea",
			"Packeted tea",
			"Tea bags",
			"Specialty / flavoured tea",
		},
	},
	{
		ID:    "tobacco-exporters-in-sri-lanka",
		Label: "Tobacco",
		Subcategories: []string{
			"Raw tobacco",
			"Processed tobacco",
			"Cigarettes",
			"Other tobacco products",
		},
	},
	{
		ID:    "wooden-product-exporters-in-sri-lanka",
		Label: "Wood & Wooden Products",
		Subcategories: []string{
			"Sawn timber",
			"Furniture & joinery",
			"Wooden household items",
			"Wooden toys & gift items",
		},
	},
}
