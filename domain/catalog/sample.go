package catalog

// Categories offered by the catalogue filter, "All" first.
var Categories = []string{AllCategories, "Phones", "Laptops", "Accessories", "Audio"}

// AllCategories disables the category filter.
const AllCategories = "All"

var sampleProducts = []Product{
	{ID: "t1", Name: "Aurora Smartphone", Category: "Phones", Price: 799.99, StockQuantity: 25, Image: "https://via.placeholder.com/400x300?text=Aurora+Phone", Description: "6.5in OLED, 128GB"},
	{ID: "t2", Name: "Nimbus Phone Mini", Category: "Phones", Price: 499.00, StockQuantity: 40, Image: "https://via.placeholder.com/400x300?text=Nimbus+Mini", Description: "Compact 5.4in phone"},
	{ID: "t3", Name: "Zephyr Laptop 14", Category: "Laptops", Price: 1249.50, StockQuantity: 12, Image: "https://via.placeholder.com/400x300?text=Zephyr+14", Description: "14in ultrabook, 16GB RAM"},
	{ID: "t4", Name: "Atlas Workstation 16", Category: "Laptops", Price: 1899.00, StockQuantity: 5, Image: "https://via.placeholder.com/400x300?text=Atlas+16", Description: "16in creator laptop"},
	{ID: "t5", Name: "Pulse Wireless Earbuds", Category: "Audio", Price: 129.99, StockQuantity: 80, Image: "https://via.placeholder.com/400x300?text=Pulse+Earbuds", Description: "Noise cancelling earbuds"},
	{ID: "t6", Name: "Echo Studio Headphones", Category: "Audio", Price: 249.00, StockQuantity: 30, Image: "https://via.placeholder.com/400x300?text=Echo+Studio", Description: "Over-ear headphones"},
	{ID: "t7", Name: "Volt USB-C Charger", Category: "Accessories", Price: 29.99, StockQuantity: 150, Image: "https://via.placeholder.com/400x300?text=Volt+Charger", Description: "65W GaN charger"},
	{ID: "t8", Name: "Orbit Phone Case", Category: "Accessories", Price: 19.50, StockQuantity: 200, Image: "https://via.placeholder.com/400x300?text=Orbit+Case", Description: "Shockproof case"},
	{ID: "t9", Name: "Drift Laptop Sleeve", Category: "Accessories", Price: 39.00, StockQuantity: 60, Image: "https://via.placeholder.com/400x300?text=Drift+Sleeve", Description: "Fits 13-14in laptops"},
	{ID: "t10", Name: "Boom Portable Speaker", Category: "Audio", Price: 89.95, StockQuantity: 45, Image: "https://via.placeholder.com/400x300?text=Boom+Speaker", Description: "Waterproof speaker"},
}

// SampleProducts returns a fresh copy of the bundled catalogue used when the
// backend cannot be reached.
func SampleProducts() []Product {
	out := make([]Product, len(sampleProducts))
	copy(out, sampleProducts)
	return out
}

// FindProduct looks a product up by id.
func FindProduct(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
