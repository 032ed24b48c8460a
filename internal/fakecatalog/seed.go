package fakecatalog

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/catalogcheck/internal/catalog"
)

const seedTimestamp = "2024-05-23T08:56:21.618Z"

// category is a seed category. Slugs are listed in catalog order.
type category struct {
	slug string
	name string
}

var seedCategories = []category{
	{"beauty", "Beauty"},
	{"fragrances", "Fragrances"},
	{"furniture", "Furniture"},
	{"groceries", "Groceries"},
	{"laptops", "Laptops"},
	{"mobile-accessories", "Mobile Accessories"},
	{"smartphones", "Smartphones"},
	{"tablets", "Tablets"},
}

// seedRow is one product before extended fields are derived.
// An empty brand leaves the extended field absent.
type seedRow struct {
	category    string
	title       string
	brand       string
	price       float64
	description string
}

// Titles are deliberately not in collation order by id, so an ignored
// sortBy is observable. Every row that mentions "phone" in its title also
// mentions it in its description.
var seedRows = []seedRow{
	{"beauty", "Essence Mascara Lash Princess", "Essence", 9.99, "Volumizing and lengthening mascara with a long-lasting formula."},
	{"beauty", "Eyeshadow Palette with Mirror", "Glamour Beauty", 19.99, "Versatile shades with a built-in mirror for touch-ups on the go."},
	{"beauty", "Powder Canister", "Velvet Touch", 14.99, "Finely milled setting powder for a smooth, matte finish."},
	{"beauty", "Red Lipstick", "Chic Cosmetics", 12.99, "Classic red lipstick with a creamy, long-wearing texture."},
	{"fragrances", "Calvin Klein CK One", "Calvin Klein", 49.99, "A clean, contemporary unisex fragrance."},
	{"fragrances", "Chanel Coco Noir Eau De", "Chanel", 129.99, "An elegant and mysterious evening fragrance."},
	{"fragrances", "Dior J'adore", "Dior", 89.99, "A luxurious floral bouquet."},
	{"furniture", "Annibale Colombo Bed", "Annibale Colombo", 1899.99, "A luxurious bed frame crafted with premium materials."},
	{"furniture", "Wooden Bathroom Sink With Mirror", "Bath Trends", 799.99, "A stylish bathroom sink with an integrated mirror."},
	{"furniture", "Knoll Saarinen Executive Conference Chair", "Knoll", 499.99, "A modern conference chair with a sleek design."},
	{"groceries", "Apple", "", 1.99, "Fresh and crisp apples."},
	{"groceries", "Cucumber", "", 1.49, "Crisp and hydrating cucumbers, ideal for salads."},
	{"groceries", "Beef Steak", "", 12.99, "High-quality beef steak for grilling."},
	{"groceries", "Milk", "", 3.49, "Fresh whole milk."},
	{"groceries", "Honey Jar", "", 6.99, "Pure, raw honey from local beekeepers."},
	{"laptops", "Lenovo Yoga 920", "Lenovo", 1099.99, "A 2-in-1 convertible laptop with a sharp touch display."},
	{"laptops", "Apple MacBook Pro 14 Inch Space Grey", "Apple", 1999.99, "A powerful laptop for professionals."},
	{"laptops", "Huawei Matebook X Pro", "Huawei", 1399.99, "A slim ultrabook with a stunning display."},
	{"laptops", "Asus Zenbook Pro Dual Screen Laptop", "Asus", 1799.99, "A dual-screen laptop for creators."},
	{"mobile-accessories", "Wireless Phone Charger", "Anker", 29.99, "Charges any Qi-enabled phone without cables."},
	{"mobile-accessories", "Apple AirPods Max Silver", "Apple", 549.99, "Over-ear headphones with active noise cancellation for your phone and laptop."},
	{"mobile-accessories", "Phone Holder for Cars", "iOttie", 19.99, "Keeps your phone secure on the dashboard."},
	{"mobile-accessories", "Beats Flex Wireless Earphones", "Beats", 49.99, "Wireless earphones with magnetic earbuds that pair with any phone."},
	{"smartphones", "iPhone 13 Pro", "Apple", 1099.99, "A flagship phone with a ProMotion display."},
	{"smartphones", "Samsung Galaxy S10", "Samsung", 699.99, "A capable Android phone with a triple camera."},
	{"smartphones", "Oppo A57", "Oppo", 249.99, "An affordable phone with a long-lasting battery."},
	{"smartphones", "Vivo X21", "Vivo", 299.99, "A phone with an in-display fingerprint sensor."},
	{"smartphones", "Realme XT", "Realme", 349.99, "A phone with a 64MP quad camera."},
	{"smartphones", "iPhone X", "Apple", 899.99, "A phone with an edge-to-edge display."},
	{"tablets", "iPad Mini 2021 Starlight", "Apple", 499.99, "A compact tablet with a vivid display."},
	{"tablets", "Samsung Galaxy Tab S8 Plus Grey", "Samsung", 599.99, "A large tablet for work and play."},
	{"tablets", "Samsung Galaxy Tab White", "Samsung", 349.99, "An everyday tablet for streaming and browsing."},
	{"beauty", "Nail Polish", "Nail Couture", 8.99, "Glossy nail polish in a vibrant color."},
	{"fragrances", "Gucci Bloom Eau de", "Gucci", 79.99, "A rich white floral scent."},
	{"furniture", "Bedside Table African Cherry", "Furniture Co.", 299.99, "An elegant bedside table with a drawer."},
	{"groceries", "Kiwi", "", 2.49, "Nutrient-rich kiwi fruit."},
}

var availability = []string{"In Stock", "Low Stock", "Out of Stock"}

// seedProducts derives full products from seedRows. All derived values are
// functions of the id so the catalog is identical on every start.
func seedProducts() []catalog.Product {
	products := make([]catalog.Product, 0, len(seedRows))
	for i, row := range seedRows {
		id := int64(i + 1)
		p := catalog.Product{
			ID:       id,
			Title:    row.title,
			Category: row.category,
			Price:    row.price,

			Description:          catalog.String(row.description),
			DiscountPercentage:   catalog.Float(round2(float64(id*37%1900) / 100)),
			Rating:               catalog.Float(round2(2.5 + float64(id*13%250)/100)),
			Stock:                catalog.Int(id * 7 % 100),
			Tags:                 []string{row.category, strings.ToLower(strings.Fields(row.title)[0])},
			SKU:                  catalog.String(fmt.Sprintf("SKU-%s-%04d", strings.ToUpper(row.category[:3]), id)),
			Weight:               catalog.Float(float64(1 + id%9)),
			Dimensions:           &catalog.Dimensions{Width: round2(10 + float64(id)*0.73), Height: round2(5 + float64(id)*0.41), Depth: round2(2 + float64(id)*0.29)},
			WarrantyInformation:  catalog.String(fmt.Sprintf("%d month warranty", 1+id%12)),
			ShippingInformation:  catalog.String(fmt.Sprintf("Ships in %d business days", 1+id%7)),
			AvailabilityStatus:   catalog.String(availability[id%int64(len(availability))]),
			ReturnPolicy:         catalog.String("30 days return policy"),
			MinimumOrderQuantity: catalog.Int(1 + id%10),
			Reviews: []catalog.Review{{
				Rating:        float64(1 + id%5),
				Comment:       "Would buy again!",
				Date:          seedTimestamp,
				ReviewerName:  "Reviewer " + fmt.Sprint(id),
				ReviewerEmail: fmt.Sprintf("reviewer.%d@example.com", id),
			}},
			Meta: &catalog.Meta{
				CreatedAt: seedTimestamp,
				UpdatedAt: seedTimestamp,
				Barcode:   catalog.String(fmt.Sprintf("%013d", 9164035109868+id)),
			},
			Thumbnail: catalog.String(fmt.Sprintf("https://cdn.catalog.test/products/%d/thumbnail.webp", id)),
			Images:    []string{fmt.Sprintf("https://cdn.catalog.test/products/%d/1.webp", id)},
		}
		if row.brand != "" {
			p.Brand = catalog.String(row.brand)
		}
		products = append(products, p)
	}
	return products
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
