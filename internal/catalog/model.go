package catalog

// ProductsKey is the wire name of the items key in product listings.
const ProductsKey = "products"

// DefaultPageSize is the page size the API applies when no limit is given.
const DefaultPageSize = 30

// Product is a catalog item.
// Core fields are plain values; extended fields are pointers or slices
// and stay nil when the API omits them.
type Product struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`

	Description          *string     `json:"description,omitempty"`
	DiscountPercentage   *float64    `json:"discountPercentage,omitempty"`
	Rating               *float64    `json:"rating,omitempty"`
	Stock                *int64      `json:"stock,omitempty"`
	Tags                 []string    `json:"tags,omitempty"`
	Brand                *string     `json:"brand,omitempty"`
	SKU                  *string     `json:"sku,omitempty"`
	Weight               *float64    `json:"weight,omitempty"`
	Dimensions           *Dimensions `json:"dimensions,omitempty"`
	WarrantyInformation  *string     `json:"warrantyInformation,omitempty"`
	ShippingInformation  *string     `json:"shippingInformation,omitempty"`
	AvailabilityStatus   *string     `json:"availabilityStatus,omitempty"`
	Reviews              []Review    `json:"reviews,omitempty"`
	ReturnPolicy         *string     `json:"returnPolicy,omitempty"`
	MinimumOrderQuantity *int64      `json:"minimumOrderQuantity,omitempty"`
	Meta                 *Meta       `json:"meta,omitempty"`
	Thumbnail            *string     `json:"thumbnail,omitempty"`
	Images               []string    `json:"images,omitempty"`
}

// Dimensions is the physical size of a product.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// Review is a single customer review.
type Review struct {
	Rating        float64 `json:"rating"`
	Comment       string  `json:"comment"`
	Date          string  `json:"date"`
	ReviewerName  string  `json:"reviewerName"`
	ReviewerEmail string  `json:"reviewerEmail"`
}

// Meta carries bookkeeping timestamps and optional codes.
type Meta struct {
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
	Barcode   *string `json:"barcode,omitempty"`
	QRCode    *string `json:"qrCode,omitempty"`
}

// Category is a catalog grouping. Slug is the key used by
// category-filtered listings.
type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ListResponse is the pagination envelope. Items is serialized under an
// entity-specific key, so the struct is only used for decoding through
// ProductList.
type ListResponse[T any] struct {
	Items []T
	Total int64
	Skip  int64
	Limit int64
}

// ProductList is the wire form of ListResponse[Product].
type ProductList struct {
	Products []Product `json:"products"`
	Total    int64     `json:"total"`
	Skip     int64     `json:"skip"`
	Limit    int64     `json:"limit"`
}

// Envelope converts the wire form into the generic envelope.
func (l ProductList) Envelope() ListResponse[Product] {
	return ListResponse[Product]{
		Items: l.Products,
		Total: l.Total,
		Skip:  l.Skip,
		Limit: l.Limit,
	}
}

// DeletedProduct is the response of a simulated delete.
type DeletedProduct struct {
	Product
	IsDeleted bool   `json:"isDeleted"`
	DeletedOn string `json:"deletedOn"`
}

// NotFound is the documented error body for unknown identifiers.
type NotFound struct {
	Message string `json:"message"`
}

// ProductPayload is a partial product submitted to add or update.
// Nil fields are not sent.
type ProductPayload struct {
	Title       *string  `json:"title,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Description *string  `json:"description,omitempty"`
	Brand       *string  `json:"brand,omitempty"`
	Stock       *int64   `json:"stock,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Fields returns the submitted fields keyed by their JSON name.
// Simulation scenarios compare these against the echoed response.
func (p ProductPayload) Fields() map[string]any {
	out := make(map[string]any)
	if p.Title != nil {
		out["title"] = *p.Title
	}
	if p.Price != nil {
		out["price"] = *p.Price
	}
	if p.Category != nil {
		out["category"] = *p.Category
	}
	if p.Description != nil {
		out["description"] = *p.Description
	}
	if p.Brand != nil {
		out["brand"] = *p.Brand
	}
	if p.Stock != nil {
		out["stock"] = *p.Stock
	}
	if p.Tags != nil {
		out["tags"] = append([]string(nil), p.Tags...)
	}
	return out
}

// String returns a pointer to s. Convenience for building payloads.
func String(s string) *string { return &s }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }

// Int returns a pointer to i.
func Int(i int64) *int64 { return &i }
