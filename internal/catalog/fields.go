package catalog

// Kind is the JSON type a field must carry.
type Kind int

const (
	KindInteger Kind = iota
	KindNumber
	KindString
	KindBool
	KindStringList
	KindObject
	KindObjectList
)

// String returns the name used in violation messages.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindStringList:
		return "array of string"
	case KindObject:
		return "object"
	case KindObjectList:
		return "array of object"
	default:
		return "unknown"
	}
}

// Rule is a value constraint applied after the type check.
type Rule int

const (
	RuleNone Rule = iota
	RulePositive
	RuleNonNegative
	RuleNonEmpty
)

// String returns the name used in violation messages.
func (r Rule) String() string {
	switch r {
	case RulePositive:
		return "> 0"
	case RuleNonNegative:
		return ">= 0"
	case RuleNonEmpty:
		return "non-empty"
	default:
		return ""
	}
}

// Field describes one key of an entity on the wire.
type Field struct {
	Name string
	Kind Kind
	// Core fields must always be present. Extended fields are only
	// type-checked when present.
	Core bool
	Rule Rule
	// Fields is the element schema for KindObject and KindObjectList.
	Fields []Field
}

// DimensionsFields is the schema of Product.dimensions.
var DimensionsFields = []Field{
	{Name: "width", Kind: KindNumber, Core: true},
	{Name: "height", Kind: KindNumber, Core: true},
	{Name: "depth", Kind: KindNumber, Core: true},
}

// ReviewFields is the schema of one Product.reviews entry.
var ReviewFields = []Field{
	{Name: "rating", Kind: KindNumber, Core: true},
	{Name: "comment", Kind: KindString, Core: true},
	{Name: "date", Kind: KindString, Core: true},
	{Name: "reviewerName", Kind: KindString, Core: true},
	{Name: "reviewerEmail", Kind: KindString, Core: true},
}

// MetaFields is the schema of Product.meta.
var MetaFields = []Field{
	{Name: "createdAt", Kind: KindString, Core: true},
	{Name: "updatedAt", Kind: KindString, Core: true},
	{Name: "barcode", Kind: KindString},
	{Name: "qrCode", Kind: KindString},
}

// ProductFields is the Product contract.
var ProductFields = []Field{
	{Name: "id", Kind: KindInteger, Core: true, Rule: RulePositive},
	{Name: "title", Kind: KindString, Core: true, Rule: RuleNonEmpty},
	{Name: "category", Kind: KindString, Core: true},
	{Name: "price", Kind: KindNumber, Core: true, Rule: RuleNonNegative},

	{Name: "description", Kind: KindString},
	{Name: "discountPercentage", Kind: KindNumber},
	{Name: "rating", Kind: KindNumber},
	{Name: "stock", Kind: KindInteger},
	{Name: "tags", Kind: KindStringList},
	{Name: "brand", Kind: KindString},
	{Name: "sku", Kind: KindString},
	{Name: "weight", Kind: KindNumber},
	{Name: "dimensions", Kind: KindObject, Fields: DimensionsFields},
	{Name: "warrantyInformation", Kind: KindString},
	{Name: "shippingInformation", Kind: KindString},
	{Name: "availabilityStatus", Kind: KindString},
	{Name: "reviews", Kind: KindObjectList, Fields: ReviewFields},
	{Name: "returnPolicy", Kind: KindString},
	{Name: "minimumOrderQuantity", Kind: KindInteger},
	{Name: "meta", Kind: KindObject, Fields: MetaFields},
	{Name: "thumbnail", Kind: KindString},
	{Name: "images", Kind: KindStringList},
}

// DeletionFields are the synthetic fields a simulated delete adds.
var DeletionFields = []Field{
	{Name: "isDeleted", Kind: KindBool, Core: true},
	{Name: "deletedOn", Kind: KindString, Core: true},
}

// CategoryFields is the Category contract. The key set is exact.
var CategoryFields = []Field{
	{Name: "slug", Kind: KindString, Core: true},
	{Name: "name", Kind: KindString, Core: true},
	{Name: "url", Kind: KindString, Core: true},
}

// EnvelopeCounters are the numeric keys of every list envelope.
var EnvelopeCounters = []Field{
	{Name: "total", Kind: KindInteger, Core: true, Rule: RuleNonNegative},
	{Name: "skip", Kind: KindInteger, Core: true, Rule: RuleNonNegative},
	{Name: "limit", Kind: KindInteger, Core: true, Rule: RuleNonNegative},
}

// Lookup returns the field named name.
func Lookup(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
