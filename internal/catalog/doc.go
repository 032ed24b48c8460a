// Package catalog defines the entity model of the product catalog API.
//
// Two views of each entity live here:
//
//   - Typed structs (Product, Category, ListResponse) used for decoding
//     bodies that already passed contract validation.
//   - Field tables (ProductFields, CategoryFields, ...) that describe the
//     wire contract: which keys are core (always present) and which are
//     extended (type-checked only when present).
//
// The field tables are the single definition consumed by the contract
// validators. Keep them in sync with the structs when the API grows a field.
package catalog
