// Package models defines the persisted row types of the label repository.
//
// The tables form a normalized graph of one document: documents own sections,
// sections are connected by ordered parent/child hierarchy edges, and products
// own packaging levels and typed characteristics.
//
// Nullable columns are pointer fields throughout. This is load-bearing for
// product characteristics: an attribute absent from the source must be stored
// as NULL, never coerced to an empty string, so the persisted row still
// reflects what the decoder actually saw.
package models
