// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
// - base.go: BaseModel and the model list used by AutoMigrate
// - catalog.go: products and reviews
// - identity.go: users
// - trade.go: orders and their item snapshots
//
// Slice and map fields are stored as JSON through GORM's json serializer.
package models
