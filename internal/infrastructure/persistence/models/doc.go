// Package models contains GORM persistence models and their mappings to
// and from domain entities. Models stay inside the persistence layer;
// repositories translate at the boundary.
package models
