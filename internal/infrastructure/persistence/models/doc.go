// Package models contains GORM persistence models for the dashboard tables.
// Domain entities stay free of GORM tags; each model converts to and from
// its entity with ToDomain and FromDomain.
package models
