// Package models contains the gorm persistence models of the documents
// engine. Domain aggregates never carry gorm tags; every model converts to
// and from its aggregate with ToDomain and FromDomain.
package models
