// Package models defines the gophnotes domain entities and the filter and
// patch values passed between services and the store.
package models
