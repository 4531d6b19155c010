package storage

import "ryokan-explorer/models"

// Writer is the interface any record sink must satisfy.
type Writer interface {
	Write(ryokans []*models.Ryokan) error
	Close() error
}
