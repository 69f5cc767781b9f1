package changes

import (
	"context"
	"time"
)

type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Event describe una mutación exitosa sobre una colección.
type Event struct {
	Collection string    `json:"collection"`
	Op         Op        `json:"op"`
	ID         string    `json:"id"`
	Key        string    `json:"key,omitempty"` // clave natural, si la operación la conoce
	At         time.Time `json:"at"`
}

// Publisher emite eventos de cambio. Un error de publicación nunca invalida la mutación ya hecha.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Discard es el Publisher por defecto cuando no hay broker configurado.
type Discard struct{}

func (Discard) Publish(ctx context.Context, ev Event) error { return nil }
func (Discard) Close() error                                { return nil }
