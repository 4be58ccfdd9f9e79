package model

import (
	"fmt"
	"time"
)

type PhotoOwnerKind string

const (
	OwnerProduct     PhotoOwnerKind = "product"
	OwnerService     PhotoOwnerKind = "service"
	OwnerRealisation PhotoOwnerKind = "realisation"
)

// PhotoOwner is Product(id) | Service(id) | Realisation(id).
type PhotoOwner struct {
	Kind PhotoOwnerKind `json:"kind"`
	ID   string         `json:"id"`
}

func (o PhotoOwner) Validate() error {
	switch o.Kind {
	case OwnerProduct, OwnerService, OwnerRealisation:
	default:
		return fmt.Errorf("unknown photo owner %q", o.Kind)
	}
	if o.ID == "" {
		return fmt.Errorf("photo owner %s has no id", o.Kind)
	}
	return nil
}

type Photo struct {
	ID        string     `json:"id"`
	Owner     PhotoOwner `json:"owner"`
	URL       string     `json:"url"`
	CreatedAt time.Time  `json:"created_at"`
}
