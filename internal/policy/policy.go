// Package policy decides whether a principal may perform an operation on a
// resource. Decisions are pure functions of their arguments.
package policy

import "github.com/google/uuid"

type Role string

const (
	RoleStandard Role = "user"
	RoleElevated Role = "admin"
)

type Principal struct {
	ID   uuid.UUID
	Role Role
}

func (p *Principal) Elevated() bool {
	return p != nil && p.Role == RoleElevated
}

type Operation int

const (
	Read Operation = iota
	Write
)

type Kind int

const (
	KindProduct Kind = iota
	KindOrder
)

type Resource struct {
	Kind    Kind
	OwnerID uuid.UUID
}

func Product() Resource {
	return Resource{Kind: KindProduct}
}

func Order(ownerID uuid.UUID) Resource {
	return Resource{Kind: KindOrder, OwnerID: ownerID}
}

type Decision bool

const (
	Deny  Decision = false
	Allow Decision = true
)

// Evaluate is the single decision point. A nil principal is anonymous.
func Evaluate(p *Principal, op Operation, res Resource) Decision {
	switch res.Kind {
	case KindProduct:
		if op == Read {
			return Allow
		}
		return Decision(p.Elevated())
	case KindOrder:
		if p == nil {
			return Deny
		}
		if p.Elevated() {
			return Allow
		}
		if op == Read && res.OwnerID != uuid.Nil && res.OwnerID == p.ID {
			return Allow
		}
		return Deny
	}
	return Deny
}

func CanReadOrder(p *Principal, ownerID uuid.UUID) bool {
	return bool(Evaluate(p, Read, Order(ownerID)))
}

func CanWriteOrder(p *Principal, ownerID uuid.UUID) bool {
	return bool(Evaluate(p, Write, Order(ownerID)))
}

func CanWriteProduct(p *Principal) bool {
	return bool(Evaluate(p, Write, Product()))
}
