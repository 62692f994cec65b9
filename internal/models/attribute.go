package models

// Attribute is implemented by *Tag and *Ingredient: a named record owned by
// one user that recipes can reference.
type Attribute[T any] interface {
	*T
	GetID() uint
	GetName() string
	SetName(name string)
	GetOwner() uint
	SetOwner(userID uint)
}
