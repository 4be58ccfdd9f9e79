package dto

type AddLineInput struct {
	ClientID  string
	ProductID string
	Quantity  int
}

type SetQuantityInput struct {
	ClientID  string
	ProductID string
	Quantity  int
}

type RemoveLineInput struct {
	ClientID  string
	ProductID string
}

type CheckoutInput struct {
	ClientID string
	Address  string
}
