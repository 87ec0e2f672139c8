package model

import "fmt"

// Status es el estado actual de una orden. Los valores son los que se guardan en Mongo.
type Status string

const (
	StatusOrdered        Status = "ordered"
	StatusShipped        Status = "shipped"
	StatusOutForDelivery Status = "Out for delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// CancellationMessage se agrega al historial cada vez que se cancela una orden.
const CancellationMessage = "Order has been cancelled"

// Statuses devuelve todos los estados en orden de ciclo de vida.
func Statuses() []Status {
	return []Status{
		StatusOrdered,
		StatusShipped,
		StatusOutForDelivery,
		StatusDelivered,
		StatusCancelled,
	}
}

// ParseStatus acepta el valor guardado y también el nombre en snake_case
// ("out_for_delivery") que usan los clientes nuevos.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "ordered":
		return StatusOrdered, nil
	case "shipped":
		return StatusShipped, nil
	case "Out for delivery", "out_for_delivery":
		return StatusOutForDelivery, nil
	case "delivered":
		return StatusDelivered, nil
	case "cancelled":
		return StatusCancelled, nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// IsTerminal indica si desde este estado no se permite ninguna transición.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCancelled:
		return true
	case StatusOrdered, StatusShipped, StatusOutForDelivery, StatusDelivered:
		return false
	}
	return false
}

// CanTransitionTo aplica las reglas de la máquina de estados: cualquier estado no
// terminal puede pasar a cualquier otro estado válido.
func (s Status) CanTransitionTo(next Status) bool {
	if !next.Valid() {
		return false
	}
	switch s {
	case StatusCancelled:
		return false
	case StatusOrdered, StatusShipped, StatusOutForDelivery, StatusDelivered:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}
