package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// OrderStatus represents the lifecycle status of an order
type OrderStatus int

const (
	OrderStatusPending   OrderStatus = 0
	OrderStatusConfirmed OrderStatus = 1
	OrderStatusPreparing OrderStatus = 2
	OrderStatusReady     OrderStatus = 3
	OrderStatusServed    OrderStatus = 4
	OrderStatusPaid      OrderStatus = 5
	OrderStatusCancelled OrderStatus = 6
)

var orderStatusNames = [...]string{
	"Pending", "Confirmed", "Preparing", "Ready", "Served", "Paid", "Cancelled",
}

// validNext encodes the forward-only kitchen workflow. Paid and Cancelled are
// terminal: nothing transitions out of them.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending:   {OrderStatusConfirmed: true, OrderStatusPaid: true, OrderStatusCancelled: true},
	OrderStatusConfirmed: {OrderStatusPreparing: true, OrderStatusCancelled: true},
	OrderStatusPreparing: {OrderStatusReady: true, OrderStatusCancelled: true},
	OrderStatusReady:     {OrderStatusServed: true, OrderStatusCancelled: true},
	OrderStatusServed:    {OrderStatusPaid: true, OrderStatusCancelled: true},
	OrderStatusPaid:      {},
	OrderStatusCancelled: {},
}

// CanTransition reports whether the move from one status to another is
// allowed. Walk-in sales pay directly from Pending; every other order reaches
// Paid only through Served.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// IsTerminal reports whether the status accepts no further transitions.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusPaid || s == OrderStatusCancelled
}

func (s OrderStatus) String() string {
	if int(s) < 0 || int(s) >= len(orderStatusNames) {
		return "Pending"
	}
	return orderStatusNames[s]
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = OrderStatus(i)
		return nil
	}
	for i, name := range orderStatusNames {
		if name == str {
			*s = OrderStatus(i)
			return nil
		}
	}
	return nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *OrderStatus) Scan(value interface{}) error {
	if value == nil {
		*s = OrderStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = OrderStatus(v)
	case int:
		*s = OrderStatus(v)
	}
	return nil
}
