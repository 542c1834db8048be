package dto

// ErrorResponse cuerpo de error HTTP.
// OrderID acompaña a ACTIVE_ORDER_EXISTS para que el cliente retome su pedido.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	OrderID string `json:"order_id,omitempty"`
}

