package dto

// TableRequest entrada para crear una mesa.
type TableRequest struct {
	Name string `json:"name" validate:"required"`
}

// TableResponse salida de una mesa.
type TableResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	IsTakeOut bool   `json:"is_take_out"`
}

// RemoveResponse resultado de una baja: Deleted=false significa que quedó inactivo
// porque hay datos históricos que lo referencian.
type RemoveResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
	Status  string `json:"status,omitempty"`
}
