package entity

// Estados de catálogo y personal (soft delete).
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)
