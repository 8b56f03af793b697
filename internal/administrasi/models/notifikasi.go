package models

import "encoding/json"

// NotifikasiResepRequest dikirim backend farmasi saat resep dibuat atau berubah.
type NotifikasiResepRequest struct {
	Type string          `json:"type" validate:"required,oneof=prescription_new prescription_update"`
	Data json.RawMessage `json:"data" validate:"required"`
}
