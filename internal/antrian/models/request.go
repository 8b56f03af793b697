package models

type TiketRequest struct {
	DoctorID  int64 `json:"doctor_id" validate:"required,gt=0"`
	PatientID int64 `json:"patient_id" validate:"required,gt=0"`
}

type PanggilRequest struct {
	CounterName string `json:"counter_name" validate:"required,max=50"`
	PoliID      int64  `json:"poli_id" validate:"gte=0"`
}

type TiketIDRequest struct {
	TicketID int64 `json:"ticket_id" validate:"required,gt=0"`
}

type RecallSkippedRequest struct {
	TicketID    int64  `json:"ticket_id" validate:"required,gt=0"`
	CounterName string `json:"counter_name" validate:"required,max=50"`
}

// KuotaRequest mengubah kuota hari ini; field yang kosong tidak diubah.
type KuotaRequest struct {
	DoctorID int64  `json:"doctor_id" validate:"required,gt=0"`
	MaxQuota *int   `json:"max_quota" validate:"omitempty,gt=0"`
	Status   string `json:"status" validate:"omitempty,oneof=OPEN CLOSED"`
}
