package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PeriodDTO rango de fechas de un reporte (YYYY-MM-DD, ambos inclusive).
type PeriodDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ListResponse listado con el período que lo originó (vacío en widgets sin ventana).
type ListResponse[T any] struct {
	Items  []T        `json:"items"`
	Period *PeriodDTO `json:"period,omitempty"`
}
