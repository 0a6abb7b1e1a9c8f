package dto

// DataResponse cuerpo de éxito uniforme.
type DataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// ErrorResponse cuerpo de error HTTP. Data lleva [] en listados fallidos.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Code    string      `json:"code"`
	Message string      `json:"error"`
	Data    interface{} `json:"data,omitempty"`
}

// MessageResponse confirmación sin datos.
type MessageResponse struct {
	Message string `json:"message"`
}

// CountResponse resultado de operaciones masivas.
type CountResponse struct {
	Count int64 `json:"count"`
}
