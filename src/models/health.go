package models

type ConnectionHealth struct {
	Alias  string `json:"alias"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type HealthResponse struct {
	Service   string             `json:"service"`
	Status    string             `json:"status"`
	Databases []ConnectionHealth `json:"databases"`
}
