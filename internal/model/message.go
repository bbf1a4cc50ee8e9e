package model

type CalculationMessage struct {
	ID        int    `json:"id"`
	Level     string `json:"level"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	ProductID string `json:"product_id,omitempty"`
}

const (
	LevelCritical = "CRITICAL"
	LevelWarning  = "WARNING"
)
