// internal/agents/analytics/collector/models.go
package collector

type DataPoint struct {
	Date      string  `json:"date"`
	Revenue   float64 `json:"revenue"`
	Customers int     `json:"customers"`
	Orders    int     `json:"orders"`
}
