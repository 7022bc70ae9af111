// internal/agents/analytics/insights/models.go
package insights

import "bizauto-agents/internal/agents/analytics/collector"

type Summary struct {
	Days           int     `json:"days"`
	TotalRevenue   float64 `json:"totalRevenue"`
	AverageRevenue float64 `json:"averageRevenue"`
	BestDay        string  `json:"bestDay"`
	BestDayRevenue float64 `json:"bestDayRevenue"`
	WorstDay       string  `json:"worstDay"`
	GrowthPercent  float64 `json:"growthPercent"`
}

type Analysis struct {
	Summary  Summary  `json:"summary"`
	Findings []string `json:"findings"`
}

// ParsePoints converts loosely typed data point payloads back into the
// collector's type. JSON round-trips hand us []interface{} of maps.
func ParsePoints(raw interface{}) []collector.DataPoint {
	if typed, ok := raw.([]collector.DataPoint); ok {
		return typed
	}

	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}

	points := make([]collector.DataPoint, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		p := collector.DataPoint{}
		if v, ok := m["date"].(string); ok {
			p.Date = v
		}
		if v, ok := m["revenue"].(float64); ok {
			p.Revenue = v
		}
		if v, ok := m["customers"].(float64); ok {
			p.Customers = int(v)
		}
		if v, ok := m["orders"].(float64); ok {
			p.Orders = int(v)
		}
		points = append(points, p)
	}
	return points
}
