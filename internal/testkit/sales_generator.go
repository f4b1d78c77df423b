package testkit

import (
	"math"
	"math/rand"
	"time"

	"chartsense/domain/dataset"
)

// SalesGeneratorConfig configures the synthetic daily sales generator
type SalesGeneratorConfig struct {
	Days        int       `json:"days"`
	Regions     []string  `json:"regions"`
	BaseUnits   float64   `json:"base_units"`
	DailyGrowth float64   `json:"daily_growth"` // units added per day
	Noise       float64   `json:"noise"`        // stddev of the per-row noise
	SpikeEvery  int       `json:"spike_every"`  // every Nth row gets a spike; 0 disables
	SpikeFactor float64   `json:"spike_factor"`
	UnitPrice   float64   `json:"unit_price"`
	StartDate   time.Time `json:"start_date"`
	Seed        int64     `json:"seed"`
}

// DefaultSalesConfig returns a month of growing sales across four regions
func DefaultSalesConfig() SalesGeneratorConfig {
	return SalesGeneratorConfig{
		Days:        30,
		Regions:     []string{"North", "South", "East", "West"},
		BaseUnits:   100,
		DailyGrowth: 2,
		Noise:       3,
		UnitPrice:   9.5,
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Seed:        42,
	}
}

// SalesColumns is the column order of generated tables
var SalesColumns = []string{"date", "region", "units", "revenue"}

// SalesDataGenerator generates deterministic sales tables
type SalesDataGenerator struct {
	config SalesGeneratorConfig
	rng    *rand.Rand
}

// NewSalesDataGenerator creates a new sales data generator
func NewSalesDataGenerator(config SalesGeneratorConfig) *SalesDataGenerator {
	return &SalesDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GenerateTable returns one row per day and region, dates ascending
func (g *SalesDataGenerator) GenerateTable() dataset.Table {
	regions := g.config.Regions
	if len(regions) == 0 {
		regions = []string{"All"}
	}

	table := dataset.Table{
		Columns: append([]string(nil), SalesColumns...),
		Rows:    make([]dataset.Row, 0, g.config.Days*len(regions)),
	}

	for day := 0; day < g.config.Days; day++ {
		date := g.config.StartDate.AddDate(0, 0, day).Format("2006-01-02")
		for r, region := range regions {
			units := g.config.BaseUnits + float64(day)*g.config.DailyGrowth + float64(r)*5
			units += g.rng.NormFloat64() * g.config.Noise

			rowIndex := len(table.Rows)
			if g.config.SpikeEvery > 0 && (rowIndex+1)%g.config.SpikeEvery == 0 {
				units *= g.config.SpikeFactor
			}
			if units < 0 {
				units = 0
			}

			rounded := math.Round(units)
			table.Rows = append(table.Rows, dataset.Row{
				"date":    date,
				"region":  region,
				"units":   int(rounded),
				"revenue": math.Round(rounded*g.config.UnitPrice*100) / 100,
			})
		}
	}

	return table
}
