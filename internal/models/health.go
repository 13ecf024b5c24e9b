package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/routinize/internal/constants"
)

// HealthCheck is one self-rating across four 1-10 metrics.
type HealthCheck struct {
	Hydration int    `json:"hydration"`
	Energy    int    `json:"energy"`
	Focus     int    `json:"focus"`
	Mood      int    `json:"mood"`
	Notes     string `json:"notes"`
}

// DefaultHealthCheck is the starting position of the health check form.
func DefaultHealthCheck() HealthCheck {
	return HealthCheck{
		Hydration: constants.DefaultMetric,
		Energy:    constants.DefaultMetric,
		Focus:     constants.DefaultMetric,
		Mood:      constants.DefaultMetric,
	}
}

// Total is the sum of the four metrics.
func (c HealthCheck) Total() int {
	return c.Hydration + c.Energy + c.Focus + c.Mood
}

// Metrics returns the metrics in display order.
func (c HealthCheck) Metrics() []Metric {
	return []Metric{
		{Name: "Hydration", Value: c.Hydration},
		{Name: "Energy", Value: c.Energy},
		{Name: "Focus", Value: c.Focus},
		{Name: "Mood", Value: c.Mood},
	}
}

// Clamped returns a copy with every metric forced into the 1-10 range.
func (c HealthCheck) Clamped() HealthCheck {
	c.Hydration = ClampMetric(c.Hydration)
	c.Energy = ClampMetric(c.Energy)
	c.Focus = ClampMetric(c.Focus)
	c.Mood = ClampMetric(c.Mood)
	return c
}

func (c HealthCheck) Validate() error {
	for _, m := range c.Metrics() {
		if m.Value < constants.MetricMin || m.Value > constants.MetricMax {
			return fmt.Errorf("%s must be between %d and %d, got %d", m.Name, constants.MetricMin, constants.MetricMax, m.Value)
		}
	}
	return nil
}

type Metric struct {
	Name  string
	Value int
}

func ClampMetric(v int) int {
	if v < constants.MetricMin {
		return constants.MetricMin
	}
	if v > constants.MetricMax {
		return constants.MetricMax
	}
	return v
}

type HealthRecord struct {
	ID   string      `json:"id"`
	Date time.Time   `json:"date"`
	Data HealthCheck `json:"data"`
}

func (r HealthRecord) GetID() string { return r.ID }

func (r HealthRecord) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("health record id is required")
	}
	if r.Date.IsZero() {
		return fmt.Errorf("health record date is required")
	}
	return nil
}

// HealthRecordPatch updates the check data of a record.
type HealthRecordPatch struct {
	Data *HealthCheck
	Date *time.Time
}

func (p HealthRecordPatch) Apply(r *HealthRecord) {
	if p.Data != nil {
		r.Data = *p.Data
	}
	if p.Date != nil {
		r.Date = *p.Date
	}
}
