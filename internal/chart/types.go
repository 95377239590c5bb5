package chart

import (
	"encoding/json"
	"time"
)

// Dataset is one labeled series of values aligned to the chart's
// shared time axis.
type Dataset struct {
	Label  string `json:"label"`
	Values []int  `json:"values"`
}

// LineChart holds everything needed to render one time-series chart:
// a shared time axis and one or more aligned datasets.
type LineChart struct {
	Title    string
	Timeline []time.Time
	Datasets []Dataset
}

// IsEmpty returns true if the chart has no axis positions or no datasets.
func (c *LineChart) IsEmpty() bool {
	return len(c.Timeline) == 0 || len(c.Datasets) == 0
}

// payload is the JSON shape handed to the Chart.js template.
type payload struct {
	Labels   []string         `json:"labels"`
	Datasets []payloadDataset `json:"datasets"`
}

type payloadDataset struct {
	Label string `json:"label"`
	Data  []int  `json:"data"`
}

// ToChartJSON serializes the chart into the Chart.js data shape, with
// axis labels formatted as dates.
func (c *LineChart) ToChartJSON() (string, error) {
	p := payload{
		Labels:   make([]string, len(c.Timeline)),
		Datasets: make([]payloadDataset, len(c.Datasets)),
	}
	for i, t := range c.Timeline {
		p.Labels[i] = t.UTC().Format("2006-01-02 15:04")
	}
	for i, d := range c.Datasets {
		p.Datasets[i] = payloadDataset{Label: d.Label, Data: d.Values}
	}

	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
