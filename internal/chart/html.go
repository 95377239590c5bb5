// Package chart renders citation time series as self-contained HTML
// line charts.
package chart

import (
	"bytes"
	"fmt"
	"html/template"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("chart").Parse(htmlTemplate))
}

// Options configures HTML generation.
type Options struct {
	ShowLegend bool // Whether to render the dataset legend
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() Options {
	return Options{ShowLegend: true}
}

// MaxLegendSeries caps how many series keep a legend before it is
// hidden to avoid crowding the chart.
const MaxLegendSeries = 12

// templateData holds data for the HTML template.
type templateData struct {
	Title      string
	ChartJSON  template.JS
	ShowLegend bool
}

// GenerateHTML generates a self-contained HTML file for the chart.
func GenerateHTML(c *LineChart, opts Options) (string, error) {
	if c == nil {
		return "", fmt.Errorf("chart cannot be nil")
	}

	if c.IsEmpty() {
		return generateEmptyHTML(), nil
	}

	chartJSON, err := c.ToChartJSON()
	if err != nil {
		return "", err
	}

	// A crowded legend hides the lines it describes
	showLegend := opts.ShowLegend && len(c.Datasets) <= MaxLegendSeries

	data := templateData{
		Title:      c.Title,
		ChartJSON:  template.JS(chartJSON),
		ShowLegend: showLegend,
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// generateEmptyHTML returns HTML for an empty history state.
func generateEmptyHTML() string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Citation History - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
    .empty-state h2 {
      margin-bottom: 0.5em;
      color: #333;
    }
    .empty-state code {
      background: #e0e0e0;
      padding: 2px 6px;
      border-radius: 3px;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No citation history</h2>
    <p>Nothing has been captured yet.</p>
    <p>Record a snapshot with <code>cite fetch --author-id ID</code></p>
  </div>
</body>
</html>`
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <script src="https://cdn.jsdelivr.net/npm/chart.js@4/dist/chart.umd.min.js"></script>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 24px;
      background: #f5f5f5;
    }
    h1 {
      font-size: 18px;
      color: #333;
      margin: 0 0 16px 0;
    }
    #wrap {
      background: white;
      border-radius: 6px;
      box-shadow: 0 1px 4px rgba(0,0,0,0.1);
      padding: 16px;
      height: 75vh;
    }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <div id="wrap"><canvas id="chart"></canvas></div>
  <script>
    (function() {
      const chartData = {{.ChartJSON}};

      const palette = [
        '#4A90D9', '#E8923A', '#27AE60', '#9B59B6', '#E74C3C',
        '#1ABC9C', '#F1C40F', '#34495E', '#D35400', '#7F8C8D',
        '#2ECC71', '#337AB7'
      ];

      const datasets = chartData.datasets.map(function(d, i) {
        const color = palette[i % palette.length];
        return {
          label: d.label,
          data: d.data,
          borderColor: color,
          backgroundColor: color,
          borderWidth: 1.5,
          pointRadius: 3,
          tension: 0
        };
      });

      new Chart(document.getElementById('chart'), {
        type: 'line',
        data: { labels: chartData.labels, datasets: datasets },
        options: {
          responsive: true,
          maintainAspectRatio: false,
          plugins: {
            legend: { display: {{.ShowLegend}}, labels: { font: { size: 10 } } }
          },
          scales: {
            y: { beginAtZero: true, title: { display: true, text: 'Citations' } },
            x: { title: { display: true, text: 'Date' } }
          }
        }
      });
    })();
  </script>
</body>
</html>`
