// Package chart renders simulation results as PNG line charts.
package chart

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"credit-engine/internal/model"
)

// RenderAnnual renders performing assets, NPL stock and cumulative LLP for one
// product over the ten simulated years.
func RenderAnnual(res *model.ProductResult) ([]byte, error) {
	a := res.Annual
	if len(a.PerformingAssets) != model.Years || len(a.NPLStock) != model.Years {
		return nil, fmt.Errorf("expected %d annual points, got %d", model.Years, len(a.PerformingAssets))
	}

	years := make([]float64, model.Years)
	cumLLP := make([]float64, model.Years)
	var running float64
	for i := range years {
		years[i] = float64(i + 1)
		running -= a.LLP[i]
		cumLLP[i] = running
	}

	top := maxOf(a.PerformingAssets, a.NPLStock, cumLLP)
	if top <= 0 {
		top = 1
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Credit portfolio %s", res.ProductID),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name: "Year",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("Y%.0f", f)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.1fM", f/1e6)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: "Performing assets",
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("2563eb"),
					StrokeWidth: 2.5,
				},
				XValues: years,
				YValues: a.PerformingAssets,
			},
			chart.ContinuousSeries{
				Name: "NPL stock (NBV)",
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("dc2626"),
					StrokeWidth: 2,
				},
				XValues: years,
				YValues: a.NPLStock,
			},
			chart.ContinuousSeries{
				Name: "Cumulative LLP",
				Style: chart.Style{
					StrokeColor:     drawing.ColorFromHex("9ca3af"),
					StrokeWidth:     1.5,
					StrokeDashArray: []float64{5.0, 3.0},
				},
				XValues: years,
				YValues: cumLLP,
			},
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

func maxOf(series ...[]float64) float64 {
	var m float64
	for _, s := range series {
		for _, v := range s {
			if v > m {
				m = v
			}
		}
	}
	return m
}
