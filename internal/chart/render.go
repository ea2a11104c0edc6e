package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// Kind selects how a result set is drawn.
type Kind string

const (
	KindAuto    Kind = "auto"
	KindBar     Kind = "bar"
	KindPie     Kind = "pie"
	KindLine    Kind = "line"
	KindScatter Kind = "scatter"
)

const (
	chartWidth  = 1000
	chartHeight = 600
)

// KindFromQuery picks an explicit chart kind named in the question, falling
// back to auto inference from the result's column types.
func KindFromQuery(question string) Kind {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "bar"):
		return KindBar
	case strings.Contains(q, "pie"):
		return KindPie
	case strings.Contains(q, "line"):
		return KindLine
	case strings.Contains(q, "scatter"):
		return KindScatter
	default:
		return KindAuto
	}
}

// Render draws the rows as a PNG. cols preserves the result set's column
// order; the first column supplies labels or X values, the second the Y
// values.
func Render(kind Kind, cols []string, rows []map[string]any) ([]byte, error) {
	if len(rows) == 0 {
		return nil, errors.New("no rows to chart")
	}
	if len(cols) == 0 {
		return nil, errors.New("no columns to chart")
	}

	if kind == KindAuto {
		kind = inferKind(cols, rows)
	}
	if len(cols) < 2 && kind != KindBar {
		kind = KindBar
	}

	switch kind {
	case KindPie:
		return renderPie(cols, rows)
	case KindLine:
		return renderLine(cols, rows)
	case KindScatter:
		return renderScatter(cols, rows)
	default:
		return renderBar(cols, rows)
	}
}

// inferKind applies the column-type heuristic: categorical+numeric is a bar
// chart, datetime+numeric a line chart, numeric+numeric a scatter plot, and
// anything else defaults to bar.
func inferKind(cols []string, rows []map[string]any) Kind {
	if len(cols) < 2 || len(rows) == 0 {
		return KindBar
	}
	first := rows[0][cols[0]]
	second := rows[0][cols[1]]

	_, secondNumeric := toFloat(second)
	if !secondNumeric {
		return KindBar
	}
	if isDatetime(cols[0], first) {
		return KindLine
	}
	if _, ok := toFloat(first); ok {
		return KindScatter
	}
	return KindBar
}

func renderBar(cols []string, rows []map[string]any) ([]byte, error) {
	bars := make([]gochart.Value, 0, len(rows))
	for i, row := range rows {
		label := strconv.Itoa(i)
		value := 0.0
		if len(cols) >= 2 {
			label = toLabel(row[cols[0]])
			v, ok := toFloat(row[cols[1]])
			if !ok {
				continue
			}
			value = v
		} else {
			v, ok := toFloat(row[cols[0]])
			if !ok {
				continue
			}
			value = v
		}
		bars = append(bars, gochart.Value{Label: label, Value: value})
	}
	if len(bars) == 0 {
		return nil, errors.New("no numeric values to chart")
	}

	graph := gochart.BarChart{
		Title:    "Bar Chart",
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 40,
		Bars:     bars,
	}
	return renderPNG(&graph)
}

func renderPie(cols []string, rows []map[string]any) ([]byte, error) {
	values := make([]gochart.Value, 0, len(rows))
	for _, row := range rows {
		v, ok := toFloat(row[cols[1]])
		if !ok || v <= 0 {
			continue
		}
		values = append(values, gochart.Value{Label: toLabel(row[cols[0]]), Value: v})
	}
	if len(values) == 0 {
		return nil, errors.New("no positive values for pie chart")
	}

	graph := gochart.PieChart{
		Title:  "Pie Chart",
		Width:  chartHeight,
		Height: chartHeight,
		Values: values,
	}
	return renderPNG(&graph)
}

func renderLine(cols []string, rows []map[string]any) ([]byte, error) {
	type point struct {
		x time.Time
		y float64
	}
	points := make([]point, 0, len(rows))
	for _, row := range rows {
		x, ok := toTime(row[cols[0]])
		if !ok {
			continue
		}
		y, ok := toFloat(row[cols[1]])
		if !ok {
			continue
		}
		points = append(points, point{x: x, y: y})
	}
	if len(points) == 0 {
		return nil, errors.New("no datetime/numeric pairs to chart")
	}
	sort.Slice(points, func(i, j int) bool { return points[i].x.Before(points[j].x) })

	xs := make([]time.Time, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.x
		ys[i] = p.y
	}

	graph := gochart.Chart{
		Title:  "Line Chart",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  gochart.XAxis{Name: cols[0]},
		YAxis:  gochart.YAxis{Name: cols[1]},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    cols[1],
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return renderPNG(&graph)
}

func renderScatter(cols []string, rows []map[string]any) ([]byte, error) {
	xs := make([]float64, 0, len(rows))
	ys := make([]float64, 0, len(rows))
	for _, row := range rows {
		x, ok := toFloat(row[cols[0]])
		if !ok {
			continue
		}
		y, ok := toFloat(row[cols[1]])
		if !ok {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) == 0 {
		return nil, errors.New("no numeric pairs to chart")
	}

	graph := gochart.Chart{
		Title:  "Scatter Plot",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  gochart.XAxis{Name: cols[0]},
		YAxis:  gochart.YAxis{Name: cols[1]},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name: cols[1],
				Style: gochart.Style{
					StrokeWidth: gochart.Disabled,
					DotWidth:    5,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return renderPNG(&graph)
}

type pngRenderer interface {
	Render(rp gochart.RendererProvider, w io.Writer) error
}

func renderPNG(graph pngRenderer) ([]byte, error) {
	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

func toLabel(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.Format("2006-01-02")
	default:
		return fmt.Sprint(val)
	}
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case []byte:
		f, err := strconv.ParseFloat(string(val), 64)
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02",
}

func toTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case []byte:
		return parseTime(string(val))
	case string:
		return parseTime(val)
	default:
		return time.Time{}, false
	}
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isDatetime(colName string, v any) bool {
	if strings.Contains(strings.ToLower(colName), "date") {
		return true
	}
	_, ok := toTime(v)
	return ok
}
