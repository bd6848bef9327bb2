package charts

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	chartlib "github.com/wcharczuk/go-chart/v2"

	"github.com/gpstats/gpstats-go/log"
)

// ErrEmptyChart marks a chart with nothing to draw; callers skip the artifact.
var ErrEmptyChart = errors.New("chart has no data")

// Renderer turns a chart into image bytes.
type Renderer interface {
	Render(c *Chart) ([]byte, error)
}

// LineRenderer renders a chart as an SVG line chart.
type LineRenderer struct {
	// InvertY puts low values on top, for finishing-position charts
	InvertY bool
}

func (r *LineRenderer) Render(c *Chart) ([]byte, error) {
	if len(c.Columns) == 0 || len(c.Series) == 0 {
		return nil, ErrEmptyChart
	}

	maxValue := 1
	series := make([]chartlib.Series, 0, len(c.Series))
	for _, s := range c.Series {
		xs := []float64{}
		ys := []float64{}
		for i, point := range s.Points {
			if point == nil || i >= len(c.Columns) {
				continue
			}
			xs = append(xs, float64(i))
			ys = append(ys, float64(*point))
			if *point > maxValue {
				maxValue = *point
			}
		}
		if len(xs) == 0 {
			continue
		}
		series = append(series, chartlib.ContinuousSeries{
			Name:    s.Rider,
			XValues: xs,
			YValues: ys,
		})
	}
	if len(series) == 0 {
		return nil, ErrEmptyChart
	}

	ticks := make([]chartlib.Tick, 0, len(c.Columns))
	for i, column := range c.Columns {
		ticks = append(ticks, chartlib.Tick{Value: float64(i), Label: column})
	}

	graph := chartlib.Chart{
		Title:  c.Title,
		Width:  1280,
		Height: 720,
		XAxis: chartlib.XAxis{
			Ticks: ticks,
			// explicit range keeps single-column charts renderable
			Range: &chartlib.ContinuousRange{
				Min: -0.5,
				Max: float64(len(c.Columns)-1) + 0.5,
			},
		},
		YAxis: chartlib.YAxis{
			Range: &chartlib.ContinuousRange{
				Min:        0,
				Max:        float64(maxValue + 1),
				Descending: r.InvertY,
			},
		},
		Series: series,
	}
	graph.Elements = []chartlib.Renderable{chartlib.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chartlib.SVG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Writer persists rendered charts as {key}-{category}.svg below dir,
// overwriting existing artifacts.
type Writer struct {
	dir    string
	logger *log.Logger
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, logger: log.Default().Named("charts.writer")}
}

func (w *Writer) Write(key string, charts []CategoryChart, renderer Renderer) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	for _, cc := range charts {
		data, err := renderer.Render(cc.Chart)
		if errors.Is(err, ErrEmptyChart) {
			continue
		} else if err != nil {
			return err
		}
		name := fmt.Sprintf("%s-%s.svg", key, cc.Category)
		w.logger.Debug("writing chart", log.String("file", name))
		if err := os.WriteFile(filepath.Join(w.dir, name), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}
