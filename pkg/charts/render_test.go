package charts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func sampleChart() *Chart {
	return &Chart{
		Title:   "2019 MotoGP Championship",
		Columns: []string{"QAT", "ARG", "AME"},
		Series: []RiderSeries{
			{Rider: "A. ONE", Points: pts(25, 45, 61)},
			{Rider: "B. TWO", Points: []*int{intPtr(20), nil, intPtr(40)}},
		},
	}
}

func TestLineRendererRender(t *testing.T) {
	r := &LineRenderer{}
	data, err := r.Render(sampleChart())
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(string(data), "<svg"))
}

func TestLineRendererSingleColumn(t *testing.T) {
	r := &LineRenderer{InvertY: true}
	data, err := r.Render(&Chart{
		Title:   "QAT Results History",
		Columns: []string{"2019"},
		Series:  []RiderSeries{{Rider: "A. ONE", Points: pts(1)}},
	})
	assert.NilError(t, err)
	assert.Assert(t, len(data) > 0)
}

func TestLineRendererEmptyChart(t *testing.T) {
	r := &LineRenderer{}

	_, err := r.Render(&Chart{Title: "empty"})
	assert.ErrorIs(t, err, ErrEmptyChart)

	// columns but only nil points
	_, err = r.Render(&Chart{
		Columns: []string{"QAT"},
		Series:  []RiderSeries{{Rider: "A. ONE", Points: []*int{nil}}},
	})
	assert.ErrorIs(t, err, ErrEmptyChart)
}

func TestWriterSkipsEmptyCharts(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	charts := []CategoryChart{
		{Category: "MotoGP", Chart: sampleChart()},
		{Category: "Moto2", Chart: &Chart{Title: "empty"}},
	}
	assert.NilError(t, w.Write("2019", charts, &LineRenderer{}))

	_, err := os.Stat(filepath.Join(dir, "2019-MotoGP.svg"))
	assert.NilError(t, err)
	_, err = os.Stat(filepath.Join(dir, "2019-Moto2.svg"))
	assert.Assert(t, os.IsNotExist(err))
}
