// Package charts derives standings and history series from persisted
// results and renders them into static artifacts.
package charts

// Chart is one renderable line chart: ordered column labels and one
// value series per rider. A nil point means no data for that column.
type Chart struct {
	Title   string
	Columns []string
	Series  []RiderSeries
}

type RiderSeries struct {
	Rider  string
	Points []*int
}

// CategoryChart couples a chart with the category it belongs to; the
// category name is part of the artifact file name.
type CategoryChart struct {
	Category string
	Chart    *Chart
}

// seriesBuilder accumulates per-rider series in first-seen order. The
// source data has no rider identity beyond the display label, so the
// label is the key.
type seriesBuilder struct {
	order  []string
	series map[string][]*int
}

func newSeriesBuilder() *seriesBuilder {
	return &seriesBuilder{series: map[string][]*int{}}
}

func (b *seriesBuilder) riders() []string { return b.order }

func (b *seriesBuilder) get(rider string) []*int { return b.series[rider] }

func (b *seriesBuilder) set(rider string, points []*int) {
	if _, ok := b.series[rider]; !ok {
		b.order = append(b.order, rider)
	}
	b.series[rider] = points
}

func (b *seriesBuilder) setAt(rider string, idx int, value int) {
	v := value
	b.series[rider][idx] = &v
}

func intPtr(v int) *int { return &v }
