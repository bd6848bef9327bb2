package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const optionsPage = `<html><body>
<select id="event">
  <option value="QAT">Qatar</option>
  <option value="ARG">Argentina</option>
  <option value="AME">Americas</option>
  <option value="QAT">Qatar again</option>
</select>
<select id="session">
  <option value="FP1">Free Practice 1</option>
  <option value="RAC">Race</option>
</select>
</body></html>`

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name       string
		selectorID string
		after      string
		want       []string
	}{
		{
			name:       "document order with duplicates removed",
			selectorID: "event",
			want:       []string{"QAT", "ARG", "AME"},
		},
		{
			name:       "cutoff returns values after the match",
			selectorID: "event",
			after:      "ARG",
			want:       []string{"AME"},
		},
		{
			name:       "cutoff at last value",
			selectorID: "event",
			after:      "AME",
			want:       []string{},
		},
		{
			name:       "stale cutoff yields no values",
			selectorID: "event",
			after:      "GER",
			want:       []string{},
		},
		{
			name:       "missing selector yields no values",
			selectorID: "category",
			want:       []string{},
		},
		{
			name:       "second selector is independent",
			selectorID: "session",
			want:       []string{"FP1", "RAC"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseOptions([]byte(optionsPage), tt.selectorID, tt.after)
			assert.Equal(t, tt.want, got)
		})
	}
}
