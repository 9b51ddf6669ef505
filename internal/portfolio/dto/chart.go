package dto

// ChartPoint is a single labeled value of a chart series.
type ChartPoint struct {
	Date  string `json:"date"`
	Close string `json:"close"`
}

// ChartSeries is the chart payload for a single position: a title and
// chronologically ascending points. Points is empty when the provider data
// could not be retrieved.
type ChartSeries struct {
	Title  string       `json:"title"`
	Points []ChartPoint `json:"points"`
}
