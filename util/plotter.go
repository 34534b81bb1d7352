package util

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"venue-finder/models"
	"venue-finder/models/venue"
)

var bandColors = map[venue.RatingBand]string{
	venue.RatingBandGreen:  "#2e7d32",
	venue.RatingBandYellow: "#f9a825",
	venue.RatingBandRed:    "#c62828",
}

// bandOrder fixes the legend order.
var bandOrder = []venue.RatingBand{venue.RatingBandGreen, venue.RatingBandYellow, venue.RatingBandRed}

// PlotVenues renders the visible venues as an HTML map, one colored series per
// rating band. The selected venue, if any, gets its own highlighted series.
func PlotVenues(w io.Writer, set models.VisibleSet, selected *string) error {
	points := make(map[venue.RatingBand][]opts.GeoData, len(bandOrder))
	var highlight []opts.GeoData
	for i := range set.Venues {
		v := &set.Venues[i]
		lat, lon, ok := v.Location()
		if !ok {
			continue
		}
		point := opts.GeoData{Name: v.Name, Value: []float64{lon, lat, v.Rating}}
		if selected != nil && *selected == v.Name {
			highlight = append(highlight, point)
			continue
		}
		band := venue.BandOf(v.Rating)
		points[band] = append(points[band], point)
	}

	geo := charts.NewGeo()
	geo.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Venues",
			Width:     "1000px",
			Height:    "700px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Venues",
			Subtitle: fmt.Sprintf("%d shown", set.VenuesN),
		}),
		charts.WithGeoComponentOpts(opts.GeoComponent{
			Map:    "world",
			Silent: opts.Bool(true),
		}),
	)

	for _, band := range bandOrder {
		geo.AddSeries(string(band), types.ChartScatter, points[band],
			charts.WithItemStyleOpts(opts.ItemStyle{Color: bandColors[band]}),
		)
	}
	if len(highlight) > 0 {
		geo.AddSeries("selected", types.ChartEffectScatter, highlight,
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}",
			}),
		)
	}

	if err := geo.Render(w); err != nil {
		return fmt.Errorf("failed to render venue map: %w", err)
	}
	return nil
}
