package sentinel

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cropsignal/cropsignal/pkg/cache"
	"github.com/cropsignal/cropsignal/pkg/config"
)

// boxDelta is the half-width in degrees of the sampling box around a
// zone point (~1 km at corn-belt latitudes).
const boxDelta = 0.01

// maxCloudCoverage filters out scenes that are mostly cloud; NDVI from
// cloudy pixels reads as bare soil and poisons the statistics.
const maxCloudCoverage = 20

// statsRequest is the Statistics API request body.
type statsRequest struct {
	Input       statsInput       `json:"input"`
	Aggregation statsAggregation `json:"aggregation"`
}

type statsInput struct {
	Bounds statsBounds `json:"bounds"`
	Data   []statsData `json:"data"`
}

type statsBounds struct {
	Geometry   geometry          `json:"geometry"`
	Properties map[string]string `json:"properties"`
}

// geometry is a GeoJSON polygon.
type geometry struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

type statsData struct {
	Type       string     `json:"type"`
	DataFilter dataFilter `json:"dataFilter"`
}

type dataFilter struct {
	MaxCloudCoverage int `json:"maxCloudCoverage"`
}

type statsAggregation struct {
	TimeRange           timeRange `json:"timeRange"`
	AggregationInterval interval  `json:"aggregationInterval"`
	Evalscript          string    `json:"evalscript"`
}

type timeRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type interval struct {
	Of string `json:"of"`
}

// statsResponse is the subset of the Statistics API response we use.
type statsResponse struct {
	Data []struct {
		Outputs struct {
			NDVI struct {
				Bands struct {
					B0 struct {
						Stats struct {
							Mean        float64 `json:"mean"`
							SampleCount int     `json:"sampleCount"`
							NoDataCount int     `json:"noDataCount"`
						} `json:"stats"`
					} `json:"B0"`
				} `json:"bands"`
			} `json:"ndvi"`
		} `json:"outputs"`
	} `json:"data"`
	Status string `json:"status"`
}

// FetchNDVI retrieves the mean NDVI for a zone on the given date.
//
// The value is the spatial mean over a ~2 km box centered on the zone
// point, restricted to scenes with at most 20 % cloud coverage. Results
// are cached by zone name and date; refresh bypasses the cache.
//
// Returns:
//   - the mean NDVI in [-1, 1] on success
//   - [ErrNotFound] when no scene matched the date (clouds, no overpass)
//   - [ErrUnauthorized] when the credentials were rejected
//   - [ErrNetwork] for HTTP failures after retries
func (c *Client) FetchNDVI(ctx context.Context, zone config.Zone, date time.Time, refresh bool) (float64, error) {
	day := date.UTC().Format("2006-01-02")
	key := cache.Key("ndvi", zone.Name, day)

	var ndvi float64
	err := c.cached(ctx, key, refresh, &ndvi, func() error {
		v, err := c.fetchNDVI(ctx, zone, day)
		if err != nil {
			return err
		}
		ndvi = v
		return nil
	})
	if err != nil {
		return 0, err
	}
	return ndvi, nil
}

func (c *Client) fetchNDVI(ctx context.Context, zone config.Zone, day string) (float64, error) {
	req := statsRequest{
		Input: statsInput{
			Bounds: statsBounds{
				Geometry: boxAround(zone.Lat, zone.Lon, boxDelta),
				Properties: map[string]string{
					"crs": "http://www.opengis.net/def/crs/EPSG/0/4326",
				},
			},
			Data: []statsData{{
				Type:       "sentinel-2-l2a",
				DataFilter: dataFilter{MaxCloudCoverage: maxCloudCoverage},
			}},
		},
		Aggregation: statsAggregation{
			TimeRange: timeRange{
				From: day + "T00:00:00Z",
				To:   day + "T23:59:59Z",
			},
			AggregationInterval: interval{Of: "P1D"},
			Evalscript:          evalscript,
		},
	}

	var resp statsResponse
	if err := c.postJSON(ctx, c.baseURL+"/api/v1/statistics", req, &resp); err != nil {
		return 0, err
	}

	for _, d := range resp.Data {
		stats := d.Outputs.NDVI.Bands.B0.Stats
		if stats.SampleCount > 0 && stats.SampleCount > stats.NoDataCount && !math.IsNaN(stats.Mean) {
			return stats.Mean, nil
		}
	}
	return 0, fmt.Errorf("%w: zone %q on %s", ErrNotFound, zone.Name, day)
}

// boxAround builds a closed GeoJSON polygon for the square of half-width
// delta degrees centered on (lat, lon).
func boxAround(lat, lon, delta float64) geometry {
	return geometry{
		Type: "Polygon",
		Coordinates: [][][2]float64{{
			{lon - delta, lat - delta},
			{lon - delta, lat + delta},
			{lon + delta, lat + delta},
			{lon + delta, lat - delta},
			{lon - delta, lat - delta},
		}},
	}
}
