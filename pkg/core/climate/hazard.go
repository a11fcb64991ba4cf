// Package climate turns geographic points into a physical climate risk
// score. Heat risk comes from projected mid-century extreme temperatures
// (Open-Meteo climate API); flood risk is an elevation heuristic
// (Open-Elevation). Backend unavailability is signaled distinctly from a
// valid zero measurement.
package climate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrUnavailable marks a hazard backend failure. Callers substitute the
// neutral sub-risk rather than aborting.
var ErrUnavailable = errors.New("hazard backend unavailable")

const (
	// DefaultOpenMeteoURL is the Open-Meteo climate projection endpoint.
	DefaultOpenMeteoURL = "https://climate-api.open-meteo.com/v1/climate"

	// DefaultOpenElevationURL is the Open-Elevation lookup endpoint.
	DefaultOpenElevationURL = "https://api.open-elevation.com/api/v1/lookup"

	// DefaultTimeout bounds every hazard call.
	DefaultTimeout = 30 * time.Second

	// Mid-century projection window and model, matching the heat risk
	// calibration (July maxima, MPI-ESM1-2-LR).
	projectionStartYear = 2031
	projectionEndYear   = 2060
	projectionMonth     = 7
	projectionModel     = "MPI-ESM1-2-LR"
)

// HeatBackend reports the maximum projected daily temperature (°C) for the
// mid-century window at a point.
type HeatBackend interface {
	MaxProjectedTemp(ctx context.Context, lat, lon float64) (float64, error)
}

// ElevationBackend reports the elevation (meters) at a point.
type ElevationBackend interface {
	Elevation(ctx context.Context, lat, lon float64) (float64, error)
}

// OpenMeteoClient implements HeatBackend against the Open-Meteo climate API.
type OpenMeteoClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewOpenMeteoClient creates a heat backend client. A nil httpClient gets
// the default bounded-timeout client.
func NewOpenMeteoClient(baseURL string, httpClient *http.Client) *OpenMeteoClient {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &OpenMeteoClient{baseURL: baseURL, httpClient: httpClient}
}

// MaxProjectedTemp returns the highest projected daily maximum temperature
// in the window. Any transport or shape failure maps to ErrUnavailable.
func (c *OpenMeteoClient) MaxProjectedTemp(ctx context.Context, lat, lon float64) (float64, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.6f", lat))
	params.Set("longitude", fmt.Sprintf("%.6f", lon))
	params.Set("start_year", fmt.Sprintf("%d", projectionStartYear))
	params.Set("end_year", fmt.Sprintf("%d", projectionEndYear))
	params.Set("month", fmt.Sprintf("%d", projectionMonth))
	params.Set("models", projectionModel)
	params.Set("daily", "temperature_2m_max")

	var payload struct {
		Daily struct {
			Temperature2mMax []float64 `json:"temperature_2m_max"`
		} `json:"daily"`
	}
	if err := getJSON(ctx, c.httpClient, c.baseURL+"?"+params.Encode(), &payload); err != nil {
		return 0, err
	}
	if len(payload.Daily.Temperature2mMax) == 0 {
		return 0, fmt.Errorf("%w: no temperature data returned", ErrUnavailable)
	}

	mx := payload.Daily.Temperature2mMax[0]
	for _, v := range payload.Daily.Temperature2mMax[1:] {
		if v > mx {
			mx = v
		}
	}
	return mx, nil
}

// OpenElevationClient implements ElevationBackend against Open-Elevation.
type OpenElevationClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewOpenElevationClient creates an elevation backend client.
func NewOpenElevationClient(baseURL string, httpClient *http.Client) *OpenElevationClient {
	if baseURL == "" {
		baseURL = DefaultOpenElevationURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &OpenElevationClient{baseURL: baseURL, httpClient: httpClient}
}

// Elevation returns the elevation in meters at the point. A valid zero
// (sea level) is a normal result; failures map to ErrUnavailable.
func (c *OpenElevationClient) Elevation(ctx context.Context, lat, lon float64) (float64, error) {
	params := url.Values{}
	params.Set("locations", fmt.Sprintf("%.6f,%.6f", lat, lon))

	var payload struct {
		Results []struct {
			Elevation float64 `json:"elevation"`
		} `json:"results"`
	}
	if err := getJSON(ctx, c.httpClient, c.baseURL+"?"+params.Encode(), &payload); err != nil {
		return 0, err
	}
	if len(payload.Results) == 0 {
		return 0, fmt.Errorf("%w: no elevation results", ErrUnavailable)
	}
	return payload.Results[0].Elevation, nil
}

func getJSON(ctx context.Context, client *http.Client, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
