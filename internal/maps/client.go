// Package maps wraps the Google Maps web service endpoints used by the
// matcher and the ride orchestrator. The client is constructed once in
// main and injected; there is no lazy global handle.
package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"vezoh_backend/internal/geo"
)

// ProviderError marks a failure of the external mapping provider. Callers
// are expected to absorb it into a fallback estimate rather than surface
// it to riders.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("maps: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Client calls the Google Maps REST endpoints. BaseURL and PlacesURL are
// overridable so tests can point at an httptest server.
type Client struct {
	APIKey     string
	BaseURL    string
	PlacesURL  string
	HTTPClient *http.Client
}

// NewClient builds a client with a bounded request timeout so a slow
// provider cannot stall the matcher or the ride orchestrator.
func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		APIKey:     apiKey,
		BaseURL:    "https://maps.googleapis.com",
		PlacesURL:  "https://places.googleapis.com",
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// DistanceResult mirrors one Distance Matrix element.
type DistanceResult struct {
	DistanceText    string `json:"distance_text"`
	DistanceMeters  int    `json:"distance_meters"`
	DurationText    string `json:"duration_text"`
	DurationSeconds int    `json:"duration_seconds"`
}

type distanceMatrixResponse struct {
	Rows []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Text  string `json:"text"`
				Value int    `json:"value"`
			} `json:"distance"`
			Duration struct {
				Text  string `json:"text"`
				Value int    `json:"value"`
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// Distance asks the Distance Matrix API for driving (or walking etc.)
// distance and duration between two coordinates.
func (c *Client) Distance(ctx context.Context, origin, destination geo.Coordinate, mode string) (*DistanceResult, error) {
	q := url.Values{}
	q.Set("origins", fmt.Sprintf("%f,%f", origin.Latitude, origin.Longitude))
	q.Set("destinations", fmt.Sprintf("%f,%f", destination.Latitude, destination.Longitude))
	q.Set("key", c.APIKey)
	q.Set("units", "metric")
	q.Set("mode", mode)
	q.Set("avoid", "tolls")

	var parsed distanceMatrixResponse
	if err := c.getJSON(ctx, c.BaseURL+"/maps/api/distancematrix/json?"+q.Encode(), &parsed); err != nil {
		return nil, &ProviderError{Op: "distance", Err: err}
	}

	if len(parsed.Rows) == 0 || len(parsed.Rows[0].Elements) == 0 {
		return nil, &ProviderError{Op: "distance", Err: fmt.Errorf("empty distance matrix response")}
	}
	el := parsed.Rows[0].Elements[0]
	if el.Status != "OK" {
		return nil, &ProviderError{Op: "distance", Err: fmt.Errorf("element status %s", el.Status)}
	}

	return &DistanceResult{
		DistanceText:    el.Distance.Text,
		DistanceMeters:  el.Distance.Value,
		DurationText:    el.Duration.Text,
		DurationSeconds: el.Duration.Value,
	}, nil
}

// GeocodeResult is a resolved place for forward or reverse geocoding.
type GeocodeResult struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	PlaceID   string  `json:"place_id"`
}

type geocodeResponse struct {
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		PlaceID          string `json:"place_id"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode converts an address to coordinates, biased to India like the
// mobile clients expect.
func (c *Client) Geocode(ctx context.Context, address string) (*GeocodeResult, error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("key", c.APIKey)
	q.Set("region", "in")
	return c.geocode(ctx, q)
}

// ReverseGeocode converts coordinates to the nearest address.
func (c *Client) ReverseGeocode(ctx context.Context, coord geo.Coordinate) (*GeocodeResult, error) {
	q := url.Values{}
	q.Set("latlng", fmt.Sprintf("%f,%f", coord.Latitude, coord.Longitude))
	q.Set("key", c.APIKey)
	return c.geocode(ctx, q)
}

func (c *Client) geocode(ctx context.Context, q url.Values) (*GeocodeResult, error) {
	var parsed geocodeResponse
	if err := c.getJSON(ctx, c.BaseURL+"/maps/api/geocode/json?"+q.Encode(), &parsed); err != nil {
		return nil, &ProviderError{Op: "geocode", Err: err}
	}
	if len(parsed.Results) == 0 {
		return nil, &ProviderError{Op: "geocode", Err: fmt.Errorf("no results")}
	}
	r := parsed.Results[0]
	return &GeocodeResult{
		Address:   r.FormattedAddress,
		Latitude:  r.Geometry.Location.Lat,
		Longitude: r.Geometry.Location.Lng,
		PlaceID:   r.PlaceID,
	}, nil
}

// Suggestion is one autocomplete prediction.
type Suggestion struct {
	PlaceID       string `json:"place_id"`
	Text          string `json:"text"`
	MainText      string `json:"main_text"`
	SecondaryText string `json:"secondary_text"`
}

type autocompleteResponse struct {
	Suggestions []struct {
		PlacePrediction struct {
			PlaceID string `json:"placeId"`
			Text    struct {
				Text string `json:"text"`
			} `json:"text"`
			StructuredFormat struct {
				MainText struct {
					Text string `json:"text"`
				} `json:"mainText"`
				SecondaryText struct {
					Text string `json:"text"`
				} `json:"secondaryText"`
			} `json:"structuredFormat"`
		} `json:"placePrediction"`
	} `json:"suggestions"`
}

// Autocomplete fetches place predictions for a partial input, optionally
// biased around the rider's location.
func (c *Client) Autocomplete(ctx context.Context, input string, near *geo.Coordinate) ([]Suggestion, error) {
	body := map[string]interface{}{
		"input":               input,
		"includedRegionCodes": []string{"IN"},
	}
	if near != nil {
		body["locationBias"] = map[string]interface{}{
			"circle": map[string]interface{}{
				"center": map[string]float64{
					"latitude":  near.Latitude,
					"longitude": near.Longitude,
				},
				"radius": 50000.0,
			},
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &ProviderError{Op: "autocomplete", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.PlacesURL+"/v1/places:autocomplete", bytes.NewReader(payload))
	if err != nil {
		return nil, &ProviderError{Op: "autocomplete", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.APIKey)

	var parsed autocompleteResponse
	if err := c.doJSON(req, &parsed); err != nil {
		return nil, &ProviderError{Op: "autocomplete", Err: err}
	}

	suggestions := make([]Suggestion, 0, len(parsed.Suggestions))
	for _, s := range parsed.Suggestions {
		suggestions = append(suggestions, Suggestion{
			PlaceID:       s.PlacePrediction.PlaceID,
			Text:          s.PlacePrediction.Text.Text,
			MainText:      s.PlacePrediction.StructuredFormat.MainText.Text,
			SecondaryText: s.PlacePrediction.StructuredFormat.SecondaryText.Text,
		})
	}
	return suggestions, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

func (c *Client) doJSON(req *http.Request, out interface{}) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
