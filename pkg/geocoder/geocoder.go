package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Location is a resolved point for an address or zipcode.
type Location struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
}

// Geocoder resolves a free-form address or zipcode to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Location, error)
}

// MapQuest implements Geocoder using the MapQuest open geocoding API.
type MapQuest struct {
	Key    string
	Client *http.Client
}

func NewMapQuest(key string) *MapQuest {
	return &MapQuest{Key: key, Client: &http.Client{Timeout: 5 * time.Second}}
}

func (g *MapQuest) Geocode(ctx context.Context, query string) (Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Location{}, fmt.Errorf("empty query")
	}
	client := g.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	u := fmt.Sprintf("https://open.mapquestapi.com/geocoding/v1/address?key=%s&location=%s&maxResults=1",
		url.QueryEscape(g.Key), url.QueryEscape(query))
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	resp, err := client.Do(req)
	if err != nil {
		return Location{}, err
	}
	defer resp.Body.Close()

	var body struct {
		Results []struct {
			Locations []struct {
				LatLng struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"latLng"`
				Street     string `json:"street"`
				City       string `json:"adminArea5"`
				State      string `json:"adminArea3"`
				PostalCode string `json:"postalCode"`
				Country    string `json:"adminArea1"`
			} `json:"locations"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Location{}, err
	}
	if len(body.Results) == 0 || len(body.Results[0].Locations) == 0 {
		return Location{}, fmt.Errorf("no geocoding result for %q", query)
	}
	loc := body.Results[0].Locations[0]

	var parts []string
	for _, s := range []string{loc.Street, loc.City, loc.State, loc.PostalCode, loc.Country} {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return Location{
		Latitude:         loc.LatLng.Lat,
		Longitude:        loc.LatLng.Lng,
		FormattedAddress: strings.Join(parts, ", "),
	}, nil
}
