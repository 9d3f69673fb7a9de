package utils

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrAddressNotFound = errors.New("address not found")

// Geocoder resolves a free-form address to coordinates
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

// Geo is nil when GEOCODER_URL is not configured
var Geo Geocoder

// NominatimGeocoder queries a Nominatim-compatible /search endpoint
type NominatimGeocoder struct {
	client *resty.Client
}

func NewNominatimGeocoder(baseURL, userAgent string) *NominatimGeocoder {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json").
		SetTimeout(5 * time.Second).
		SetRetryCount(1)
	return &NominatimGeocoder{client: client}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	var results []nominatimResult
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      address,
			"format": "json",
			"limit":  "1",
		}).
		SetResult(&results).
		Get("/search")
	if err != nil {
		return 0, 0, NewExternalError("geocoder request failed", err)
	}
	if resp.IsError() {
		return 0, 0, NewExternalError("geocoder request failed", fmt.Errorf("status %d", resp.StatusCode()))
	}
	if len(results) == 0 {
		return 0, 0, ErrAddressNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, NewExternalError("geocoder returned an invalid latitude", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, NewExternalError("geocoder returned an invalid longitude", err)
	}
	return lat, lng, nil
}
