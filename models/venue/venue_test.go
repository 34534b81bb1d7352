package venue

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVenue_UnmarshalJSON(t *testing.T) {
	data := `{
		"name": "Кофейня на Арбате",
		"coordinates": [55.7520, 37.5929],
		"address": "ул. Арбат, 10",
		"phone": "+7 495 000-00-00",
		"hours": "Пн–Пт: 08:00–22:00, Сб–Вс: 10:00–22:00",
		"description": "Рейтинг: 4,7 / 5",
		"district": "Арбат",
		"photo": "img/arbat.jpg",
		"reviewLink": "https://example.com/arbat"
	}`

	var v Venue
	require.NoError(t, json.Unmarshal([]byte(data), &v))

	assert.Equal(t, "Кофейня на Арбате", v.Name)
	assert.Equal(t, 4.7, v.Rating)
	assert.Len(t, v.Schedule.Periods, 2)
	assert.False(t, v.Schedule.Unknown)

	lat, lon, ok := v.Location()
	assert.True(t, ok)
	assert.Equal(t, 55.7520, lat)
	assert.Equal(t, 37.5929, lon)
}

func TestVenue_UnmarshalJSONExplicitRating(t *testing.T) {
	var v Venue
	require.NoError(t, json.Unmarshal([]byte(`{"name":"A","rating":3.5,"description":"5 звезд","hours":"Круглосуточно"}`), &v))

	assert.Equal(t, 3.5, v.Rating)
	assert.True(t, v.Schedule.AlwaysOpen)
	assert.True(t, v.IsAlwaysOpen())
	assert.False(t, v.HasLocation())
}

func TestVenue_Location(t *testing.T) {
	tests := []struct {
		name        string
		coordinates []float64
		ok          bool
	}{
		{"valid", []float64{55.75, 37.61}, true},
		{"missing", nil, false},
		{"one value", []float64{55.75}, false},
		{"latitude out of range", []float64{95, 37.61}, false},
		{"not a number", []float64{math.NaN(), 37.61}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Venue{Coordinates: tt.coordinates}
			assert.Equal(t, tt.ok, v.HasLocation())
		})
	}
}

func TestVenue_NormalizeKeepsRating(t *testing.T) {
	v := Venue{Name: "B", Rating: 4.5, Description: "2 из 5", Hours: "Пн: 09:00–18:00"}
	v.Normalize()
	assert.Equal(t, 4.5, v.Rating)
	assert.Len(t, v.Schedule.Periods, 1)

	w := Venue{Name: "C", Description: "оценка 2"}
	w.Normalize()
	assert.Equal(t, 2.0, w.Rating)
	assert.True(t, w.Schedule.Unknown)
}

func TestExtractRating(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"4.5", 4.5},
		{"Рейтинг 3,8", 3.8},
		{"5 звезд", 5},
		{"нет оценки", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractRating(tt.text), tt.text)
	}
}

func TestBandOf(t *testing.T) {
	assert.Equal(t, RatingBandGreen, BandOf(4))
	assert.Equal(t, RatingBandGreen, BandOf(4.9))
	assert.Equal(t, RatingBandYellow, BandOf(3))
	assert.Equal(t, RatingBandRed, BandOf(2.9))
	assert.Equal(t, RatingBandRed, BandOf(0))
}
