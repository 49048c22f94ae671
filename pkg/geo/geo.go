// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package geo parses and validates GeoJSON Point locations.

A point arrives either as a JSON object or, from multipart forms, as a string
holding that object:

	{"type": "Point", "coordinates": [106.6297, 10.8231]}
	"{\"type\":\"Point\",\"coordinates\":[106.6297,10.8231]}"

Coordinates are [longitude, latitude], in that order.
*/
package geo

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// TypePoint is the only GeoJSON geometry accepted.
const TypePoint = "Point"

var (
	ErrMalformed   = errors.New("location must be a GeoJSON Point object")
	ErrType        = errors.New("location type must be Point")
	ErrCoordinates = errors.New("location coordinates must be [longitude, latitude]")
	ErrRange       = errors.New("location coordinates are out of range")
)

// Point is a GeoJSON point.
type Point struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// NewPoint builds a point from a longitude and a latitude.
func NewPoint(longitude, latitude float64) Point {
	return Point{Type: TypePoint, Coordinates: [2]float64{longitude, latitude}}
}

// Longitude returns the first coordinate.
func (p Point) Longitude() float64 { return p.Coordinates[0] }

// Latitude returns the second coordinate.
func (p Point) Latitude() float64 { return p.Coordinates[1] }

// rawPoint keeps the coordinate count so a 3-element array is not truncated silently.
type rawPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

/*
Parse decodes a location from a JSON object or a JSON-encoded string.

Parameters:
  - raw: Form value or request body fragment

Returns:
  - Point: The validated point
  - error: ErrMalformed, ErrType, ErrCoordinates or ErrRange
*/
func Parse(raw string) (Point, error) {
	return ParseJSON([]byte(strings.TrimSpace(raw)))
}

// ParseJSON is [Parse] over raw bytes.
func ParseJSON(data []byte) (Point, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return Point{}, ErrMalformed
	}

	// A multipart form carries the object as a string; unwrap it once.
	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return Point{}, ErrMalformed
		}
		data = []byte(strings.TrimSpace(inner))
	}

	var decoded rawPoint
	if err := json.Unmarshal(data, &decoded); err != nil {
		return Point{}, ErrMalformed
	}

	if decoded.Type != TypePoint {
		return Point{}, ErrType
	}
	if len(decoded.Coordinates) != 2 {
		return Point{}, ErrCoordinates
	}

	point := NewPoint(decoded.Coordinates[0], decoded.Coordinates[1])
	if err := point.Validate(); err != nil {
		return Point{}, err
	}

	return point, nil
}

// Validate checks the geometry type and the coordinate ranges.
func (p Point) Validate() error {
	if p.Type != TypePoint {
		return ErrType
	}
	if p.Longitude() < -180 || p.Longitude() > 180 || p.Latitude() < -90 || p.Latitude() > 90 {
		return ErrRange
	}
	return nil
}

// UnmarshalJSON accepts both the object and the string-wrapped form.
func (p *Point) UnmarshalJSON(data []byte) error {
	point, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*p = point
	return nil
}
