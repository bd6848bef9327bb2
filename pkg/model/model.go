// Package model holds the entities of the results schema.
// Identity is determined by natural keys, the serial ids are internal.
package model

import (
	"fmt"
	"strings"
	"unicode"
)

type Season struct {
	ID   int
	Year int
}

type Category struct {
	ID   int
	Name string
}

type EventLocation struct {
	ID   int
	Name string
}

type Event struct {
	ID         int
	SeasonID   int
	LocationID int
}

// EventDetail is an Event joined with its season year and location name.
type EventDetail struct {
	ID         int
	SeasonID   int
	SeasonYear int
	LocationID int
	Location   string
}

type Session struct {
	ID         int
	EventID    int
	CategoryID int
	Type       string
	PointEvent bool
	SourceURL  string
}

type Rider struct {
	ID          int
	FullName    string
	LastName    string
	FirstName   string
	Nationality string
}

// DisplayName is the rider label used on charts and menus ("V. ROSSI").
func (r *Rider) DisplayName() string {
	return DisplayName(r.FirstName, r.LastName)
}

func DisplayName(first, last string) string {
	if first == "" {
		return strings.ToUpper(last)
	}
	initial := unicode.ToUpper([]rune(first)[0])
	return fmt.Sprintf("%c. %s", initial, strings.ToUpper(last))
}

type Team struct {
	ID   int
	Name string
}

type Brand struct {
	ID   int
	Name string
}

type Result struct {
	ID        int
	SessionID int
	RiderID   int
	BrandID   int
	TeamID    int
	Position  int
	TopSpeed  string
	LapTime   string
}

// RiderResult is a Result joined with its rider, as consumed by the
// standings and history engines.
type RiderResult struct {
	FirstName string
	LastName  string
	Position  int
	LapTime   string
}

func (r *RiderResult) DisplayName() string {
	return DisplayName(r.FirstName, r.LastName)
}

// Checkpoint is the singleton resume state for the scrape and chart runs.
type Checkpoint struct {
	ScrapedSeason int
	ScrapedEvent  string
	ChartedSeason int
	ChartedEvent  string
}
