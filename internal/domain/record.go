package domain

import "time"

// Bucket is a discretized magnitude interval. The zero value means no bucket.
type Bucket string

const (
	BucketNone   Bucket = ""
	Bucket0To2   Bucket = "0~2"
	Bucket2To3   Bucket = "2~3"
	Bucket3To4   Bucket = "3~4"
	Bucket4To5   Bucket = "4~5"
	Bucket5To6   Bucket = "5~6"
	Bucket6AndUp Bucket = "6+"
)

// Buckets lists every bucket in ascending order.
var Buckets = []Bucket{Bucket0To2, Bucket2To3, Bucket3To4, Bucket4To5, Bucket5To6, Bucket6AndUp}

// NormalizedRecord is one table row plus the fields derived from the role
// mapping. Nil pointers are the null-equivalent for fields that failed to
// parse or whose role is unmapped.
type NormalizedRecord struct {
	ID        string     `json:"id"`
	Index     int        `json:"index"`
	Cells     []string   `json:"cells"`
	Region    string     `json:"region"`
	Time      *time.Time `json:"time,omitempty"`
	Year      *int       `json:"year,omitempty"`
	Magnitude *float64   `json:"magnitude,omitempty"`
	Bucket    Bucket     `json:"bucket,omitempty"`
	Lat       *float64   `json:"lat,omitempty"`
	Lon       *float64   `json:"lon,omitempty"`
}

// CoercionStats counts per-cell parse failures from one normalization run.
type CoercionStats struct {
	Rows              int `json:"rows"`
	TimeFailures      int `json:"time_failures"`
	MagnitudeFailures int `json:"magnitude_failures"`
	CoordFailures     int `json:"coord_failures"`
}
