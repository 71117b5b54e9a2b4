package domain

import (
	"sort"
	"strconv"
)

// Count is one aggregation bucket.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// YearBucketCount counts records for one (year, magnitude bucket) pair.
type YearBucketCount struct {
	Year   int    `json:"year"`
	Bucket Bucket `json:"bucket"`
	Count  int    `json:"count"`
}

// Summary holds the grouped counts the presentation layer charts.
type Summary struct {
	Total        int               `json:"total"`
	ByRegion     []Count           `json:"by_region"`
	ByYear       []Count           `json:"by_year"`
	ByBucket     []Count           `json:"by_bucket"`
	ByYearBucket []YearBucketCount `json:"by_year_bucket"`
}

// Summarize aggregates records. Region counts are ordered by count
// descending then name; years ascending; buckets in magnitude order. Records
// missing the grouped field are left out of that grouping.
func Summarize(records []NormalizedRecord) Summary {
	regions := make(map[string]int)
	years := make(map[int]int)
	buckets := make(map[Bucket]int)
	type yb struct {
		year   int
		bucket Bucket
	}
	pairs := make(map[yb]int)

	for i := range records {
		r := &records[i]
		if r.Region != "" {
			regions[r.Region]++
		}
		if r.Year != nil {
			years[*r.Year]++
		}
		if r.Bucket != BucketNone {
			buckets[r.Bucket]++
		}
		if r.Year != nil && r.Bucket != BucketNone {
			pairs[yb{*r.Year, r.Bucket}]++
		}
	}

	s := Summary{
		Total:        len(records),
		ByRegion:     make([]Count, 0, len(regions)),
		ByYear:       make([]Count, 0, len(years)),
		ByBucket:     make([]Count, 0, len(buckets)),
		ByYearBucket: make([]YearBucketCount, 0, len(pairs)),
	}

	for k, n := range regions {
		s.ByRegion = append(s.ByRegion, Count{Key: k, Count: n})
	}
	sort.Slice(s.ByRegion, func(i, j int) bool {
		if s.ByRegion[i].Count != s.ByRegion[j].Count {
			return s.ByRegion[i].Count > s.ByRegion[j].Count
		}
		return s.ByRegion[i].Key < s.ByRegion[j].Key
	})

	yearKeys := make([]int, 0, len(years))
	for y := range years {
		yearKeys = append(yearKeys, y)
	}
	sort.Ints(yearKeys)
	for _, y := range yearKeys {
		s.ByYear = append(s.ByYear, Count{Key: strconv.Itoa(y), Count: years[y]})
	}

	for _, b := range Buckets {
		if n, ok := buckets[b]; ok {
			s.ByBucket = append(s.ByBucket, Count{Key: string(b), Count: n})
		}
	}

	for _, y := range yearKeys {
		for _, b := range Buckets {
			if n, ok := pairs[yb{y, b}]; ok {
				s.ByYearBucket = append(s.ByYearBucket, YearBucketCount{Year: y, Bucket: b, Count: n})
			}
		}
	}
	return s
}
