package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fullMapping = RoleMapping{
	RoleTime: "발생시각", RoleMagnitude: "규모", RoleRegion: "위치",
	RoleLatitude: "위도", RoleLongitude: "경도",
}

func TestNormalize_Total(t *testing.T) {
	table := LabeledTable{
		Columns: []string{"발생시각", "규모", "위치", "위도", "경도"},
		Rows: [][]string{
			{"2016-09-12 20:32:54", "5.8", " 경북 경주시 ", "35.76", "129.19"},
			{"not a date", "big", "제주", "N/A", "126.5"},
			{"", "", ""},
			{},
			{"2017/11/15 14:29:31", "5.4", "경북 포항시", "36.12", "129.36", "extra"},
		},
	}

	records, stats := Normalize(table, fullMapping)
	require.Len(t, records, len(table.Rows))

	r := records[0]
	require.NotNil(t, r.Time)
	assert.Equal(t, time.Date(2016, 9, 12, 20, 32, 54, 0, time.UTC), *r.Time)
	require.NotNil(t, r.Year)
	assert.Equal(t, 2016, *r.Year)
	require.NotNil(t, r.Magnitude)
	assert.InEpsilon(t, 5.8, *r.Magnitude, 1e-9)
	assert.Equal(t, Bucket5To6, r.Bucket)
	assert.Equal(t, "경북 경주시", r.Region)
	require.NotNil(t, r.Lat)
	assert.InEpsilon(t, 35.76, *r.Lat, 1e-9)

	bad := records[1]
	assert.Nil(t, bad.Time)
	assert.Nil(t, bad.Year)
	assert.Nil(t, bad.Magnitude)
	assert.Equal(t, BucketNone, bad.Bucket)
	assert.Nil(t, bad.Lat)
	assert.Nil(t, bad.Lon)
	assert.Equal(t, "제주", bad.Region)

	assert.Empty(t, records[3].Region)
	assert.Equal(t, 2017, *records[4].Year)

	assert.Equal(t, 5, stats.Rows)
	assert.Equal(t, 3, stats.TimeFailures)
	assert.Equal(t, 3, stats.MagnitudeFailures)
	assert.Equal(t, 3, stats.CoordFailures)

	for i, rec := range records {
		assert.Equal(t, i, rec.Index)
		assert.NotEmpty(t, rec.ID)
	}
}

func TestNormalize_UnsetCoordinates(t *testing.T) {
	table := LabeledTable{
		Columns: []string{"time", "mag", "region", "lat"},
		Rows:    [][]string{{"2020-01-01", "2.0", "x", "36.0"}},
	}
	mapping := RoleMapping{RoleTime: "time", RoleMagnitude: "mag", RoleRegion: "region", RoleLatitude: "lat", RoleLongitude: NoColumn}

	records, stats := Normalize(table, mapping)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Lat)
	assert.Zero(t, stats.CoordFailures)
}

func TestNormalize_DuplicateColumnsUseFirst(t *testing.T) {
	table := LabeledTable{
		Columns: []string{"규모", "규모"},
		Rows:    [][]string{{"3.0", "7.0"}},
	}
	records, _ := Normalize(table, RoleMapping{RoleMagnitude: "규모"})
	require.NotNil(t, records[0].Magnitude)
	assert.InEpsilon(t, 3.0, *records[0].Magnitude, 1e-9)
}

func TestNormalize_StableIDs(t *testing.T) {
	table := LabeledTable{Columns: []string{"a"}, Rows: [][]string{{"1"}, {"1"}}}
	first, _ := Normalize(table, RoleMapping{})
	second, _ := Normalize(table, RoleMapping{})
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.NotEqual(t, first[0].ID, first[1].ID, "row index is part of the ID")
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2016-09-12 20:32:54", time.Date(2016, 9, 12, 20, 32, 54, 0, time.UTC)},
		{"2016-09-12 20:32", time.Date(2016, 9, 12, 20, 32, 0, 0, time.UTC)},
		{"2016-09-12", time.Date(2016, 9, 12, 0, 0, 0, 0, time.UTC)},
		{"2016-09-12T20:32:54Z", time.Date(2016, 9, 12, 20, 32, 54, 0, time.UTC)},
		{"2016/09/12 20:32:54", time.Date(2016, 9, 12, 20, 32, 54, 0, time.UTC)},
		{"2016.09.12", time.Date(2016, 9, 12, 0, 0, 0, 0, time.UTC)},
		{"2016. 9. 12.", time.Date(2016, 9, 12, 0, 0, 0, 0, time.UTC)},
		{"09/12/2016", time.Date(2016, 9, 12, 0, 0, 0, 0, time.UTC)},
		{"20160912", time.Date(2016, 9, 12, 0, 0, 0, 0, time.UTC)},
		{"2016", time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)},
		{" 2016-09-12 ", time.Date(2016, 9, 12, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTime(tt.in)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseTime_ExcelSerial(t *testing.T) {
	got, ok := ParseTime("42625.5")
	require.True(t, ok)
	assert.Equal(t, 2016, got.Year())
	assert.Equal(t, time.September, got.Month())
	assert.Equal(t, 12, got.Day())
}

func TestParseTime_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "yesterday", "2016-13-45", "-5", "9999999"} {
		_, ok := ParseTime(in)
		assert.False(t, ok, in)
	}
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		m    float64
		want Bucket
	}{
		{-1, BucketNone},
		{0, Bucket0To2},
		{1.5, Bucket0To2},
		{2.0, Bucket0To2},
		{2.01, Bucket2To3},
		{3.0, Bucket2To3},
		{3.5, Bucket3To4},
		{4.0, Bucket3To4},
		{5.0, Bucket4To5},
		{5.8, Bucket5To6},
		{6.0, Bucket5To6},
		{6.1, Bucket6AndUp},
		{10, Bucket6AndUp},
		{10.01, BucketNone},
		{11, BucketNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BucketFor(tt.m), "magnitude %v", tt.m)
	}
}
