package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	records := []NormalizedRecord{
		rec("경주", ptr(2016), ptr(5.8)),
		rec("경주", ptr(2016), ptr(2.0)),
		rec("포항", ptr(2017), ptr(5.4)),
		rec("제주", ptr(2017), ptr(1.1)),
		rec("", nil, nil),
	}

	got := Summarize(records)
	want := Summary{
		Total: 5,
		ByRegion: []Count{
			{Key: "경주", Count: 2},
			{Key: "제주", Count: 1},
			{Key: "포항", Count: 1},
		},
		ByYear: []Count{
			{Key: "2016", Count: 2},
			{Key: "2017", Count: 2},
		},
		ByBucket: []Count{
			{Key: "0~2", Count: 2},
			{Key: "5~6", Count: 2},
		},
		ByYearBucket: []YearBucketCount{
			{Year: 2016, Bucket: Bucket0To2, Count: 1},
			{Year: 2016, Bucket: Bucket5To6, Count: 1},
			{Year: 2017, Bucket: Bucket0To2, Count: 1},
			{Year: 2017, Bucket: Bucket5To6, Count: 1},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize_Empty(t *testing.T) {
	got := Summarize(nil)
	assert.Zero(t, got.Total)
	assert.NotNil(t, got.ByRegion)
	assert.Empty(t, got.ByYearBucket)
}

func TestPoints(t *testing.T) {
	records := []NormalizedRecord{
		{Lat: ptr(35.76), Lon: ptr(129.19)},
		{},
		{Lat: ptr(36.12), Lon: ptr(129.36)},
	}

	points, notice := Points(records, fullMapping)
	require.Nil(t, notice)
	assert.Equal(t, []Point{{Lat: 35.76, Lon: 129.19}, {Lat: 36.12, Lon: 129.36}}, points)
}

func TestPoints_RolesUnset(t *testing.T) {
	mapping := RoleMapping{RoleLatitude: "위도", RoleLongitude: NoColumn}
	points, notice := Points([]NormalizedRecord{{Lat: ptr(1.0), Lon: ptr(2.0)}}, mapping)
	assert.Nil(t, points)
	require.NotNil(t, notice)
	assert.Equal(t, NoticeGeoRolesUnset, notice.Code)
}

func TestPoints_NotNumeric(t *testing.T) {
	points, notice := Points([]NormalizedRecord{{}, {}}, fullMapping)
	assert.Nil(t, points)
	require.NotNil(t, notice)
	assert.Equal(t, NoticeGeoNotNumeric, notice.Code)

	points, notice = Points(nil, fullMapping)
	assert.Empty(t, points)
	assert.Nil(t, notice, "an empty selection is not a coordinate problem")
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))
	assert.Contains(t, UserMessage(ErrMissingSource), "could not be found")
	assert.Contains(t, UserMessage(ErrHeaderNotFound), "header row")
	assert.Equal(t, "The earthquake data could not be analyzed.", UserMessage(assert.AnError))
}
