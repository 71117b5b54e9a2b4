package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		want    RoleMapping
	}{
		{
			name:    "korean agency header",
			columns: []string{"발생시각", "규모", "위치", "위도", "경도"},
			want: RoleMapping{
				RoleTime: "발생시각", RoleMagnitude: "규모", RoleRegion: "위치",
				RoleLatitude: "위도", RoleLongitude: "경도",
			},
		},
		{
			name:    "english header",
			columns: []string{"Occurrence Time", "Magnitude", "Location", "Latitude", "Longitude"},
			want: RoleMapping{
				RoleTime: "Occurrence Time", RoleMagnitude: "Magnitude", RoleRegion: "Location",
				RoleLatitude: "Latitude", RoleLongitude: "Longitude",
			},
		},
		{
			name:    "internal whitespace is ignored",
			columns: []string{"번호", "발생 시각", "규 모", "발생 지역"},
			want: RoleMapping{
				RoleTime: "발생 시각", RoleMagnitude: "규 모", RoleRegion: "발생 지역",
			},
		},
		{
			name:    "full-width latin folds",
			columns: []string{"ＬＡＴ", "ＬＯＮ"},
			want:    RoleMapping{RoleLatitude: "ＬＡＴ", RoleLongitude: "ＬＯＮ"},
		},
		{
			name:    "keyword order beats column order",
			columns: []string{"날짜", "시각"},
			want:    RoleMapping{RoleTime: "시각"},
		},
		{
			name:    "first matching column wins for a keyword",
			columns: []string{"규모(ML)", "규모(MW)"},
			want:    RoleMapping{RoleMagnitude: "규모(ML)"},
		},
		{
			name:    "no matches",
			columns: []string{"a", "b"},
			want:    RoleMapping{},
		},
	}

	c := NewClassifier(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.columns)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassifier_Deterministic(t *testing.T) {
	c := NewClassifier(nil)
	columns := []string{"일시", "Mag", "지역", "lat", "lon", "depth"}
	first := c.Classify(columns)
	for range 20 {
		assert.Equal(t, first, c.Classify(columns))
	}
}

func TestClassifier_CustomKeywords(t *testing.T) {
	c := NewClassifier(Keywords{
		RoleTime:      {"origin"},
		RoleMagnitude: {"ml"},
	})
	got := c.Classify([]string{"Origin Time (UTC)", "ML", "Region"})
	assert.Equal(t, RoleMapping{RoleTime: "Origin Time (UTC)", RoleMagnitude: "ML"}, got)
}

func TestClassifier_EmptyKeywordIgnored(t *testing.T) {
	c := NewClassifier(Keywords{RoleRegion: {" ", "place"}})
	got := c.Classify([]string{"a", "Place"})
	assert.Equal(t, RoleMapping{RoleRegion: "Place"}, got)
}

func TestFoldForMatch(t *testing.T) {
	assert.Equal(t, "occurrencetime", foldForMatch("  Occurrence\tTime "))
	assert.Equal(t, "발생시각", foldForMatch("발생 시각"))
	assert.Equal(t, "lat", foldForMatch("ＬＡＴ"))
}
