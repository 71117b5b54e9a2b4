package domain

// Point is a coordinate pair for map rendering.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NoticeCode identifies a non-fatal condition reported alongside results.
type NoticeCode string

const (
	// NoticeGeoRolesUnset means latitude or longitude is mapped to none.
	NoticeGeoRolesUnset NoticeCode = "geo_roles_unset"
	// NoticeGeoNotNumeric means no record had a numeric coordinate pair.
	NoticeGeoNotNumeric NoticeCode = "geo_not_numeric"
	// NoticeHeaderFallback means header detection failed and row 0 was used.
	NoticeHeaderFallback NoticeCode = "header_fallback"
)

// Notice is an informational message for the end user.
type Notice struct {
	Code    NoticeCode `json:"code"`
	Message string     `json:"message"`
}

// Points collects the coordinate pairs of records for mapping. Records
// without a numeric pair are skipped. When a coordinate role is unset, or
// when no record has a usable pair, the point set is suppressed entirely and
// a notice explains why.
func Points(records []NormalizedRecord, mapping RoleMapping) ([]Point, *Notice) {
	_, okLat := mapping.Column(RoleLatitude)
	_, okLon := mapping.Column(RoleLongitude)
	if !okLat || !okLon {
		return nil, &Notice{
			Code:    NoticeGeoRolesUnset,
			Message: "Latitude/longitude columns are not selected; skipping the map.",
		}
	}

	points := make([]Point, 0, len(records))
	for i := range records {
		if records[i].Lat == nil || records[i].Lon == nil {
			continue
		}
		points = append(points, Point{Lat: *records[i].Lat, Lon: *records[i].Lon})
	}
	if len(points) == 0 && len(records) > 0 {
		return nil, &Notice{
			Code:    NoticeGeoNotNumeric,
			Message: "Latitude/longitude values are not numeric; the map cannot be drawn.",
		}
	}
	return points, nil
}
