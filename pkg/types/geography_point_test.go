package types

import (
	"encoding/json"
	"testing"
)

func TestGeographyPointJSONRoundTrip(t *testing.T) {
	t.Parallel()

	point := NewGeographyPoint(105.854444, 21.028511)

	raw, err := json.Marshal(point)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != "[105.854444,21.028511]" {
		t.Fatalf("unexpected JSON form: %s", raw)
	}

	var decoded GeographyPoint
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != point {
		t.Fatalf("round trip mismatch: %+v != %+v", decoded, point)
	}
}

func TestGeographyPointUnmarshalRejectsBadShapes(t *testing.T) {
	t.Parallel()

	cases := []string{
		`{"lng": 1, "lat": 2}`,
		`[1]`,
		`[1, 2, 3]`,
		`"POINT(1 2)"`,
	}
	for _, payload := range cases {
		var point GeographyPoint
		if err := json.Unmarshal([]byte(payload), &point); err == nil {
			t.Fatalf("expected error for %s", payload)
		}
	}
}

func TestGeographyPointValue(t *testing.T) {
	t.Parallel()

	value, err := NewGeographyPoint(105.5, 21.0).Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if value != "SRID=4326;POINT(105.500000 21.000000)" {
		t.Fatalf("unexpected EWKT: %v", value)
	}
}

func TestGeographyPointScanWKT(t *testing.T) {
	t.Parallel()

	var point GeographyPoint
	if err := point.Scan("SRID=4326;POINT(105.854444 21.028511)"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if point.Lng != 105.854444 || point.Lat != 21.028511 {
		t.Fatalf("unexpected point: %+v", point)
	}
}
