package models

import "testing"

func TestDisplayType(t *testing.T) {
	if got := DisplayType(TypeS400); got != "POWER_STATION" {
		t.Fatalf("expected POWER_STATION, got %s", got)
	}
	if got := DisplayType(TypePLC); got != TypePLC {
		t.Fatalf("expected PLC unchanged, got %s", got)
	}
	if got := DisplayType(TypePowerStation); got != TypePowerStation {
		t.Fatalf("expected power_station unchanged, got %s", got)
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		name        string
		stationName string
		stationType string
		city        string
		want        string
	}{
		{"non-defense keeps name", "Jammu PLC", TypePLC, "Jammu", "Jammu PLC"},
		{"city wins over name", "Defense Battery Alpha", TypeS400, "Jammu Sector", "Jammu Power Grid Station"},
		{"srinagar city", "Radar Post", TypeRadar, "Srinagar Valley", "Srinagar Power Grid Station"},
		{"pathankot city", "Drone Base", TypeDrone, "Pathankot", "Pathankot Power Grid Station"},
		{"alpha fragment", "Unit Alpha", TypeMissile, "", "Power Grid Station Alpha"},
		{"bravo fragment", "Battery Bravo", TypeAutonomous, "", "Power Grid Station Bravo"},
		{"jammu in name", "Jammu Battery", TypeS400, "", "Jammu Power Grid Station"},
		{"fallback", "Unit 7", TypeS400, "", "Power Grid Station"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DisplayName(tc.stationName, tc.stationType, tc.city); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestIsDefenseType(t *testing.T) {
	for _, defense := range []string{TypeS400, TypeDrone, TypeAutonomous, TypeRadar, TypeMissile} {
		if !IsDefenseType(defense) {
			t.Fatalf("expected %s classified as defense", defense)
		}
	}
	for _, plain := range []string{TypePowerStation, TypePLC, TypeRTU, TypeScadaServer} {
		if IsDefenseType(plain) {
			t.Fatalf("expected %s classified as plain", plain)
		}
	}
}
