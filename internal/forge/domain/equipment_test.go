package domain

import (
	"testing"

	apperrors "github.com/hollowvale/arenaforge/internal/platform/errors"
)

func TestMeetsRequirements(t *testing.T) {
	attrs := Attributes{12, 10, 8, 14, 9, 7}

	tests := []struct {
		name     string
		weapon   Requirements
		armor    Requirements
		wantCode apperrors.Code
	}{
		{
			name: "no requirements",
		},
		{
			name:   "both satisfied",
			weapon: Requirements{12, 0, 0, 10, 0, 0},
			armor:  Requirements{0, 10, 8, 0, 0, 0},
		},
		{
			name:     "weapon requirement fails",
			weapon:   Requirements{13, 0, 0, 0, 0, 0},
			wantCode: apperrors.CodeRequirementsNotMet,
		},
		{
			name:     "armor requirement fails",
			armor:    Requirements{0, 0, 0, 0, 10, 0},
			wantCode: apperrors.CodeRequirementsNotMet,
		},
		{
			name:     "must satisfy both simultaneously",
			weapon:   Requirements{12, 0, 0, 0, 0, 0},
			armor:    Requirements{0, 0, 0, 0, 0, 8},
			wantCode: apperrors.CodeRequirementsNotMet,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MeetsRequirements(attrs, tt.weapon, tt.armor)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("MeetsRequirements() = %v, want nil", err)
				}
				return
			}
			if got := apperrors.GetCode(err); got != tt.wantCode {
				t.Fatalf("MeetsRequirements() code = %v, want %v", got, tt.wantCode)
			}
		})
	}
}
