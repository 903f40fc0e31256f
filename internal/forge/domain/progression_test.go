package domain

import (
	"errors"
	"testing"

	apperrors "github.com/hollowvale/arenaforge/internal/platform/errors"
)

func TestRequiredForNextLevelSchedule(t *testing.T) {
	want := map[int]uint64{
		2:  100,
		3:  150,
		4:  225,
		5:  337,
		6:  506,
		7:  759,
		8:  1139,
		9:  1706,
		10: 2559,
	}
	for level, requirement := range want {
		if got := RequiredForNextLevel(level); got != requirement {
			t.Errorf("RequiredForNextLevel(%d) = %d, want %d", level, got, requirement)
		}
	}
	if got := RequiredForNextLevel(1); got != 0 {
		t.Errorf("RequiredForNextLevel(1) = %d, want 0", got)
	}
	if got := RequiredForNextLevel(11); got != 0 {
		t.Errorf("RequiredForNextLevel(11) = %d, want 0", got)
	}
}

func TestAwardExperienceSingleLevel(t *testing.T) {
	c := Character{Level: 1}
	gained := AwardExperience(&c, 100)
	if gained != 1 {
		t.Fatalf("levels gained = %d, want 1", gained)
	}
	if c.Level != 2 {
		t.Fatalf("level = %d, want 2", c.Level)
	}
	if c.XP != 0 {
		t.Fatalf("xp = %d, want 0", c.XP)
	}
	if c.AttributePoints != 1 {
		t.Fatalf("attribute points = %d, want 1", c.AttributePoints)
	}
}

func TestAwardExperienceCascades(t *testing.T) {
	// 100+150+225 carries a level-1 character to level 4 with 40 left over.
	c := Character{Level: 1}
	gained := AwardExperience(&c, 515)
	if gained != 3 {
		t.Fatalf("levels gained = %d, want 3", gained)
	}
	if c.Level != 4 {
		t.Fatalf("level = %d, want 4", c.Level)
	}
	if c.XP != 40 {
		t.Fatalf("xp = %d, want 40", c.XP)
	}
	if c.AttributePoints != 3 {
		t.Fatalf("attribute points = %d, want 3", c.AttributePoints)
	}
}

func TestAwardExperienceStopsAtMaxLevel(t *testing.T) {
	c := Character{Level: 1}
	gained := AwardExperience(&c, 1_000_000)
	if gained != MaxLevel-1 {
		t.Fatalf("levels gained = %d, want %d", gained, MaxLevel-1)
	}
	if c.Level != MaxLevel {
		t.Fatalf("level = %d, want %d", c.Level, MaxLevel)
	}
	if c.AttributePoints != MaxLevel-1 {
		t.Fatalf("attribute points = %d, want %d", c.AttributePoints, MaxLevel-1)
	}

	before := c.XP
	if gained := AwardExperience(&c, 1_000_000); gained != 0 {
		t.Fatalf("levels gained past max = %d, want 0", gained)
	}
	if c.Level != MaxLevel {
		t.Fatalf("level after further award = %d, want %d", c.Level, MaxLevel)
	}
	if c.XP != before+1_000_000 {
		t.Fatalf("xp = %d, want %d", c.XP, before+1_000_000)
	}
}

func TestAwardExperienceExactShortfall(t *testing.T) {
	threshold := RequiredForNextLevel(10)
	c := Character{Level: 9, XP: threshold - 1}

	if gained := AwardExperience(&c, 0); gained != 0 {
		t.Fatalf("levels gained one short of threshold = %d, want 0", gained)
	}

	gained := AwardExperience(&c, 1)
	if gained != 1 {
		t.Fatalf("levels gained at threshold = %d, want 1", gained)
	}
	if c.Level != 10 {
		t.Fatalf("level = %d, want 10", c.Level)
	}
	if c.AttributePoints != 1 {
		t.Fatalf("attribute points = %d, want 1", c.AttributePoints)
	}
}

func TestSpendAttributePoint(t *testing.T) {
	tests := []struct {
		name      string
		character Character
		attr      Attribute
		wantErr   error
	}{
		{
			name:      "spend succeeds",
			character: Character{AttributePoints: 2, Attributes: Attributes{10, 10, 10, 10, 10, 10}},
			attr:      Strength,
		},
		{
			name:      "no points",
			character: Character{AttributePoints: 0, Attributes: Attributes{10, 10, 10, 10, 10, 10}},
			attr:      Strength,
			wantErr:   ErrInsufficientPoints,
		},
		{
			name:      "attribute at leveling cap",
			character: Character{AttributePoints: 3, Attributes: Attributes{25, 10, 10, 10, 10, 10}},
			attr:      Strength,
			wantErr:   ErrAttributeAtCap,
		},
		{
			name:      "leveling exceeds creation ceiling",
			character: Character{AttributePoints: 1, Attributes: Attributes{21, 10, 10, 10, 10, 10}},
			attr:      Strength,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.character
			before := c.Attributes[tt.attr]
			err := SpendAttributePoint(&c, tt.attr)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SpendAttributePoint() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if c.Attributes[tt.attr] != before {
					t.Fatalf("failed spend mutated attribute: %d -> %d", before, c.Attributes[tt.attr])
				}
				return
			}
			if c.Attributes[tt.attr] != before+1 {
				t.Fatalf("attribute = %d, want %d", c.Attributes[tt.attr], before+1)
			}
			if c.AttributePoints != tt.character.AttributePoints-1 {
				t.Fatalf("points = %d, want %d", c.AttributePoints, tt.character.AttributePoints-1)
			}
		})
	}
}

func TestSwapAttributes(t *testing.T) {
	tests := []struct {
		name    string
		attrs   Attributes
		from    Attribute
		to      Attribute
		wantErr error
	}{
		{
			name:  "swap succeeds",
			attrs: Attributes{10, 10, 10, 10, 10, 10},
			from:  Strength, to: Luck,
		},
		{
			name:  "decrease blocked at floor",
			attrs: Attributes{4, 10, 10, 10, 10, 10},
			from:  Strength, to: Luck,
			wantErr: ErrAttributeAtFloor,
		},
		{
			name:  "increase blocked at swap ceiling",
			attrs: Attributes{10, 10, 10, 10, 10, 20},
			from:  Strength, to: Luck,
			wantErr: ErrAttributeAtCap,
		},
		{
			name:  "same attribute",
			attrs: Attributes{10, 10, 10, 10, 10, 10},
			from:  Strength, to: Strength,
			wantErr: apperrors.New(apperrors.CodeUnknownAttribute, ""),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Character{Attributes: tt.attrs}
			err := SwapAttributes(&c, tt.from, tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SwapAttributes() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if c.Attributes != tt.attrs {
					t.Fatalf("failed swap mutated attributes: %v -> %v", tt.attrs, c.Attributes)
				}
				return
			}
			if c.Attributes[tt.from] != tt.attrs[tt.from]-1 {
				t.Fatalf("from = %d, want %d", c.Attributes[tt.from], tt.attrs[tt.from]-1)
			}
			if c.Attributes[tt.to] != tt.attrs[tt.to]+1 {
				t.Fatalf("to = %d, want %d", c.Attributes[tt.to], tt.attrs[tt.to]+1)
			}
			if got := c.Attributes.Total(); got != tt.attrs.Total() {
				t.Fatalf("total changed: %d -> %d", tt.attrs.Total(), got)
			}
		})
	}
}
