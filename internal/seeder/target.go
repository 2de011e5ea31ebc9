package seeder

import (
	"fmt"
	"sort"
)

// TargetKind names the entity a polymorphic column points at.
type TargetKind string

const (
	TargetCooperative  TargetKind = "cooperative"
	TargetVenue        TargetKind = "venue"
	TargetAchievement  TargetKind = "achievement"
	TargetBadge        TargetKind = "badge"
	TargetPlantSpecies TargetKind = "plant_species"
	TargetMediaOutlet  TargetKind = "media_outlet"
	TargetPlanting     TargetKind = "planting"
	TargetUserList     TargetKind = "user_list"
)

var targetTables = map[TargetKind]string{
	TargetCooperative:  "cooperatives",
	TargetVenue:        "venues",
	TargetAchievement:  "achievements",
	TargetBadge:        "badges",
	TargetPlantSpecies: "plant_species",
	TargetMediaOutlet:  "media_outlets",
	TargetPlanting:     "plantings",
	TargetUserList:     "user_lists",
}

func ParseTargetKind(s string) (TargetKind, error) {
	kind := TargetKind(s)
	if _, ok := targetTables[kind]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTargetKind, s)
	}
	return kind, nil
}

// Table returns the table holding rows of this kind.
func (k TargetKind) Table() string {
	return targetTables[k]
}

func (k TargetKind) String() string {
	return string(k)
}

// TargetKinds lists every known kind, sorted.
func TargetKinds() []TargetKind {
	kinds := make([]TargetKind, 0, len(targetTables))
	for k := range targetTables {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Ref points at one row of a polymorphic target.
type Ref struct {
	Kind TargetKind
	ID   int64
}

func (r Ref) String() string {
	return fmt.Sprintf("%s#%d", r.Kind, r.ID)
}
