package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/shelfsim/internal/platform/errors"
)

func TestDefaultCatalogLoads(t *testing.T) {
	reg, err := Default()
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}

	if reg.Defaults().StoreName == "" {
		t.Fatal("expected default store name")
	}
	if reg.StartMinutes() != 8*60 {
		t.Fatalf("start minutes = %d, want %d", reg.StartMinutes(), 8*60)
	}
	if reg.CloseMinutes() != 8*60+reg.Defaults().MinutesPerDay {
		t.Fatalf("close minutes = %d", reg.CloseMinutes())
	}
	if _, ok := reg.Product(1); !ok {
		t.Fatal("expected product 1")
	}
	if _, ok := reg.Furniture(2); !ok {
		t.Fatal("expected furniture 2")
	}
	if _, ok := reg.Container("small_box"); !ok {
		t.Fatal("expected small_box container")
	}
	if _, ok := reg.License("starter"); !ok {
		t.Fatal("expected starter license")
	}
	first, ok := reg.FirstMission()
	if !ok || first.ID != 1 {
		t.Fatalf("first mission = %+v (%v)", first, ok)
	}
}

func TestLicensesCoveringUsesReverseIndex(t *testing.T) {
	reg := mustRegistry(t, Document{
		Defaults:   testDefaults(),
		Products:   []Product{{ID: 1}, {ID: 2}, {ID: 3}},
		Containers: []Container{{Name: "box", Capacity: 1}},
		Licenses: []License{
			{Name: "a", Products: []int{1, 2}},
			{Name: "b", Products: []int{2, 3}},
		},
	})

	covering := reg.LicensesCovering(2)
	if len(covering) != 2 || covering[0].Name != "a" || covering[1].Name != "b" {
		t.Fatalf("covering = %+v", covering)
	}
	if got := reg.LicensesCovering(99); len(got) != 0 {
		t.Fatalf("unknown product covering = %+v", got)
	}
	if names := reg.Licenses(); len(names) != 2 || names[0].Name != "a" {
		t.Fatalf("licenses = %+v", names)
	}
}

func TestNextMissionUsesCatalogOrder(t *testing.T) {
	reg := mustRegistry(t, Document{
		Defaults: testDefaults(),
		Missions: []Mission{
			{ID: 10, Goal: GoalCheckout, Amount: 1},
			{ID: 3, Goal: GoalRevenue, Amount: 1},
			{ID: 7, Goal: GoalFurnish, TargetID: 1, Amount: 1},
		},
	})

	next, ok := reg.NextMission(3)
	if !ok || next.ID != 7 {
		t.Fatalf("next after 3 = %+v (%v), want 7", next, ok)
	}
	next, ok = reg.NextMission(4)
	if !ok || next.ID != 7 {
		t.Fatalf("next after 4 = %+v (%v), want 7", next, ok)
	}
	if _, ok := reg.NextMission(10); ok {
		t.Fatal("expected no mission after the last one")
	}
	if _, ok := reg.Mission(5); ok {
		t.Fatal("expected lookup miss for mission 5")
	}
	if m, ok := reg.Mission(10); !ok || m.Goal != GoalCheckout {
		t.Fatalf("mission 10 = %+v (%v)", m, ok)
	}
}

func TestNewRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want string
	}{
		{
			name: "bad start time",
			doc:  Document{Defaults: Defaults{StartTime: "8am", MinutesPerDay: 60}},
			want: "start_time",
		},
		{
			name: "day past midnight",
			doc:  Document{Defaults: Defaults{StartTime: "20:00", MinutesPerDay: 600}},
			want: "minutes_per_day",
		},
		{
			name: "duplicate product",
			doc:  Document{Defaults: testDefaults(), Products: []Product{{ID: 1}, {ID: 1}}},
			want: "duplicate product",
		},
		{
			name: "unknown container reference",
			doc:  Document{Defaults: testDefaults(), Products: []Product{{ID: 1, Container: "crate"}}},
			want: "unknown container",
		},
		{
			name: "license covers unknown product",
			doc:  Document{Defaults: testDefaults(), Licenses: []License{{Name: "x", Products: []int{4}}}},
			want: "unknown product",
		},
		{
			name: "targeted mission without target",
			doc:  Document{Defaults: testDefaults(), Missions: []Mission{{ID: 1, Goal: GoalSell, Amount: 3}}},
			want: "requires a target",
		},
		{
			name: "unknown goal",
			doc:  Document{Defaults: testDefaults(), Missions: []Mission{{ID: 1, Goal: "dance", Amount: 3}}},
			want: "unknown goal",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.doc)
			if err == nil {
				t.Fatal("expected error")
			}
			if !apperrors.HasCode(err, apperrors.CodeCatalogInvalid) {
				t.Fatalf("error code = %s, want %s", apperrors.GetCode(err), apperrors.CodeCatalogInvalid)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error = %v, want containing %q", err, tc.want)
			}
		})
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader("defaults:\n  start_time: \"08:00\"\n  minutes_per_day: 60\n  tax_rate: 3\n"))
	if err == nil {
		t.Fatal("expected unknown field error")
	}
	if _, err := Decode(strings.NewReader("")); err == nil {
		t.Fatal("expected empty document error")
	}
}

func TestLoadReadsFileOrDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `defaults:
  starting_balance: 100
  store_name: "Test Shop"
  start_time: "09:30"
  minutes_per_day: 60
products:
  - {id: 4, name: "Tea", price: 300}
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	reg, err := Load(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if reg.Defaults().StoreName != "Test Shop" || reg.StartMinutes() != 9*60+30 {
		t.Fatalf("defaults = %+v start = %d", reg.Defaults(), reg.StartMinutes())
	}
	if p, ok := reg.Product(4); !ok || p.Price != 300 {
		t.Fatalf("product 4 = %+v (%v)", p, ok)
	}

	if _, err := Load(""); err != nil {
		t.Fatalf("load default: %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected missing file error")
	}
}

func TestGoalTypeTargeted(t *testing.T) {
	tests := map[GoalType]bool{
		GoalCheckout: false,
		GoalRevenue:  false,
		GoalSell:     true,
		GoalRestock:  true,
		GoalFurnish:  true,
	}
	for goal, want := range tests {
		got, err := goal.Targeted()
		if err != nil {
			t.Fatalf("%s: %v", goal, err)
		}
		if got != want {
			t.Fatalf("%s targeted = %v, want %v", goal, got, want)
		}
	}
	if _, err := GoalType("juggle").Targeted(); err == nil {
		t.Fatal("expected unknown goal to be rejected")
	}
}

func testDefaults() Defaults {
	return Defaults{StartingBalance: 1000, StoreName: "Shop", StartTime: "08:00", MinutesPerDay: 600}
}

func mustRegistry(t *testing.T, doc Document) *Registry {
	t.Helper()
	reg, err := New(doc)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	return reg
}
