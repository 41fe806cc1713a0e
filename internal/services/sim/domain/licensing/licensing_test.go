package licensing

import (
	"testing"

	apperrors "github.com/louisbranch/shelfsim/internal/platform/errors"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/catalog"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/ledger"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/notify"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/state"
)

func testRegistry(t *testing.T) *catalog.Registry {
	t.Helper()
	reg, err := catalog.New(catalog.Document{
		Defaults: catalog.Defaults{StartTime: "08:00", MinutesPerDay: 600},
		Products: []catalog.Product{
			{ID: 1, Price: 100},
			{ID: 2, Price: 200},
			{ID: 3, Price: 300},
			{ID: 4, Price: 400},
			{ID: 9, Price: 900},
		},
		Licenses: []catalog.License{
			{Name: "basic", OwnedByDefault: true, RequiredLevel: 1, Products: []int{4}},
			{Name: "trio", Price: 1000, RequiredLevel: 3, Products: []int{1, 2, 3}},
			{Name: "pair", Price: 500, RequiredLevel: 1, Products: []int{3, 4}},
		},
	})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	return reg
}

func newOverlay(t *testing.T, st *state.State, bus *notify.Bus) *Overlay {
	t.Helper()
	return New(st, testRegistry(t), ledger.New(st, bus), bus, nil)
}

func TestLicenseOwnedRequiresEveryProduct(t *testing.T) {
	st := &state.State{Licensed: state.NewIDSet(1, 2)}
	o := newOverlay(t, st, nil)

	if o.LicenseOwned("trio") {
		t.Fatal("expected trio not owned with two of three products")
	}
	if o.IsLicensed(1) {
		t.Fatal("expected product 1 unlicensed")
	}

	st.Licensed.Add(3)
	if !o.LicenseOwned("trio") {
		t.Fatal("expected trio owned with all products")
	}
	for _, id := range []int{1, 2, 3} {
		if !o.IsLicensed(id) {
			t.Fatalf("expected product %d licensed", id)
		}
	}
	if o.LicenseOwned("missing") {
		t.Fatal("expected unknown license not owned")
	}
}

func TestIsLicensedAnyCoveringLicense(t *testing.T) {
	st := &state.State{Licensed: state.NewIDSet(3, 4)}
	o := newOverlay(t, st, nil)

	if !o.IsLicensed(3) {
		t.Fatal("expected product 3 licensed through pair")
	}
	if o.IsLicensed(1) {
		t.Fatal("expected product 1 unlicensed")
	}
}

func TestIsLicensedUncoveredProduct(t *testing.T) {
	st := &state.State{}
	o := newOverlay(t, st, nil)
	if o.IsLicensed(9) {
		t.Fatal("expected uncovered product unlicensed when absent")
	}
	st.Licensed.Add(9)
	if !o.IsLicensed(9) {
		t.Fatal("expected uncovered product licensed when present")
	}
}

func TestEffectivePrice(t *testing.T) {
	st := &state.State{}
	bus := notify.NewBus()
	var changed []int
	bus.OnPriceChanged(func(id int) { changed = append(changed, id) })
	o := newOverlay(t, st, bus)

	if price, ok := o.EffectivePrice(2); !ok || price != 200 {
		t.Fatalf("price = %d (%v), want catalog 200", price, ok)
	}
	o.SetCustomPrice(2, 250)
	o.SetCustomPrice(2, 275)
	if price, ok := o.EffectivePrice(2); !ok || price != 275 {
		t.Fatalf("price = %d (%v), want custom 275", price, ok)
	}
	if len(st.CustomPrices) != 1 {
		t.Fatalf("custom prices = %d, want 1", len(st.CustomPrices))
	}
	if len(changed) != 2 {
		t.Fatalf("price notifications = %d, want 2", len(changed))
	}
	if _, ok := o.EffectivePrice(77); ok {
		t.Fatal("expected unknown product miss")
	}
}

func TestPurchaseLicense(t *testing.T) {
	st := &state.State{Level: 1, Balance: 2000}
	o := newOverlay(t, st, nil)

	if err := o.PurchaseLicense("trio"); !apperrors.HasCode(err, apperrors.CodeLicenseLevelTooLow) {
		t.Fatalf("error = %v, want level too low", err)
	}
	if err := o.PurchaseLicense("nope"); !apperrors.HasCode(err, apperrors.CodeLicenseUnknown) {
		t.Fatalf("error = %v, want unknown license", err)
	}

	st.Level = 3
	if err := o.PurchaseLicense("trio"); err != nil {
		t.Fatalf("purchase trio: %v", err)
	}
	if st.Balance != 1000 || st.Period.Spending != 1000 {
		t.Fatalf("balance = %d spending = %d, want 1000 and 1000", st.Balance, st.Period.Spending)
	}
	if !o.LicenseOwned("trio") {
		t.Fatal("expected trio owned after purchase")
	}
	if err := o.PurchaseLicense("trio"); !apperrors.HasCode(err, apperrors.CodeLicenseAlreadyOwned) {
		t.Fatalf("error = %v, want already owned", err)
	}

	st.Balance = 100
	if err := o.PurchaseLicense("pair"); !apperrors.HasCode(err, apperrors.CodeInsufficientFunds) {
		t.Fatalf("error = %v, want insufficient funds", err)
	}
}

func TestSeedDefaults(t *testing.T) {
	var set state.IDSet
	SeedDefaults(testRegistry(t), &set)
	if !set.Has(4) || len(set) != 1 {
		t.Fatalf("seeded = %v, want [4]", set.Sorted())
	}
}
