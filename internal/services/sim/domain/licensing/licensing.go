// Package licensing overlays per-product ownership and custom prices on top
// of the catalog defaults.
package licensing

import (
	"strconv"

	apperrors "github.com/louisbranch/shelfsim/internal/platform/errors"
	"github.com/louisbranch/shelfsim/internal/platform/logging"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/catalog"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/ledger"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/notify"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/state"
	"go.uber.org/zap"
)

// Overlay answers licensing and pricing questions for a state.
type Overlay struct {
	state   *state.State
	catalog *catalog.Registry
	ledger  *ledger.Ledger
	bus     *notify.Bus
	logger  *zap.Logger
}

// New returns an overlay. A nil logger discards warnings.
func New(st *state.State, reg *catalog.Registry, l *ledger.Ledger, bus *notify.Bus, logger *zap.Logger) *Overlay {
	logger = logging.OrNop(logger)
	return &Overlay{state: st, catalog: reg, ledger: l, bus: bus, logger: logger}
}

// IsLicensed reports whether productID may be sold. A product covered by
// licenses is licensed when any one of them is fully owned; a product no
// license covers is licensed when it is in the set directly.
func (o *Overlay) IsLicensed(productID int) bool {
	covering := o.catalog.LicensesCovering(productID)
	if len(covering) == 0 {
		return o.state.Licensed.Has(productID)
	}
	for _, license := range covering {
		if o.owns(license) {
			return true
		}
	}
	return false
}

// LicenseOwned reports whether every product of the named license is in the
// licensed set. Unknown names are never owned.
func (o *Overlay) LicenseOwned(name string) bool {
	license, ok := o.catalog.License(name)
	if !ok {
		return false
	}
	return o.owns(license)
}

func (o *Overlay) owns(license catalog.License) bool {
	for _, id := range license.Products {
		if !o.state.Licensed.Has(id) {
			return false
		}
	}
	return true
}

// EffectivePrice returns the custom price of productID when set, otherwise
// the catalog price. ok is false when the product is unknown.
func (o *Overlay) EffectivePrice(productID int) (state.Cents, bool) {
	if price, ok := o.state.CustomPrice(productID); ok {
		return price, true
	}
	product, ok := o.catalog.Product(productID)
	if !ok {
		o.logger.Warn("price lookup for unknown product", zap.Int("product_id", productID))
		return 0, false
	}
	return product.Price, true
}

// SetCustomPrice stores an override for productID and notifies subscribers.
func (o *Overlay) SetCustomPrice(productID int, price state.Cents) {
	o.state.UpsertCustomPrice(productID, price)
	o.bus.PriceChanged(productID)
}

// PurchaseLicense debits the license price and adds its products to the
// licensed set.
func (o *Overlay) PurchaseLicense(name string) error {
	license, ok := o.catalog.License(name)
	if !ok {
		return apperrors.WithMetadata(apperrors.CodeLicenseUnknown, "unknown license", map[string]string{"license": name})
	}
	if o.owns(license) {
		return apperrors.WithMetadata(apperrors.CodeLicenseAlreadyOwned, "license already owned", map[string]string{"license": name})
	}
	if o.state.Level < license.RequiredLevel {
		return apperrors.WithMetadata(apperrors.CodeLicenseLevelTooLow, "level too low for license", map[string]string{
			"license":        name,
			"required_level": strconv.Itoa(license.RequiredLevel),
		})
	}
	if o.state.Balance < license.Price {
		return apperrors.WithMetadata(apperrors.CodeInsufficientFunds, "insufficient funds for license", map[string]string{
			"license": name,
			"price":   strconv.FormatInt(int64(license.Price), 10),
		})
	}

	if license.Price != 0 {
		o.ledger.Debit(license.Price)
	}
	for _, id := range license.Products {
		o.state.Licensed.Add(id)
	}
	o.logger.Info("license purchased", zap.String("license", name), zap.Int64("price", int64(license.Price)))
	return nil
}

// SeedDefaults adds the products of every default-owned license to the
// licensed set.
func SeedDefaults(reg *catalog.Registry, set *state.IDSet) {
	for _, license := range reg.Licenses() {
		if !license.OwnedByDefault {
			continue
		}
		for _, id := range license.Products {
			set.Add(id)
		}
	}
}
