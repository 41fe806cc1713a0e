// Package catalog holds the immutable static definitions of the simulation:
// products, placeable furniture, containers, licenses, missions and the
// defaults used to start a fresh session.
//
// A Registry is built once at startup from YAML and is read-only afterwards,
// so it can be shared by every component without synchronization.
package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/shelfsim/internal/platform/errors"
	"github.com/louisbranch/shelfsim/internal/services/sim/domain/state"
)

const minutesPerCalendarDay = 24 * 60

// Product is a sellable item definition.
type Product struct {
	ID             int         `yaml:"id"`
	Category       string      `yaml:"category"`
	Name           string      `yaml:"name"`
	Icon           string      `yaml:"icon"`
	Price          state.Cents `yaml:"price"`
	ProcessingTime float64     `yaml:"processing_time"`
	Section        string      `yaml:"section"`
	Model          string      `yaml:"model"`
	Container      string      `yaml:"container"`
	PackQuantities []int       `yaml:"pack_quantities"`
}

// Furniture is a placeable object definition.
type Furniture struct {
	ID       int         `yaml:"id"`
	Name     string      `yaml:"name"`
	Template string      `yaml:"template"`
	Shelves  int         `yaml:"shelves"`
	Price    state.Cents `yaml:"price"`
}

// Container is a box definition, looked up by name.
type Container struct {
	Name     string `yaml:"name"`
	Capacity int    `yaml:"capacity"`
}

// License unlocks a group of products.
type License struct {
	Name           string      `yaml:"name"`
	Price          state.Cents `yaml:"price"`
	RequiredLevel  int         `yaml:"required_level"`
	OwnedByDefault bool        `yaml:"owned_by_default"`
	Products       []int       `yaml:"products"`
}

// Mission is one goal in the campaign sequence, ordered by ID.
type Mission struct {
	ID       int         `yaml:"id"`
	Goal     GoalType    `yaml:"goal"`
	TargetID int         `yaml:"target"`
	Amount   int         `yaml:"amount"`
	Reward   state.Cents `yaml:"reward"`
}

// Defaults seeds a fresh session. StartTime is the opening time of each
// in-game day and MinutesPerDay how long the store stays open.
type Defaults struct {
	StartingBalance state.Cents `yaml:"starting_balance"`
	StoreName       string      `yaml:"store_name"`
	StartTime       string      `yaml:"start_time"`
	MinutesPerDay   int         `yaml:"minutes_per_day"`
}

// Document is the serialized catalog layout.
type Document struct {
	Defaults   Defaults    `yaml:"defaults"`
	Products   []Product   `yaml:"products"`
	Furniture  []Furniture `yaml:"furniture"`
	Containers []Container `yaml:"containers"`
	Licenses   []License   `yaml:"licenses"`
	Missions   []Mission   `yaml:"missions"`
}

// Registry is the validated, indexed catalog.
type Registry struct {
	defaults        Defaults
	startMinutes    int
	products        map[int]Product
	furniture       map[int]Furniture
	containers      map[string]Container
	licenses        map[string]License
	licenseOrder    []string
	productLicenses map[int][]string
	missions        []Mission
}

// New validates doc and builds the lookup indexes, including the reverse
// product→license index used by license derivation.
func New(doc Document) (*Registry, error) {
	startMinutes, err := parseClock(doc.Defaults.StartTime)
	if err != nil {
		return nil, invalid("defaults.start_time", err)
	}
	if doc.Defaults.MinutesPerDay <= 0 {
		return nil, invalid("defaults.minutes_per_day", fmt.Errorf("must be positive"))
	}
	if startMinutes+doc.Defaults.MinutesPerDay > minutesPerCalendarDay {
		return nil, invalid("defaults.minutes_per_day", fmt.Errorf("opening at %s for %d minutes runs past midnight", doc.Defaults.StartTime, doc.Defaults.MinutesPerDay))
	}

	r := &Registry{
		defaults:        doc.Defaults,
		startMinutes:    startMinutes,
		products:        make(map[int]Product, len(doc.Products)),
		furniture:       make(map[int]Furniture, len(doc.Furniture)),
		containers:      make(map[string]Container, len(doc.Containers)),
		licenses:        make(map[string]License, len(doc.Licenses)),
		productLicenses: make(map[int][]string),
	}

	for _, c := range doc.Containers {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, invalid("containers", fmt.Errorf("name is required"))
		}
		if _, dup := r.containers[name]; dup {
			return nil, invalid("containers", fmt.Errorf("duplicate container %q", name))
		}
		if c.Capacity <= 0 {
			return nil, invalid("containers", fmt.Errorf("container %q capacity must be positive", name))
		}
		c.Name = name
		r.containers[name] = c
	}

	for _, p := range doc.Products {
		if p.ID <= 0 {
			return nil, invalid("products", fmt.Errorf("product id must be positive, got %d", p.ID))
		}
		if _, dup := r.products[p.ID]; dup {
			return nil, invalid("products", fmt.Errorf("duplicate product %d", p.ID))
		}
		if p.Price < 0 {
			return nil, invalid("products", fmt.Errorf("product %d price must not be negative", p.ID))
		}
		if p.Container != "" {
			if _, ok := r.containers[p.Container]; !ok {
				return nil, invalid("products", fmt.Errorf("product %d references unknown container %q", p.ID, p.Container))
			}
		}
		r.products[p.ID] = p
	}

	for _, f := range doc.Furniture {
		if f.ID <= 0 {
			return nil, invalid("furniture", fmt.Errorf("furniture id must be positive, got %d", f.ID))
		}
		if _, dup := r.furniture[f.ID]; dup {
			return nil, invalid("furniture", fmt.Errorf("duplicate furniture %d", f.ID))
		}
		if f.Shelves < 0 {
			return nil, invalid("furniture", fmt.Errorf("furniture %d shelves must not be negative", f.ID))
		}
		r.furniture[f.ID] = f
	}

	for _, l := range doc.Licenses {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			return nil, invalid("licenses", fmt.Errorf("name is required"))
		}
		if _, dup := r.licenses[name]; dup {
			return nil, invalid("licenses", fmt.Errorf("duplicate license %q", name))
		}
		if len(l.Products) == 0 {
			return nil, invalid("licenses", fmt.Errorf("license %q covers no products", name))
		}
		for _, id := range l.Products {
			if _, ok := r.products[id]; !ok {
				return nil, invalid("licenses", fmt.Errorf("license %q covers unknown product %d", name, id))
			}
			r.productLicenses[id] = append(r.productLicenses[id], name)
		}
		l.Name = name
		r.licenses[name] = l
		r.licenseOrder = append(r.licenseOrder, name)
	}

	seenMissions := make(map[int]struct{}, len(doc.Missions))
	for _, m := range doc.Missions {
		if m.ID <= 0 {
			return nil, invalid("missions", fmt.Errorf("mission id must be positive, got %d", m.ID))
		}
		if _, dup := seenMissions[m.ID]; dup {
			return nil, invalid("missions", fmt.Errorf("duplicate mission %d", m.ID))
		}
		seenMissions[m.ID] = struct{}{}
		targeted, err := m.Goal.Targeted()
		if err != nil {
			return nil, invalid("missions", fmt.Errorf("mission %d: %w", m.ID, err))
		}
		if targeted && m.TargetID <= 0 {
			return nil, invalid("missions", fmt.Errorf("mission %d: goal %q requires a target", m.ID, m.Goal))
		}
		if m.Amount <= 0 {
			return nil, invalid("missions", fmt.Errorf("mission %d: amount must be positive", m.ID))
		}
		r.missions = append(r.missions, m)
	}
	sort.Slice(r.missions, func(i, j int) bool { return r.missions[i].ID < r.missions[j].ID })

	return r, nil
}

// Defaults returns the fresh-session defaults.
func (r *Registry) Defaults() Defaults {
	return r.defaults
}

// StartMinutes is the opening time as minutes since midnight.
func (r *Registry) StartMinutes() int {
	return r.startMinutes
}

// CloseMinutes is the closing time as minutes since midnight.
func (r *Registry) CloseMinutes() int {
	return r.startMinutes + r.defaults.MinutesPerDay
}

// Product looks up a product by id.
func (r *Registry) Product(id int) (Product, bool) {
	p, ok := r.products[id]
	return p, ok
}

// Furniture looks up a placeable definition by id.
func (r *Registry) Furniture(id int) (Furniture, bool) {
	f, ok := r.furniture[id]
	return f, ok
}

// Container looks up a container definition by name.
func (r *Registry) Container(name string) (Container, bool) {
	c, ok := r.containers[name]
	return c, ok
}

// License looks up a license by name.
func (r *Registry) License(name string) (License, bool) {
	l, ok := r.licenses[name]
	return l, ok
}

// Licenses returns every license in catalog order.
func (r *Registry) Licenses() []License {
	out := make([]License, 0, len(r.licenseOrder))
	for _, name := range r.licenseOrder {
		out = append(out, r.licenses[name])
	}
	return out
}

// LicensesCovering returns the licenses that include productID.
func (r *Registry) LicensesCovering(productID int) []License {
	names := r.productLicenses[productID]
	out := make([]License, 0, len(names))
	for _, name := range names {
		out = append(out, r.licenses[name])
	}
	return out
}

// Mission looks up a mission by id.
func (r *Registry) Mission(id int) (Mission, bool) {
	i := sort.Search(len(r.missions), func(i int) bool { return r.missions[i].ID >= id })
	if i < len(r.missions) && r.missions[i].ID == id {
		return r.missions[i], true
	}
	return Mission{}, false
}

// FirstMission returns the mission with the smallest id.
func (r *Registry) FirstMission() (Mission, bool) {
	if len(r.missions) == 0 {
		return Mission{}, false
	}
	return r.missions[0], true
}

// NextMission returns the mission with the smallest id strictly greater than
// after.
func (r *Registry) NextMission(after int) (Mission, bool) {
	i := sort.Search(len(r.missions), func(i int) bool { return r.missions[i].ID > after })
	if i < len(r.missions) {
		return r.missions[i], true
	}
	return Mission{}, false
}

func parseClock(raw string) (int, error) {
	hours, minutes, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok {
		return 0, fmt.Errorf("expected HH:MM, got %q", raw)
	}
	h, err := strconv.Atoi(hours)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", raw)
	}
	m, err := strconv.Atoi(minutes)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", raw)
	}
	return h*60 + m, nil
}

func invalid(field string, cause error) error {
	return apperrors.Wrap(apperrors.CodeCatalogInvalid, "invalid catalog "+field, cause)
}
