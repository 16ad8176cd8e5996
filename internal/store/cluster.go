// Package store models the fixed four-store database topology: one
// central reference store plus one operational store per branch city.
// Reads and writes are split between them; the resolver picks the right
// handle for a hotel.
package store

import "database/sql"

// Logical store names.  These are fixed: the topology is exactly four
// stores and is not expected to scale horizontally.
const (
    Central = "central"
    Filial1 = "filial1"
    Filial2 = "filial2"
    Filial3 = "filial3"
)

// Names lists every logical store, central first.
var Names = []string{Central, Filial1, Filial2, Filial3}

// cityStores is the static city-name→store mapping.  Cities absent from
// this table are served by the central store.
var cityStores = map[string]string{
    "Moscow":           Filial1,
    "Saint Petersburg": Filial2,
    "Kazan":            Filial3,
}

// NameForCity maps a city name to its logical store.  Unknown cities
// (including the empty string) map to central.
func NameForCity(city string) string {
    if name, ok := cityStores[city]; ok {
        return name
    }
    return Central
}

// Cluster groups the pooled connections of all logical stores.  It is
// built once at startup and shared read-only afterwards, so it needs no
// locking.
type Cluster struct {
    stores map[string]*sql.DB
}

// NewCluster builds a Cluster from the per-store handles.  Every name in
// Names must be present; missing handles are a programming error and
// would surface as nil dereferences on first use.
func NewCluster(stores map[string]*sql.DB) *Cluster {
    return &Cluster{stores: stores}
}

// Get returns the handle for the named store, or nil when the name is
// unknown.
func (c *Cluster) Get(name string) *sql.DB { return c.stores[name] }

// Central returns the reference-data store.
func (c *Cluster) Central() *sql.DB { return c.stores[Central] }

// ForCity returns the city-primary store handle and its name.
func (c *Cluster) ForCity(city string) (*sql.DB, string) {
    name := NameForCity(city)
    return c.stores[name], name
}
