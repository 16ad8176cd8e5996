package store

import (
    "context"
    "log"
)

// Resolver maps a hotel to the store that owns its operational rows.  The
// hotel's city is looked up in the central store and run through the
// static city mapping.
//
// Lookup failures deliberately degrade to the central store instead of
// propagating: callers always receive a usable handle.  The degradation
// is logged so it stays observable.
type Resolver struct {
    cluster *Cluster
}

// NewResolver returns a Resolver backed by the given cluster.
func NewResolver(c *Cluster) *Resolver { return &Resolver{cluster: c} }

// Cluster exposes the underlying cluster for callers that need direct
// store access (e.g. to begin a transaction on a resolved store).
func (r *Resolver) Cluster() *Cluster { return r.cluster }

// CityForHotel returns the city name of the hotel from central reference
// data.  The empty string with a nil error means the hotel does not
// exist.
func (r *Resolver) CityForHotel(ctx context.Context, hotelID uint64) (string, error) {
    const q = `SELECT c.city_name
               FROM hotels h
               JOIN cities c ON h.city_id = c.id
               WHERE h.id = ?`
    var city string
    err := r.cluster.Central().QueryRowContext(ctx, q, hotelID).Scan(&city)
    return city, err
}

// StoreNameForHotel resolves the logical store owning the hotel's
// operational rows.  Any lookup error falls back to central.
func (r *Resolver) StoreNameForHotel(ctx context.Context, hotelID uint64) string {
    city, err := r.CityForHotel(ctx, hotelID)
    if err != nil {
        log.Printf("resolver: city lookup for hotel %d failed, falling back to central: %v", hotelID, err)
        return Central
    }
    return NameForCity(city)
}
