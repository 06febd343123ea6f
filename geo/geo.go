// Package geo holds the geographic model used for locality-biased peer selection: locations
// derived from geolocated IPs, the great-circle distance between them, and the Locator contract
// that maps an IP to a location.
package geo

import (
	"math"
	"net/netip"
	"strconv"

	g "github.com/anacrolix/generics"
)

// Identifies a geographic cluster. Peers whose coordinates round to the same two decimal places
// share a LocationId.
type LocationId string

type Location struct {
	Id        LocationId `json:"id"`
	Country   string     `json:"country"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Region    string     `json:"region,omitempty"`
	City      string     `json:"city,omitempty"`
}

func (me Location) String() string {
	return string(me.Id) + " (" + me.Country + ")"
}

// NewLocation derives the Id from the coordinates.
func NewLocation(country string, latitude, longitude float64) Location {
	return Location{
		Id:        MakeLocationId(latitude, longitude),
		Country:   country,
		Latitude:  latitude,
		Longitude: longitude,
	}
}

func MakeLocationId(latitude, longitude float64) LocationId {
	return LocationId(formatCoordinate(latitude) + "," + formatCoordinate(longitude))
}

// Rounds half up to 2 decimal places, and drops trailing zeroes.
func formatCoordinate(f float64) string {
	return strconv.FormatFloat(math.Floor(f*100+0.5)/100, 'f', -1, 64)
}

const (
	earthDiameterKm  = 12742
	radiansPerDegree = math.Pi / 180
)

// Distance returns the haversine great-circle distance between two locations in kilometres.
func Distance(l1, l2 Location) float64 {
	c := math.Cos
	const p = radiansPerDegree
	a := 0.5 - c((l2.Latitude-l1.Latitude)*p)/2 +
		c(l1.Latitude*p)*c(l2.Latitude*p)*(1-c((l2.Longitude-l1.Longitude)*p))/2
	return earthDiameterKm * math.Asin(math.Sqrt(a))
}

// Locator resolves an IP to a location. Implementations return None when the IP is unknown, which
// disables location matching for the peer without failing anything.
type Locator interface {
	Locate(ip netip.Addr) g.Option[Location]
}

type LocatorFunc func(ip netip.Addr) g.Option[Location]

func (f LocatorFunc) Locate(ip netip.Addr) g.Option[Location] {
	return f(ip)
}

// NoLocator never resolves anything.
var NoLocator Locator = LocatorFunc(func(netip.Addr) g.Option[Location] {
	return g.None[Location]()
})
