// Package catalog holds the fixed reference data shared by the generator,
// the scorers and the dashboard: the covered Chennai areas and the crime
// categories used in the synthetic dataset.
package catalog

type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

var Locations = []Location{
	{Name: "Anna Nagar", Lat: 13.0850, Lng: 80.2101},
	{Name: "T. Nagar", Lat: 13.0418, Lng: 80.2341},
	{Name: "Velachery", Lat: 12.9815, Lng: 80.2180},
	{Name: "Adyar", Lat: 13.0012, Lng: 80.2565},
	{Name: "Guindy", Lat: 13.0067, Lng: 80.2206},
	{Name: "Mylapore", Lat: 13.0339, Lng: 80.2676},
	{Name: "Nungambakkam", Lat: 13.0569, Lng: 80.2425},
	{Name: "Porur", Lat: 13.0382, Lng: 80.1558},
	{Name: "Tambaram", Lat: 12.9249, Lng: 80.1000},
	{Name: "Chrompet", Lat: 12.9516, Lng: 80.1462},
}

// IncidentCrimeTypes are the categories the synthetic dataset draws from.
var IncidentCrimeTypes = []string{
	"Theft",
	"Burglary",
	"Assault",
	"Vandalism",
	"Robbery",
	"Fraud",
	"Vehicle Theft",
	"Drug Offense",
}

// LocationIndex returns the position of name in Locations, or -1.
func LocationIndex(name string) int {
	for i, l := range Locations {
		if l.Name == name {
			return i
		}
	}
	return -1
}

func LookupLocation(name string) (Location, bool) {
	if i := LocationIndex(name); i >= 0 {
		return Locations[i], true
	}
	return Location{}, false
}
