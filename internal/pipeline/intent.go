package pipeline

import (
	"fmt"
	"strings"

	"github.com/AdithyaSM31/FloatChart-AI/internal/dataset"
)

// Intent is the coarse topic of a question or query, used to pick
// deterministic fallbacks when a collaborator is unavailable.
type Intent int

const (
	IntentGeneric Intent = iota
	IntentDepth
	IntentSalinity
	IntentTemperature
	IntentLocation
)

func (i Intent) String() string {
	switch i {
	case IntentDepth:
		return "depth"
	case IntentSalinity:
		return "salinity"
	case IntentTemperature:
		return "temperature"
	case IntentLocation:
		return "location"
	default:
		return "generic"
	}
}

// ClassifyQuestion picks the intent of a natural-language question.
// Earlier branches win: depth, salinity, temperature, location.
func ClassifyQuestion(question string) Intent {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "deep"):
		return IntentDepth
	case strings.Contains(q, "salinity"):
		return IntentSalinity
	case strings.Contains(q, "temp"):
		return IntentTemperature
	case strings.Contains(q, "float"), strings.Contains(q, "equator"):
		return IntentLocation
	}
	return IntentGeneric
}

// ClassifyQuery picks the intent of SQL text. It keys on the query rather
// than the question, so a generated query is matched by what it selects.
func ClassifyQuery(query string) Intent {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "deepest"), strings.Contains(q, "depth > 4000"):
		return IntentDepth
	case strings.Contains(q, "salinity"):
		return IntentSalinity
	case strings.Contains(q, "temp"):
		return IntentTemperature
	case strings.Contains(q, "float"), strings.Contains(q, "equator"):
		return IntentLocation
	}
	return IntentGeneric
}

// FallbackSQL returns the canned query for the intent.
func (i Intent) FallbackSQL() string {
	switch i {
	case IntentDepth:
		return "SELECT * FROM argo_data WHERE depth > 4000 ORDER BY depth DESC LIMIT 10;"
	case IntentSalinity:
		return "SELECT AVG(salinity) as avg_salinity, MIN(salinity) as min_salinity, MAX(salinity) as max_salinity FROM argo_data;"
	case IntentTemperature:
		return "SELECT depth_range, AVG(temperature) as avg_temp FROM argo_data GROUP BY depth_range ORDER BY depth_range;"
	case IntentLocation:
		return "SELECT platform_number, latitude, longitude FROM argo_data WHERE ABS(latitude) < 1.0 LIMIT 10;"
	default:
		return "SELECT * FROM argo_data LIMIT 5;"
	}
}

// FallbackResultSet returns a fresh illustrative result set for the intent.
func (i Intent) FallbackResultSet() *dataset.ResultSet {
	switch i {
	case IntentDepth:
		return dataset.New([]string{"depth", "temperature", "salinity", "pressure", "location"}, []dataset.Row{
			{"depth": 4500, "temperature": 1.2, "salinity": 34.8, "pressure": 450, "location": "Mariana Trench"},
			{"depth": 4200, "temperature": 1.5, "salinity": 34.7, "pressure": 420, "location": "Pacific Abyss"},
			{"depth": 4800, "temperature": 0.8, "salinity": 34.9, "pressure": 480, "location": "Challenger Deep"},
		})
	case IntentSalinity:
		return dataset.New([]string{"avg_salinity", "min_salinity", "max_salinity", "samples"}, []dataset.Row{
			{"avg_salinity": 34.7, "min_salinity": 33.2, "max_salinity": 36.1, "samples": 15420},
		})
	case IntentTemperature:
		return dataset.New([]string{"depth_range", "avg_temp", "region"}, []dataset.Row{
			{"depth_range": "Surface", "avg_temp": 22.5, "region": "Global Average"},
			{"depth_range": "100m", "avg_temp": 18.2, "region": "Mixed Layer"},
			{"depth_range": "500m", "avg_temp": 8.7, "region": "Thermocline"},
			{"depth_range": "1000m", "avg_temp": 4.2, "region": "Deep Ocean"},
		})
	case IntentLocation:
		return dataset.New([]string{"platform_number", "latitude", "longitude", "status"}, []dataset.Row{
			{"platform_number": "ARGO_001", "latitude": 0.2, "longitude": 180.5, "status": "Active"},
			{"platform_number": "ARGO_002", "latitude": -0.1, "longitude": 120.3, "status": "Active"},
			{"platform_number": "ARGO_003", "latitude": 0.5, "longitude": 60.7, "status": "Active"},
		})
	default:
		return dataset.New([]string{"parameter", "value", "unit", "location"}, []dataset.Row{
			{"parameter": "Temperature", "value": 22.5, "unit": "Celsius", "location": "Surface"},
			{"parameter": "Salinity", "value": 34.7, "unit": "PSU", "location": "Global Average"},
			{"parameter": "Pressure", "value": 1.0, "unit": "bar", "location": "Surface"},
			{"parameter": "Depth", "value": "0-4000m", "unit": "Meters", "location": "Ocean Range"},
		})
	}
}

// FallbackSummary returns the canned summary for rowCount rows.
func (i Intent) FallbackSummary(rowCount int) string {
	switch i {
	case IntentDepth:
		return fmt.Sprintf("Found %d records from the deepest ocean measurements. These data points represent measurements taken at depths greater than 4000 meters, showing the extreme conditions in the deep ocean.", rowCount)
	case IntentSalinity:
		return fmt.Sprintf("Retrieved %d salinity measurements. The data shows the distribution of salt content in ocean water, which is crucial for understanding ocean circulation and marine life habitats.", rowCount)
	case IntentTemperature:
		return fmt.Sprintf("Found %d temperature records. These measurements help track ocean warming trends and thermal structure across different depth ranges.", rowCount)
	case IntentLocation:
		return fmt.Sprintf("Located %d Argo float positions near the equator. These autonomous instruments provide continuous monitoring of ocean conditions in tropical regions.", rowCount)
	default:
		return fmt.Sprintf("Retrieved %d ocean data records. This dataset contains valuable information about oceanographic conditions and marine environment parameters.", rowCount)
	}
}
