package repository

import "math"

// ListFilter espelha os parâmetros de GET /barber-shops.
type ListFilter struct {
	Region    string
	Page      int
	Limit     int
	OrderBy   string
	Latitude  *float64
	Longitude *float64
	Radius    *float64
}

const earthRadiusKm = 6371.0

// DistanceKm calcula a distância entre dois pontos pela fórmula de haversine.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// paginate só calcula o offset de páginas que existem; page e limit enormes não
// estouram int.
func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	pages := len(items) / limit
	if len(items)%limit != 0 {
		pages++
	}
	if page > pages {
		return []T{}
	}
	start := (page - 1) * limit
	end := len(items)
	if limit < end-start {
		end = start + limit
	}
	return items[start:end]
}
