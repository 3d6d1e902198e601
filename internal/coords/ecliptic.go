// Package coords converts between equatorial (RA/Dec) and ecliptic
// (longitude/latitude) coordinates. The survey's pointing strategy is
// organized by ecliptic hemisphere, while catalogs list equatorial
// positions, so both frames appear in the inputs.
package coords

import "math"

// obliquityJ2000 is the mean obliquity of the ecliptic at J2000.0 in
// degrees (IAU 2006 value).
const obliquityJ2000 = 23.439279444444445

const degToRad = math.Pi / 180

// EquatorialToEcliptic converts equatorial RA/Dec (degrees, J2000) to
// ecliptic longitude/latitude (degrees). Longitude is normalized to
// [0, 360).
func EquatorialToEcliptic(raDeg, decDeg float64) (lonDeg, latDeg float64) {
	ra := raDeg * degToRad
	dec := decDeg * degToRad
	eps := obliquityJ2000 * degToRad

	sinLat := math.Sin(dec)*math.Cos(eps) - math.Cos(dec)*math.Sin(eps)*math.Sin(ra)
	lat := math.Asin(sinLat)

	y := math.Sin(ra)*math.Cos(eps) + math.Tan(dec)*math.Sin(eps)
	x := math.Cos(ra)
	lon := math.Atan2(y, x)

	return normalizeDeg(lon / degToRad), lat / degToRad
}

// EclipticToEquatorial converts ecliptic longitude/latitude (degrees) to
// equatorial RA/Dec (degrees, J2000). RA is normalized to [0, 360).
func EclipticToEquatorial(lonDeg, latDeg float64) (raDeg, decDeg float64) {
	lon := lonDeg * degToRad
	lat := latDeg * degToRad
	eps := obliquityJ2000 * degToRad

	sinDec := math.Sin(lat)*math.Cos(eps) + math.Cos(lat)*math.Sin(eps)*math.Sin(lon)
	dec := math.Asin(sinDec)

	y := math.Sin(lon)*math.Cos(eps) - math.Tan(lat)*math.Sin(eps)
	x := math.Cos(lon)
	ra := math.Atan2(y, x)

	return normalizeDeg(ra / degToRad), dec / degToRad
}

// SouthernEcliptic reports whether an equatorial position lies on the
// southern ecliptic hemisphere.
func SouthernEcliptic(raDeg, decDeg float64) bool {
	_, lat := EquatorialToEcliptic(raDeg, decDeg)
	return lat < 0
}

func normalizeDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
