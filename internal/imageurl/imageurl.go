// Package imageurl rewrites photo-service image URLs to request a
// full-resolution variant.
//
// Image CDNs of the lens/photos family encode the served size as a positional
// suffix on the object URL, e.g. "...=w400-h300" or "...=s128". Rewriting that
// suffix asks the server for a different rendition of the same object. The
// functions here never fail: an unrecognized URL simply gets the default
// suffix appended, which the servers tolerate.
package imageurl

import "regexp"

// MaxEdge is the bounding box requested for full-resolution variants.
// 2048 is large enough for any display use while staying within the
// renditions the CDN keeps pre-generated.
const MaxEdge = 2048

const (
	// fullSizeSuffix requests a 2048x2048 bounding box without cropping
	// ("-no" disables the smart crop the server applies by default).
	fullSizeSuffix = "=w2048-h2048-no"

	// authVariantSuffix is the alternate size syntax some endpoints accept
	// when the w/h form is rejected with an authorization error. Best-effort:
	// the convention is not documented by the service.
	authVariantSuffix = "=s2048"
)

// sizeSuffix matches the positional size directive at the end of an object
// URL: "=s128", "=w400-h300", "=h512-rw" and similar.
var sizeSuffix = regexp.MustCompile(`=[swh]\d[^/=]*$`)

// Normalize returns a variant of raw requesting the maximum bounded
// resolution. An existing size suffix is replaced; otherwise the default
// suffix is appended. The result is always a usable URL string.
func Normalize(raw string) string {
	if sizeSuffix.MatchString(raw) {
		return sizeSuffix.ReplaceAllString(raw, fullSizeSuffix)
	}
	return raw + fullSizeSuffix
}

// AuthVariant returns the alternate-suffix form of raw, used as a one-shot
// retry when the normalized URL comes back with an authorization-denied
// status.
func AuthVariant(raw string) string {
	if sizeSuffix.MatchString(raw) {
		return sizeSuffix.ReplaceAllString(raw, authVariantSuffix)
	}
	return raw + authVariantSuffix
}
