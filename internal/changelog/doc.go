// Package changelog locates Debian changelog files in an uncertain repository
// layout and extracts version strings from them.
//
// A Debian changelog's first line conventionally embeds the package version in
// parentheses, e.g. "indi-gpsd (1.2.3-1) unstable; urgency=low". Extraction is
// lossless string capture: whatever sits between the first pair of parentheses
// is the version, with no well-formedness check.
//
// Location is an ordered search over (branch, path) candidates, from most
// authoritative to most speculative layout convention, stopping at the first
// candidate that yields content.
package changelog
