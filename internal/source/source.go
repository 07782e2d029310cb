// Package source contains candidate source implementations (LRCLIB,
// Deezer, iTunes, MusicBrainz).
//
// The Source interface is defined in internal/match (match.Source),
// following the Go convention of defining interfaces where they are
// consumed. Each sub-package here implements that interface for one
// external service and maps its results into match.Candidate values.
package source
