// Package identity derives short display labels from participant identifiers.
package identity

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/zjrosen/rosterboard/internal/cachemanager"
	"github.com/zjrosen/rosterboard/internal/log"
)

// Fallback is returned when no label can be derived.
const Fallback = "?"

const maxSegments = 2

var upper = cases.Upper(language.Und)

// Initials returns up to two upper-cased initials for an identifier such as
// "ada.lovelace@example.com" -> "AL". The result is never empty.
func Initials(identifier string) string {
	local, _, _ := strings.Cut(identifier, "@")

	segments := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '-' || r == '_'
	})

	var b strings.Builder
	if len(segments) == 0 {
		b.WriteString(firstUpper(local))
	} else {
		for _, seg := range segments[:min(len(segments), maxSegments)] {
			b.WriteString(firstUpper(seg))
		}
	}

	if b.Len() == 0 {
		return Fallback
	}
	return b.String()
}

// firstUpper upper-cases the first user-perceived character of s, so a
// letter keeps its combining marks.
func firstUpper(s string) string {
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	if cluster == "" || !utf8.ValidString(cluster) {
		return ""
	}
	return upper.String(cluster)
}

// Labeler produces avatar labels.
type Labeler interface {
	Label(identifier string) string
}

// LabelerFunc adapts a function to Labeler.
type LabelerFunc func(identifier string) string

// Label implements Labeler.
func (f LabelerFunc) Label(identifier string) string { return f(identifier) }

// Formatter is a Labeler that memoises Initials.
type Formatter struct {
	cache *cachemanager.ReadThroughCache[string, string, string]
}

// NewFormatter creates a Formatter whose entries expire after ttl.
func NewFormatter(ttl time.Duration) *Formatter {
	if ttl <= 0 {
		ttl = cachemanager.DefaultExpiration
	}
	store := cachemanager.NewInMemoryCacheManager[string, string]("avatar-labels", ttl, cachemanager.DefaultCleanupInterval)
	return &Formatter{
		cache: cachemanager.NewReadThroughCache[string, string, string](store,
			func(_ context.Context, identifier string) (string, error) {
				return Initials(identifier), nil
			},
			ttl,
		),
	}
}

// Label returns the initials for identifier.
func (f *Formatter) Label(identifier string) string {
	label, err := f.cache.Get(context.Background(), identifier, identifier)
	if err != nil {
		log.ErrorErr(log.CatCache, "label lookup failed", err, "identifier", identifier)
		return Initials(identifier)
	}
	return label
}
