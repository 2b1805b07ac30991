package metadata

import "strings"

// DeriveTypeID derives an engine-facing type name from a fully qualified
// entity type name: namespace separators become hyphens, camelCase becomes
// snake_case, and the whole name is lowercased.
//
//	"App\Entity\BlogPost" -> "app-entity-blog_post"
//	"shop/catalog.Product" -> "shop-catalog-product"
func DeriveTypeID(qualified string) string {
	var b strings.Builder
	b.Grow(len(qualified) + 4)

	prevLower := false
	for _, r := range qualified {
		switch {
		case r == '\\' || r == '/' || r == '.':
			b.WriteByte('-')
			prevLower = false
		case r >= 'A' && r <= 'Z':
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = r >= 'a' && r <= 'z' || r >= '0' && r <= '9'
		}
	}

	return b.String()
}
