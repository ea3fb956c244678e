package parser

import (
	"html"
	"regexp"
	"strings"
)

// thumbnailPath matches a numeric, non-zero path segment immediately
// before the query string — e.g. "/300?" — which PubPlat uses for
// thumbnail variants. Originals end "/0?".
var thumbnailPath = regexp.MustCompile(`/[1-9]\d*\?`)

// avatarClasses marks content-area <img> elements that are chrome, not
// post content, and must be skipped in the gallery content-area sweep.
var avatarClasses = []string{
	"wx_follow_avatar_pic", "jump_author_avatar", "avatar", "profile_avatar", "icon",
}

// canonicalImageURL normalizes a URL for deduplication: unescape HTML
// entities, prefer https, drop the query string, and drop a trailing
// slash.
func canonicalImageURL(raw string) string {
	u := html.UnescapeString(raw)
	u = strings.Replace(u, "http://", "https://", 1)
	if idx := strings.IndexByte(u, '?'); idx >= 0 {
		u = u[:idx]
	}
	u = strings.TrimSuffix(u, "/")
	return u
}

// isThumbnail reports whether a (pre-canonicalization) image URL is a
// thumbnail variant rather than the original.
func isThumbnail(raw string) bool {
	return thumbnailPath.MatchString(raw)
}

// imageSet deduplicates image URLs by their canonical form while
// preserving first-seen order and original (pre-canonicalization) URL.
type imageSet struct {
	seen  map[string]struct{}
	items []string
}

func newImageSet() *imageSet {
	return &imageSet{seen: make(map[string]struct{})}
}

// add returns true if raw was newly added (i.e. not a duplicate).
func (s *imageSet) add(raw string) bool {
	if raw == "" {
		return false
	}
	key := canonicalImageURL(raw)
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	s.items = append(s.items, raw)
	return true
}

func (s *imageSet) urls() []string {
	return s.items
}

func isAvatarClass(class string) bool {
	for _, marker := range avatarClasses {
		if strings.Contains(class, marker) {
			return true
		}
	}
	return false
}

func isDataURI(src string) bool {
	return strings.HasPrefix(strings.TrimSpace(src), "data:")
}
