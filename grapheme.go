package rendercore

import "github.com/rivo/uniseg"

// GraphemeID references an interned multi-codepoint grapheme cluster stored
// in a GraphemePool. A Cell's Content rune holds the cluster's base scalar;
// GraphemeID 0 means "no extra combining marks — Content is the whole
// cluster".
type GraphemeID uint32

// GraphemePool interns multi-codepoint grapheme cluster contents (a base
// scalar plus trailing combining marks) so a Cell can reference a cluster by
// a compact id instead of growing to a variable-length string. Segmentation
// uses github.com/rivo/uniseg, which the rest of the terminal-emulator
// corpus in this pack pulls in transitively (tcell) for the same purpose;
// the teacher (go-headless-term) has no cluster-interning layer at all —
// width.go there degrades combining marks to width 0 and drops them.
type GraphemePool struct {
	clusters []string
	index    map[string]GraphemeID
}

// NewGraphemePool creates an empty pool. Id 0 is reserved for "no cluster".
func NewGraphemePool() *GraphemePool {
	return &GraphemePool{
		clusters: []string{""},
		index:    make(map[string]GraphemeID),
	}
}

// Intern stores a cluster's trailing combining marks (everything after the
// base scalar) and returns its id, reusing an existing id for identical
// content.
func (p *GraphemePool) Intern(marks string) GraphemeID {
	if marks == "" {
		return 0
	}
	if id, ok := p.index[marks]; ok {
		return id
	}
	id := GraphemeID(len(p.clusters))
	p.clusters = append(p.clusters, marks)
	p.index[marks] = id
	return id
}

// Lookup returns the combining-mark suffix for a cluster id.
func (p *GraphemePool) Lookup(id GraphemeID) string {
	if int(id) >= len(p.clusters) {
		return ""
	}
	return p.clusters[id]
}

// Segments splits s into grapheme clusters using uniseg, returning each
// cluster's base scalar and its combining-mark suffix (if any) ready for
// GraphemePool.Intern.
func Segments(s string) []GraphemeSegment {
	var out []GraphemeSegment
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		if cluster == "" {
			break
		}
		runes := []rune(cluster)
		seg := GraphemeSegment{Base: runes[0]}
		if len(runes) > 1 {
			seg.Marks = string(runes[1:])
		}
		out = append(out, seg)
	}
	return out
}

// GraphemeSegment is one user-perceived character: a base scalar plus an
// optional combining-mark suffix.
type GraphemeSegment struct {
	Base  rune
	Marks string
}
