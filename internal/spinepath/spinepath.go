// Package spinepath parses spine paths such as "1", "(2)a", "((1)a)b" or
// the space-joined form left by merging unrelated spines, "(1)a 2".
//
// A path records how a spine was derived: a bare number is the spine that
// opened a track, "(P)a" and "(P)b" are the two halves of a split of P.
package spinepath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Path is a parsed spine path: one or more items separated by spaces.
//
//nolint:govet // participle grammar tags are not standard struct tags
type Path struct {
	Items []*Item `@@+`
}

// Item is either a track number or a split branch of a nested path.
//
//nolint:govet // participle grammar tags are not standard struct tags
type Item struct {
	Track *int   `  @Int`
	Group *Group `| @@`
}

// Group is "(" Path ")" followed by the branch letter.
//
//nolint:govet // participle grammar tags are not standard struct tags
type Group struct {
	Inner  *Path  `"(" @@ ")"`
	Branch string `@Branch`
}

var pathLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Branch", Pattern: `[ab]`},
	{Name: "Punct", Pattern: `[()]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var pathParser = participle.MustBuild[Path](
	participle.Lexer(pathLexer),
	participle.Elide("Whitespace"),
)

// Parse parses a spine path.
func Parse(s string) (*Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty spine path")
	}
	p, err := pathParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("invalid spine path %q: %w", s, err)
	}
	return p, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) *Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Path) String() string {
	parts := make([]string, len(p.Items))
	for i, it := range p.Items {
		parts[i] = it.String()
	}
	return strings.Join(parts, " ")
}

func (it *Item) String() string {
	if it.Track != nil {
		return strconv.Itoa(*it.Track)
	}
	return "(" + it.Group.Inner.String() + ")" + it.Group.Branch
}

// Track returns the first track number in the path, the one a token on
// this path is numbered with.
func (p *Path) Track() int {
	tracks := p.Tracks()
	if len(tracks) == 0 {
		return 0
	}
	return tracks[0]
}

// Tracks returns every distinct track number in order of appearance.
func (p *Path) Tracks() []int {
	var out []int
	seen := map[int]bool{}
	p.walk(func(track int) {
		if !seen[track] {
			seen[track] = true
			out = append(out, track)
		}
	})
	return out
}

func (p *Path) walk(fn func(int)) {
	for _, it := range p.Items {
		if it.Track != nil {
			fn(*it.Track)
			continue
		}
		it.Group.Inner.walk(fn)
	}
}

// Depth is the number of nested splits, 0 for a track root.
func (p *Path) Depth() int {
	depth := 0
	for _, it := range p.Items {
		if it.Group != nil {
			depth = max(depth, 1+it.Group.Inner.Depth())
		}
	}
	return depth
}

// IsMerged reports paths joined from more than one spine.
func (p *Path) IsMerged() bool {
	return len(p.Items) > 1
}

// Branch returns "a" or "b" for a single split half, otherwise "".
func (p *Path) Branch() string {
	if len(p.Items) != 1 || p.Items[0].Group == nil {
		return ""
	}
	return p.Items[0].Group.Branch
}

// Parent returns the path this split half came from, or nil.
func (p *Path) Parent() *Path {
	if len(p.Items) != 1 || p.Items[0].Group == nil {
		return nil
	}
	return p.Items[0].Group.Inner
}

// Lineage lists the path and its split ancestors, root first. A merged
// path has no single lineage and yields only itself.
func (p *Path) Lineage() []string {
	var out []string
	for cur := p; cur != nil; cur = cur.Parent() {
		out = append(out, cur.String())
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Split returns the two halves produced by "*^".
func (p *Path) Split() (a, b *Path) {
	return &Path{Items: []*Item{{Group: &Group{Inner: p, Branch: "a"}}}},
		&Path{Items: []*Item{{Group: &Group{Inner: p, Branch: "b"}}}}
}

// Merge combines paths the way a run of "*v" does: the two halves of one
// split collapse to their parent, anything else is concatenated.
func Merge(paths ...*Path) *Path {
	if len(paths) == 1 {
		return paths[0]
	}
	if len(paths) == 2 {
		pa, pb := paths[0].Parent(), paths[1].Parent()
		ba, bb := paths[0].Branch(), paths[1].Branch()
		if pa != nil && pb != nil && ba != bb && pa.String() == pb.String() {
			return pa
		}
	}
	out := &Path{}
	for _, p := range paths {
		out.Items = append(out.Items, p.Items...)
	}
	return out
}
