// Package snapshot stores an analyzed file as xz-compressed msgpack.
//
// A snapshot keeps the source text plus everything the analysis derived
// from it: line kinds, token addresses, links, tracks and diagnostics.
// Restore re-reads the text and checks the rebuilt graph against the
// stored one, so a snapshot doubles as a regression fixture.
package snapshot

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"fortio.org/safecast"
	"github.com/ulikunitz/xz"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/blake3"

	"humdrum/internal/hum"
)

// SchemaVersion changes whenever the record layout does.
const SchemaVersion uint16 = 2

var (
	ErrSchema   = errors.New("snapshot: unsupported schema version")
	ErrDigest   = errors.New("snapshot: content digest mismatch")
	ErrMismatch = errors.New("snapshot: analysis differs from stored graph")
)

type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Sum hashes content with BLAKE3.
func Sum(content []byte) Digest { return blake3.Sum256(content) }

type Snapshot struct {
	Schema      uint16          `msgpack:"schema"`
	Path        string          `msgpack:"path"`
	Digest      Digest          `msgpack:"digest"`
	Text        string          `msgpack:"text"`
	Created     time.Time       `msgpack:"created"`
	Valid       bool            `msgpack:"valid"`
	LastPhase   uint8           `msgpack:"last_phase"`
	SkipNonNull bool            `msgpack:"skip_non_null,omitempty"`
	Lines       []LineRecord    `msgpack:"lines"`
	Tokens      []TokenRecord   `msgpack:"tokens"`
	Tracks      []TrackRecord   `msgpack:"tracks"`
	Diags       []DiagRecord    `msgpack:"diags"`
	Refs        []hum.Reference `msgpack:"refs"`
}

// LineRecord refers to tokens by their position in Snapshot.Tokens.
type LineRecord struct {
	Kind   uint8    `msgpack:"k"`
	Tokens []uint32 `msgpack:"t,omitempty"`
}

type TokenRecord struct {
	Text        string   `msgpack:"x"`
	Kind        uint8    `msgpack:"k"`
	Line        uint32   `msgpack:"l"`
	Field       int32    `msgpack:"f"`
	Track       int32    `msgpack:"tr"`
	Subtrack    int32    `msgpack:"st"`
	SpineInfo   string   `msgpack:"si,omitempty"`
	Next        []uint32 `msgpack:"n,omitempty"`
	Prev        []uint32 `msgpack:"p,omitempty"`
	NextNonNull []uint32 `msgpack:"nn,omitempty"`
	PrevNonNull []uint32 `msgpack:"pn,omitempty"`
}

type TrackRecord struct {
	Track int32    `msgpack:"t"`
	Start uint32   `msgpack:"s"`
	Ends  []uint32 `msgpack:"e,omitempty"`
}

type DiagRecord struct {
	Severity uint8  `msgpack:"s"`
	Code     string `msgpack:"c"`
	Message  string `msgpack:"m"`
	Start    uint32 `msgpack:"b"`
	End      uint32 `msgpack:"e"`
}

// Capture records f as it is now. Token ids are renumbered densely in
// line order, so edited files with orphaned tokens capture cleanly.
func Capture(f *hum.File) *Snapshot {
	text := f.String()
	s := &Snapshot{
		Schema:    SchemaVersion,
		Path:      f.Path(),
		Digest:    Sum([]byte(text)),
		Text:      text,
		Created:   time.Now().UTC(),
		Valid:     f.IsValid(),
		LastPhase: uint8(f.LastPhase()),
		Refs:      f.References(),

		SkipNonNull: f.Options().SkipNonNull,
	}

	dense := make(map[hum.TokenID]uint32)
	for i := range f.LineCount() {
		for _, id := range f.Line(i).Tokens() {
			dense[id] = u32(len(dense))
		}
	}
	remap := func(ids []hum.TokenID) []uint32 {
		if len(ids) == 0 {
			return nil
		}
		out := make([]uint32, 0, len(ids))
		for _, id := range ids {
			if d, ok := dense[id]; ok {
				out = append(out, d)
			}
		}
		return out
	}

	s.Lines = make([]LineRecord, f.LineCount())
	s.Tokens = make([]TokenRecord, 0, len(dense))
	for i := range f.LineCount() {
		l := f.Line(i)
		s.Lines[i] = LineRecord{Kind: uint8(l.Kind()), Tokens: remap(l.Tokens())}
		for _, id := range l.Tokens() {
			t := f.Token(id)
			s.Tokens = append(s.Tokens, TokenRecord{
				Text:        t.Text(),
				Kind:        uint8(t.Kind()),
				Line:        u32(i),
				Field:       i32(t.Field),
				Track:       i32(t.Track),
				Subtrack:    i32(t.Subtrack),
				SpineInfo:   t.SpineInfo,
				Next:        remap(t.NextTokens()),
				Prev:        remap(t.PrevTokens()),
				NextNonNull: remap(t.NextNonNull()),
				PrevNonNull: remap(t.PrevNonNull()),
			})
		}
	}

	for track := 1; track <= f.MaxTrack(); track++ {
		rec := TrackRecord{Track: i32(track)}
		if d, ok := dense[f.TrackStart(track)]; ok {
			rec.Start = d
		}
		for i := range f.TrackEndCount(track) {
			if d, ok := dense[f.TrackEnd(track, i)]; ok {
				rec.Ends = append(rec.Ends, d)
			}
		}
		s.Tracks = append(s.Tracks, rec)
	}

	for _, d := range f.Diagnostics().Items() {
		s.Diags = append(s.Diags, DiagRecord{
			Severity: uint8(d.Severity),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		})
	}
	return s
}

// Encode writes s as msgpack inside an xz stream.
func Encode(w io.Writer, s *Snapshot) error {
	zw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("snapshot: xz writer: %w", err)
	}
	if err := msgpack.NewEncoder(zw).Encode(s); err != nil {
		_ = zw.Close()
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("snapshot: xz close: %w", err)
	}
	return nil
}

// Decode reads a snapshot and checks schema and digest.
func Decode(r io.Reader) (*Snapshot, error) {
	zr, err := xz.NewReader(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("snapshot: xz reader: %w", err)
	}
	var s Snapshot
	if err := msgpack.NewDecoder(zr).Decode(&s); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	if s.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: %d (want %d)", ErrSchema, s.Schema, SchemaVersion)
	}
	if Sum([]byte(s.Text)) != s.Digest {
		return nil, ErrDigest
	}
	return &s, nil
}

// WriteFile encodes s to path through a temp file and rename.
func WriteFile(path string, s *Snapshot) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := Encode(tmp, s); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	// атомарная замена
	return os.Rename(tmp.Name(), path)
}

func ReadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Restore re-analyzes the stored text and verifies the result. Analysis
// switches recorded at capture time override opts.
func (s *Snapshot) Restore(opts hum.Options) (*hum.File, error) {
	opts.SkipNonNull = s.SkipNonNull
	f := hum.ReadString(s.Path, s.Text, opts)
	if err := Verify(s, f); err != nil {
		return f, err
	}
	return f, nil
}

// Verify compares the graph of f with the one stored in s.
func Verify(s *Snapshot, f *hum.File) error {
	got := Capture(f)
	if got.Digest != s.Digest {
		return fmt.Errorf("%w: text digest %s, stored %s", ErrMismatch, got.Digest, s.Digest)
	}
	if got.Valid != s.Valid || got.LastPhase != s.LastPhase {
		return fmt.Errorf("%w: valid=%v phase=%d, stored valid=%v phase=%d",
			ErrMismatch, got.Valid, got.LastPhase, s.Valid, s.LastPhase)
	}
	if len(got.Tokens) != len(s.Tokens) {
		return fmt.Errorf("%w: %d tokens, stored %d", ErrMismatch, len(got.Tokens), len(s.Tokens))
	}
	for i := range got.Tokens {
		if !sameToken(&got.Tokens[i], &s.Tokens[i]) {
			return fmt.Errorf("%w: token %d on line %d (%q)", ErrMismatch, i, s.Tokens[i].Line+1, s.Tokens[i].Text)
		}
	}
	if len(got.Tracks) != len(s.Tracks) {
		return fmt.Errorf("%w: %d tracks, stored %d", ErrMismatch, len(got.Tracks), len(s.Tracks))
	}
	return nil
}

// u32 и i32 насыщаются вместо переполнения
func u32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return math.MaxUint32
	}
	return v
}

func i32(n int) int32 {
	v, err := safecast.Conv[int32](n)
	if err != nil {
		return math.MaxInt32
	}
	return v
}

func sameToken(a, b *TokenRecord) bool {
	return a.Text == b.Text && a.Kind == b.Kind && a.Line == b.Line &&
		a.Field == b.Field && a.Track == b.Track && a.Subtrack == b.Subtrack &&
		a.SpineInfo == b.SpineInfo &&
		equalIDs(a.Next, b.Next) && equalIDs(a.Prev, b.Prev) &&
		equalIDs(a.NextNonNull, b.NextNonNull) && equalIDs(a.PrevNonNull, b.PrevNonNull)
}

func equalIDs(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
