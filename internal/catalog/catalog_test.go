package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"humdrum/internal/driver"
)

func openTemp(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(context.Background(), filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRecordAndQuery(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	good := filepath.Join(dir, "good.krn")
	bad := filepath.Join(dir, "bad.krn")
	if err := os.WriteFile(good, []byte("**kern\n4c\n*-\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("**kern\n4c\t4d\n*-\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	started := time.Now()
	fs, results, err := driver.AnalyzeFiles(ctx, []string{good, bad, filepath.Join(dir, "gone.krn")}, driver.Options{})
	if err != nil {
		t.Fatal(err)
	}

	c := openTemp(t)
	if _, err := c.LastRun(ctx); !errors.Is(err, ErrNoRuns) {
		t.Errorf("LastRun on empty catalog = %v", err)
	}
	run, err := c.Record(ctx, fs, started, results)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if run.Files != 3 || run.Valid != 1 || run.Invalid != 1 || run.Failed != 1 {
		t.Errorf("run = %+v", run)
	}

	last, err := c.LastRun(ctx)
	if err != nil || last.ID != run.ID {
		t.Fatalf("LastRun = %+v, %v", last, err)
	}

	recs, err := c.Results(ctx, run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("results = %+v", recs)
	}
	byPath := map[string]FileRecord{}
	for _, r := range recs {
		byPath[filepath.Base(r.Path)] = r
	}
	if g := byPath["good.krn"]; !g.Valid || g.Tracks != 1 || g.LastPhase != "nonnull" || len(g.Digest) != 64 {
		t.Errorf("good = %+v", g)
	}
	if b := byPath["bad.krn"]; b.Valid || b.Errors == 0 || b.LastPhase != "index" {
		t.Errorf("bad = %+v", b)
	}
	if g := byPath["gone.krn"]; g.Digest != "" || g.Errors != 1 {
		t.Errorf("gone = %+v", g)
	}

	ok, err := c.KnownValid(ctx, good, byPath["good.krn"].Digest)
	if err != nil || !ok {
		t.Errorf("KnownValid(good) = %v, %v", ok, err)
	}
	if ok, _ := c.KnownValid(ctx, bad, byPath["bad.krn"].Digest); ok {
		t.Errorf("invalid file reported as known valid")
	}

	counts, err := c.DiagnosticCounts(ctx, run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if counts["IO4001"] != 1 || counts["SPN2002"] == 0 {
		t.Errorf("counts = %v", counts)
	}
}

func TestDigest(t *testing.T) {
	if Digest([]byte("a")) == Digest([]byte("b")) {
		t.Errorf("digest collision")
	}
	if DriverType() == "" {
		t.Errorf("empty driver type")
	}
}
