package snapshot

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"humdrum/internal/hum"
)

const chorale = "!!!COM: Bach\n**kern\t**kern\n*^\t*\n4c\t.\t4e\n*v\t*v\t*\n*-\t*-\n"

func TestRoundTripFile(t *testing.T) {
	f := hum.ReadString("chorale.krn", chorale, hum.Options{})
	if !f.IsValid() {
		t.Fatalf("fixture invalid: %v", f.Diagnostics().Items())
	}
	s := Capture(f)
	if len(s.Lines) != f.LineCount() || len(s.Tracks) != 2 || len(s.Refs) != 1 {
		t.Fatalf("capture: lines=%d tracks=%d refs=%d", len(s.Lines), len(s.Tracks), len(s.Refs))
	}

	path := filepath.Join(t.TempDir(), "chorale.humsnap")
	if err := WriteFile(path, s); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.Digest != s.Digest || got.Path != "chorale.krn" || got.Text != chorale {
		t.Errorf("decoded header = %q %s", got.Path, got.Digest)
	}

	restored, err := got.Restore(hum.Options{})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.String() != chorale {
		t.Errorf("restored text = %q", restored.String())
	}
}

func TestDecodeRejectsTampering(t *testing.T) {
	s := Capture(hum.ReadString("a.krn", "**kern\n4c\n*-\n", hum.Options{}))

	s.Text = "**kern\n4d\n*-\n"
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(&buf); !errors.Is(err, ErrDigest) {
		t.Errorf("Decode err = %v, want ErrDigest", err)
	}

	s.Text = "**kern\n4c\n*-\n"
	s.Schema = 99
	buf.Reset()
	if err := Encode(&buf, s); err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(&buf); !errors.Is(err, ErrSchema) {
		t.Errorf("Decode err = %v, want ErrSchema", err)
	}

	if _, err := Decode(bytes.NewReader([]byte("not xz"))); err == nil {
		t.Errorf("garbage must not decode")
	}
}

func TestVerifyDetectsGraphChange(t *testing.T) {
	s := Capture(hum.ReadString("a.krn", chorale, hum.Options{}))
	// тот же текст, но испорченная ссылка
	s.Tokens[3].Next = nil
	_, err := s.Restore(hum.Options{})
	if !errors.Is(err, ErrMismatch) {
		t.Errorf("Restore err = %v, want ErrMismatch", err)
	}
}

func TestCaptureInvalidFile(t *testing.T) {
	f := hum.ReadString("bad.krn", "4c\n", hum.Options{})
	s := Capture(f)
	if s.Valid || len(s.Diags) == 0 || s.Diags[0].Code == "" {
		t.Errorf("capture of invalid file = %+v", s)
	}
	if _, err := s.Restore(hum.Options{}); err != nil {
		t.Errorf("invalid file must restore identically: %v", err)
	}
}

func TestRestoreReplaysSkipNonNull(t *testing.T) {
	f := hum.ReadString("plain.krn", "**a\n4c\n.\n*-\n", hum.Options{SkipNonNull: true})
	s := Capture(f)
	if !s.SkipNonNull {
		t.Fatal("capture did not record SkipNonNull")
	}

	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	restored, err := got.Restore(hum.Options{MaxDiagnostics: 100})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !restored.Options().SkipNonNull {
		t.Error("restored file ran the non-null chase")
	}
}
