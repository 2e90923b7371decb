package export

import (
	"archive/zip"
	"bytes"
	"errors"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/decker502/fxbake/internal/atlas"
	"github.com/decker502/fxbake/internal/particle"
	"github.com/decker502/fxbake/internal/skeleton"
)

func testSettings() particle.ParticleSettings {
	s := particle.DefaultSettings()
	s.Seed = 42
	s.Duration = 1
	s.FrameWidth = 128
	s.FrameHeight = 96
	return s
}

func readArchive(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader error: %v", err)
	}
	files := make(map[string][]byte)
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Open(%q) error: %v", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("reading %q: %v", f.Name, err)
		}
		files[f.Name] = b
	}
	return files
}

func TestRun_ArchiveContents(t *testing.T) {
	res, err := Run(testSettings(), Options{Name: "spark"})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	wantEntries := []string{"spark.png", "spark_preview.png", "spark.atlas", "spark.json"}
	if strings.Join(res.Entries, ",") != strings.Join(wantEntries, ",") {
		t.Errorf("entries = %v, want %v", res.Entries, wantEntries)
	}
	if res.Frames != 30 {
		t.Errorf("frames = %d, want 30", res.Frames)
	}
	if res.Seed != 42 {
		t.Errorf("seed = %d, want 42", res.Seed)
	}

	files := readArchive(t, res.Archive)
	if len(files) != 4 {
		t.Fatalf("archive has %d files, want 4", len(files))
	}

	page, err := png.Decode(bytes.NewReader(files["spark.png"]))
	if err != nil {
		t.Fatalf("atlas page is not a PNG: %v", err)
	}
	if b := page.Bounds(); b.Dx() != atlas.AtlasSize || b.Dy() != atlas.AtlasSize {
		t.Errorf("atlas page size = %v", b)
	}

	preview, err := png.Decode(bytes.NewReader(files["spark_preview.png"]))
	if err != nil {
		t.Fatalf("preview is not a PNG: %v", err)
	}
	if b := preview.Bounds(); b.Dx() != 128 || b.Dy() != 96 {
		t.Errorf("preview size = %v, want 128x96", b)
	}

	if !strings.HasPrefix(string(files["spark.atlas"]), "\nspark.png\n") {
		t.Errorf("atlas descriptor does not name the page: %q", files["spark.atlas"])
	}

	doc, err := skeleton.ParseDocument(files["spark.json"])
	if err != nil {
		t.Fatalf("document does not parse: %v", err)
	}
	if len(doc.Bones)-1 != res.Bones {
		t.Errorf("document bones = %d, result says %d", len(doc.Bones)-1, res.Bones)
	}
	if res.Bones == 0 {
		t.Error("expected at least one exported particle")
	}
	if _, ok := doc.Animations[skeleton.DefaultClip]; !ok {
		t.Errorf("animations = %v, want clip %q", doc.Animations, skeleton.DefaultClip)
	}
	if doc.Skeleton.Width != 128 || doc.Skeleton.Height != 96 {
		t.Errorf("skeleton size = %vx%v", doc.Skeleton.Width, doc.Skeleton.Height)
	}
}

func TestRun_Deterministic(t *testing.T) {
	a, err := Run(testSettings(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Run(testSettings(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Archive, b.Archive) {
		t.Error("same settings and seed produced different archives")
	}
	if a.Entries[0] != DefaultName+".png" {
		t.Errorf("default entry name = %q", a.Entries[0])
	}
}

func TestRun_CustomClip(t *testing.T) {
	res, err := Run(testSettings(), Options{Clip: "burst"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := res.Document.Animations["burst"]; !ok {
		t.Errorf("animations = %v, want clip burst", res.Document.Animations)
	}
}

func TestRun_EncodeFailure(t *testing.T) {
	cause := errors.New("disk full")
	calls := 0
	failing := func(w io.Writer, img image.Image) error {
		calls++
		return cause
	}

	res, err := Run(testSettings(), Options{Encoder: failing})
	if err == nil {
		t.Fatal("expected error from failing encoder")
	}
	if !errors.Is(err, ErrEncode) || !errors.Is(err, cause) {
		t.Errorf("error = %v, want ErrEncode wrapping the cause", err)
	}
	if res != nil {
		t.Errorf("result = %+v, want nil on failure", res)
	}
	if calls != 1 {
		t.Errorf("encoder called %d times, want abort after first failure", calls)
	}
}

func TestRun_PreviewEncodeFailure(t *testing.T) {
	calls := 0
	secondFails := func(w io.Writer, img image.Image) error {
		calls++
		if calls == 2 {
			return errors.New("boom")
		}
		return png.Encode(w, img)
	}
	if _, err := Run(testSettings(), Options{Encoder: secondFails}); !errors.Is(err, ErrEncode) {
		t.Errorf("error = %v, want ErrEncode", err)
	}
}

func TestResult_WriteFile(t *testing.T) {
	res, err := Run(testSettings(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.zip")
	if err := res.WriteFile(path); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, res.Archive) {
		t.Error("file content differs from archive bytes")
	}

	if err := res.WriteFile(filepath.Join(t.TempDir(), "missing", "out.zip")); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}

func TestPreviewFrame(t *testing.T) {
	if f := previewFrame(nil); len(f.Particles) != 0 {
		t.Errorf("previewFrame(nil) = %+v", f)
	}
	frames := []particle.BakedFrame{{Time: 1}, {Time: 2}, {Time: 3}, {Time: 4}}
	if f := previewFrame(frames); f.Time != 3 {
		t.Errorf("previewFrame time = %v, want 3", f.Time)
	}
}
