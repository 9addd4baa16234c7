package storage

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

type testFile struct {
	name        string
	contentType string
	data        []byte
}

// multipartFiles builds real multipart.FileHeaders the way gin would
// hand them to the store.
func multipartFiles(t *testing.T, files []testFile) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename="%s"`, f.name))
		hdr.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(hdr)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(f.data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(64 << 20); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}
	return req.MultipartForm.File["images"]
}

func newTestStore(t *testing.T) (*ImageStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewImageStore(dir)
	if err != nil {
		t.Fatalf("NewImageStore: %v", err)
	}
	return store, dir
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestSaveBatchWritesFiles(t *testing.T) {
	store, dir := newTestStore(t)
	files := multipartFiles(t, []testFile{
		{"front.png", "image/png", pngHeader},
		{"front.png", "image/png", pngHeader},
	})

	saved, err := store.SaveBatch(files)
	if err != nil {
		t.Fatalf("SaveBatch: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("expected 2 saved files, got %d", len(saved))
	}
	if saved[0].Filename == saved[1].Filename {
		t.Fatalf("expected unique filenames, both are %q", saved[0].Filename)
	}
	for _, f := range saved {
		if !strings.HasPrefix(f.Path, "/uploads/") {
			t.Fatalf("expected public path, got %q", f.Path)
		}
		if filepath.Ext(f.Filename) != ".png" {
			t.Fatalf("expected extension preserved, got %q", f.Filename)
		}
		if _, err := os.Stat(filepath.Join(dir, f.Filename)); err != nil {
			t.Fatalf("expected file on disk: %v", err)
		}
		if f.Size != int64(len(pngHeader)) {
			t.Fatalf("expected size %d, got %d", len(pngHeader), f.Size)
		}
	}
}

func TestSaveBatchRejectsUnsupportedType(t *testing.T) {
	store, dir := newTestStore(t)
	files := multipartFiles(t, []testFile{
		{"ok.png", "image/png", pngHeader},
		{"notes.txt", "text/plain", []byte("just some text content")},
	})

	_, err := store.SaveBatch(files)
	if !errors.Is(err, ErrUnsupportedMedia) {
		t.Fatalf("expected ErrUnsupportedMedia, got %v", err)
	}
	if got := dirEntries(t, dir); len(got) != 0 {
		t.Fatalf("expected no files written on rejected batch, got %v", got)
	}
}

func TestSaveBatchRejectsOversizedFile(t *testing.T) {
	store, dir := newTestStore(t)
	big := append(append([]byte{}, pngHeader...), make([]byte, MaxFileSize)...)
	files := multipartFiles(t, []testFile{
		{"huge.png", "image/png", big},
	})

	_, err := store.SaveBatch(files)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
	if got := dirEntries(t, dir); len(got) != 0 {
		t.Fatalf("expected no files written on rejected batch, got %v", got)
	}
}

func TestSaveBatchCapsBatchSize(t *testing.T) {
	store, _ := newTestStore(t)
	var batch []testFile
	for i := 0; i < MaxFilesPerBatch+5; i++ {
		batch = append(batch, testFile{fmt.Sprintf("img%d.png", i), "image/png", pngHeader})
	}
	files := multipartFiles(t, batch)

	saved, err := store.SaveBatch(files)
	if err != nil {
		t.Fatalf("SaveBatch: %v", err)
	}
	if len(saved) != MaxFilesPerBatch {
		t.Fatalf("expected batch capped at %d, got %d", MaxFilesPerBatch, len(saved))
	}
}

// AVIF does not sniff; the declared content type decides.
func TestSaveBatchAcceptsDeclaredAvif(t *testing.T) {
	store, _ := newTestStore(t)
	files := multipartFiles(t, []testFile{
		{"photo.avif", "image/avif", make([]byte, 32)},
	})

	saved, err := store.SaveBatch(files)
	if err != nil {
		t.Fatalf("SaveBatch: %v", err)
	}
	if len(saved) != 1 {
		t.Fatalf("expected 1 saved file, got %d", len(saved))
	}
}
