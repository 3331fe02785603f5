package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"testing"

	"tcrdcore/internal/blob/core"
)

func TestStorePutGetHeadList(t *testing.T) {
	ctx := context.Background()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if store.Driver() != core.DriverFilesystem {
		t.Fatalf("unexpected driver %s", store.Driver())
	}
	info, err := store.Put(ctx, "families/zebrafish.txt", bytes.NewReader([]byte("F1\t7955:Z1\n")), core.PutOptions{ContentType: "text/plain", Metadata: map[string]string{"release": "91"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != 11 || info.ETag == "" {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := store.Put(ctx, "families/zebrafish.txt", bytes.NewReader(nil), core.PutOptions{}); err == nil {
		t.Fatalf("expected duplicate put error")
	}
	got, rc, err := store.Get(ctx, "families/zebrafish.txt")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "F1\t7955:Z1\n" {
		t.Fatalf("unexpected body %q", body)
	}
	if got.Metadata["release"] != "91" || got.ContentType != "text/plain" {
		t.Fatalf("metadata lost: %+v", got)
	}
	head, err := store.Head(ctx, "families/zebrafish.txt")
	if err != nil || head.ETag != info.ETag {
		t.Fatalf("head: %v %+v", err, head)
	}
	list, err := store.List(ctx, "families/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Key != "families/zebrafish.txt" {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestStoreServesPlainFilesWithoutSidecar(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "ProteinFamilies_Zebrafish.txt"), []byte("F\t9606:P1\n"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store, err := New(root)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	info, rc, err := store.Get(context.Background(), "ProteinFamilies_Zebrafish.txt")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = rc.Close()
	if info.Size != 10 {
		t.Fatalf("expected stat size 10, got %d", info.Size)
	}
	list, err := store.List(context.Background(), "")
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v %+v", err, list)
	}
}

func TestStoreMissingKeyIsNotExist(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, _, err := store.Get(context.Background(), "missing.txt"); !errors.Is(err, iofs.ErrNotExist) {
		t.Fatalf("expected not-exist, got %v", err)
	}
	if _, err := store.Head(context.Background(), "missing.txt"); !errors.Is(err, iofs.ErrNotExist) {
		t.Fatalf("expected not-exist on head, got %v", err)
	}
}

func TestSanitizeKey(t *testing.T) {
	for _, key := range []string{"", "  ", "../x", "/abs", "a/../../b", "x.meta"} {
		if _, err := sanitizeKey(key); err == nil {
			t.Fatalf("expected %q to be rejected", key)
		}
	}
	if k, err := sanitizeKey("a//b/c.txt"); err != nil || k != "a/b/c.txt" {
		t.Fatalf("unexpected clean key %q %v", k, err)
	}
}

func TestStoreCorruptSidecar(t *testing.T) {
	root := t.TempDir()
	store, _ := New(root)
	if err := os.WriteFile(filepath.Join(root, "f.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "f.txt.meta"), []byte("{"), 0o644); err != nil {
		t.Fatalf("seed meta: %v", err)
	}
	if _, err := store.Head(context.Background(), "f.txt"); err == nil {
		t.Fatalf("expected decode error")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("fail") }

func TestStorePutReadError(t *testing.T) {
	store, _ := New(t.TempDir())
	if _, err := store.Put(context.Background(), "bad.txt", failingReader{}, core.PutOptions{}); err == nil {
		t.Fatalf("expected read error")
	}
	if list, _ := store.List(context.Background(), ""); len(list) != 0 {
		t.Fatalf("failed put must not leave blobs: %+v", list)
	}
}
