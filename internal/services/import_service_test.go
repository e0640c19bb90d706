package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DanielSkala/gold-price-scraper/internal/core"
)

type fakeStore struct {
	imports []struct {
		filename string
		rows     int
		skipped  int
	}
	err error
}

func (f *fakeStore) RecordImport(ctx context.Context, filename string, txs []core.Transaction, skipped int) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.imports = append(f.imports, struct {
		filename string
		rows     int
		skipped  int
	}{filename, len(txs), skipped})
	return int64(len(f.imports)), nil
}

type fakePublisher struct {
	published []int64
	err       error
}

func (f *fakePublisher) PublishImportCompleted(ctx context.Context, importID int64, rows, skipped int) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, importID)
	return nil
}

func statementRow(txType, amount, date, merchant string) string {
	cols := make([]string, 11)
	cols[0] = txType
	cols[2] = amount
	cols[6] = date
	cols[10] = merchant
	return strings.Join(cols, ",")
}

func writeStatement(t *testing.T, dir, name string, rows ...string) string {
	t.Helper()
	content := "header\n" + strings.Join(rows, "\n") + "\n"
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testRules() core.Ruleset {
	return core.NewRuleset([]core.CategoryRule{
		{Name: "groceries", Keywords: []string{"tesco"}},
	})
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()
	path := writeStatement(t, dir, "jan.csv",
		statementRow("Debet", "12,50", "05.01.2025", "TESCO STORES"),
		statementRow("Debet", "not-a-number", "06.01.2025", "BAD ROW"),
	)

	store := &fakeStore{}
	pub := &fakePublisher{}
	svc := NewImportService(store, pub, testRules())

	result, err := svc.ImportFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if result.Rows != 1 || result.Skipped != 1 {
		t.Errorf("result = %+v, want 1 row and 1 skipped", result)
	}
	if len(store.imports) != 1 || store.imports[0].filename != "jan.csv" {
		t.Errorf("store recorded %+v", store.imports)
	}
	if len(pub.published) != 1 || pub.published[0] != result.ImportID {
		t.Errorf("published = %v", pub.published)
	}
}

func TestImportFilePublishFailureIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	path := writeStatement(t, dir, "jan.csv",
		statementRow("Debet", "10,00", "05.01.2025", "TESCO"))

	store := &fakeStore{}
	svc := NewImportService(store, &fakePublisher{err: errors.New("broker down")}, testRules())

	if _, err := svc.ImportFile(context.Background(), path); err != nil {
		t.Fatalf("publish failure must not fail the import: %v", err)
	}
	if len(store.imports) != 1 {
		t.Errorf("import not recorded")
	}
}

func TestImportFileWithoutPublisher(t *testing.T) {
	dir := t.TempDir()
	path := writeStatement(t, dir, "jan.csv",
		statementRow("Debet", "10,00", "05.01.2025", "TESCO"))

	svc := NewImportService(&fakeStore{}, nil, testRules())
	if _, err := svc.ImportFile(context.Background(), path); err != nil {
		t.Fatalf("ImportFile without publisher: %v", err)
	}
}

func TestImportFileStoreError(t *testing.T) {
	dir := t.TempDir()
	path := writeStatement(t, dir, "jan.csv",
		statementRow("Debet", "10,00", "05.01.2025", "TESCO"))

	svc := NewImportService(&fakeStore{err: errors.New("db locked")}, nil, testRules())
	if _, err := svc.ImportFile(context.Background(), path); err == nil {
		t.Fatal("expected store error to surface")
	}
}

func TestImportDir(t *testing.T) {
	dir := t.TempDir()
	writeStatement(t, dir, "feb.csv", statementRow("Debet", "20,00", "05.02.2025", "TESCO"))
	writeStatement(t, dir, "jan.csv", statementRow("Debet", "10,00", "05.01.2025", "TESCO"))

	store := &fakeStore{}
	svc := NewImportService(store, nil, testRules())

	results, err := svc.ImportDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("ImportDir: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	// Name order.
	if results[0].File != "feb.csv" || results[1].File != "jan.csv" {
		t.Errorf("import order: %s, %s", results[0].File, results[1].File)
	}
}

func TestImportDirEmpty(t *testing.T) {
	svc := NewImportService(&fakeStore{}, nil, testRules())
	if _, err := svc.ImportDir(context.Background(), t.TempDir()); err == nil {
		t.Fatal("expected error for empty statements directory")
	}
}
