package repository

import (
	"errors"
	"sync"
	"testing"
	"time"

	"coldspec/internal/csvtable"
	"coldspec/internal/models"

	"github.com/spf13/afero"
)

func sampleReport(aisle string) models.NCReport {
	r := models.NCReport{
		User:           "Mariana",
		Role:           "Inspector",
		SkuCode:        "A1",
		SkuDescription: "Cerveja Lata",
		Warehouse:      models.WarehouseB,
		Aisle:          aisle,
		RackPosition:   models.RackTop,
		Defects:        models.Defects{DentedCan: true},
		Notes:          "lata amassada",
	}
	r.Stamp(time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC))
	return r
}

func TestNonConformityCSV_AppendUnionsColumns(t *testing.T) {
	t.Parallel()

	store, _ := newMemStore(t, nil)
	repo := NewNonConformityCSV(store, "nc/nao_conformidade.csv")

	if err := repo.Append(ctx(t), sampleReport("")); err != nil {
		t.Fatalf("Append #1: %v", err)
	}
	tbl, err := repo.Load(ctx(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.HasColumn(models.ColNCAisle) {
		t.Fatalf("aisle column should not exist yet: %v", tbl.Columns)
	}

	if err := repo.Append(ctx(t), sampleReport("12")); err != nil {
		t.Fatalf("Append #2: %v", err)
	}
	tbl, err = repo.Load(ctx(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(tbl.Rows))
	}
	if !tbl.HasColumn(models.ColNCAisle) {
		t.Fatalf("aisle column missing: %v", tbl.Columns)
	}
	if _, ok := tbl.Rows[0].Get(models.ColNCAisle); ok {
		t.Fatalf("first row aisle should be null: %v", tbl.Rows[0])
	}
	if v, _ := tbl.Rows[1].Get(models.ColNCAisle); v != "12" {
		t.Fatalf("second row aisle = %q", v)
	}
	if v := tbl.Rows[0][models.ColNCWarehouse]; v != "Armazém B" {
		t.Fatalf("warehouse = %q", v)
	}
	if v := tbl.Rows[0][models.ColNCDentedCan]; v != models.FlagYes {
		t.Fatalf("dented can = %q", v)
	}
	if v := tbl.Rows[0][models.ColNCLeak]; v != models.FlagNo {
		t.Fatalf("leak = %q", v)
	}
}

func TestNonConformityCSV_Load_MissingIsEmpty(t *testing.T) {
	t.Parallel()

	store, _ := newMemStore(t, nil)
	tbl, err := NewNonConformityCSV(store, "nc.csv").Load(ctx(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tbl.Columns) != 0 || len(tbl.Rows) != 0 {
		t.Fatalf("expected empty table, got %+v", tbl)
	}
}

func TestNonConformityCSV_Load_SkipsMalformedRows(t *testing.T) {
	t.Parallel()

	body := "Usuario;Cargo;SKU\nAna;Inspector;A1\nAna;Inspector;A2;extra;cells\nJoão;Conferente\n"
	store, _ := newMemStore(t, map[string]string{"nc.csv": body})

	tbl, err := NewNonConformityCSV(store, "nc.csv").Load(ctx(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tbl.Rows) != 2 || tbl.Skipped != 1 {
		t.Fatalf("rows=%d skipped=%d", len(tbl.Rows), tbl.Skipped)
	}
	if _, ok := tbl.Rows[1].Get("SKU"); ok {
		t.Fatalf("short row should pad with null")
	}
}

func TestNonConformityCSV_Append_LockedKeepsFile(t *testing.T) {
	t.Parallel()

	base := afero.NewMemMapFs()
	orig := "Usuario;Cargo\nAna;Inspector\n"
	_ = afero.WriteFile(base, "nc.csv", []byte(orig), 0o644)
	repo := NewNonConformityCSV(csvtable.NewStore(afero.NewReadOnlyFs(base)), "nc.csv")

	err := repo.Append(ctx(t), sampleReport(""))
	if !errors.Is(err, ErrWriteLocked) {
		t.Fatalf("expected ErrWriteLocked, got %v", err)
	}
	raw, _ := afero.ReadFile(base, "nc.csv")
	if string(raw) != orig {
		t.Fatalf("file changed: %q", raw)
	}
}

func TestNonConformityCSV_Append_KeepsOverlongLegacyRows(t *testing.T) {
	t.Parallel()

	body := "Usuario;SKU;Observacoes\nAna;A1;ok\nBia;A2;x;Sim\n"
	store, _ := newMemStore(t, map[string]string{"nc.csv": body})
	repo := NewNonConformityCSV(store, "nc.csv")

	before, err := repo.Load(ctx(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(before.Rows) != 1 || before.Skipped != 1 {
		t.Fatalf("rows=%d skipped=%d", len(before.Rows), before.Skipped)
	}

	if err := repo.Append(ctx(t), sampleReport("")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	tbl, err := repo.Load(ctx(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tbl.Rows) != 3 || tbl.Skipped != 0 {
		t.Fatalf("rows=%d skipped=%d", len(tbl.Rows), tbl.Skipped)
	}
	bia := tbl.Rows[1]
	if bia["Usuario"] != "Bia" || bia["SKU"] != "A2" || bia["Observacoes"] != "x" || bia["Coluna_4"] != "Sim" {
		t.Fatalf("legacy row not preserved: %v", bia)
	}
	if tbl.Rows[2]["Usuario"] != "Mariana" {
		t.Fatalf("new row should be last: %v", tbl.Rows[2])
	}
}

func TestNonConformityCSV_Append_KeepsUnclosedQuoteRows(t *testing.T) {
	t.Parallel()

	body := "Usuario;SKU;Observacoes\nAna;A1;\"caixa\nBia;A2;ok\nCai;A3;ok\n"
	store, _ := newMemStore(t, map[string]string{"nc.csv": body})
	repo := NewNonConformityCSV(store, "nc.csv")

	if err := repo.Append(ctx(t), sampleReport("")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	tbl, err := repo.Load(ctx(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tbl.Rows) != 4 || tbl.Skipped != 0 {
		t.Fatalf("rows=%d skipped=%d", len(tbl.Rows), tbl.Skipped)
	}
	want := []string{"Ana", "Bia", "Cai", "Mariana"}
	for i, name := range want {
		if tbl.Rows[i]["Usuario"] != name {
			t.Fatalf("row %d user=%q, want %q", i, tbl.Rows[i]["Usuario"], name)
		}
	}
	if v := tbl.Rows[0]["Observacoes"]; v != `"caixa` {
		t.Fatalf("broken cell = %q", v)
	}
	if v := tbl.Rows[1]["Observacoes"]; v != "ok" {
		t.Fatalf("following row absorbed: %q", v)
	}
}

func TestNonConformityCSV_Append_KeepsLegacyColumns(t *testing.T) {
	t.Parallel()

	body := "Turno;Usuario;SKU\nNoite;Ana;A9\n"
	store, _ := newMemStore(t, map[string]string{"nc.csv": body})
	repo := NewNonConformityCSV(store, "nc.csv")

	report := sampleReport("")
	if err := repo.Append(ctx(t), report); err != nil {
		t.Fatalf("Append: %v", err)
	}
	tbl, err := repo.Load(ctx(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []string{"Turno", "Usuario", "SKU"}
	for _, f := range report.Fields() {
		if f.Column != "Usuario" && f.Column != "SKU" {
			want = append(want, f.Column)
		}
	}
	if len(tbl.Columns) != len(want) {
		t.Fatalf("columns=%v, want %v", tbl.Columns, want)
	}
	for i := range want {
		if tbl.Columns[i] != want[i] {
			t.Fatalf("columns=%v, want %v", tbl.Columns, want)
		}
	}
	if tbl.Rows[0]["Turno"] != "Noite" || tbl.Rows[0]["SKU"] != "A9" {
		t.Fatalf("old row changed: %v", tbl.Rows[0])
	}
	if _, ok := tbl.Rows[0].Get(models.ColNCNotes); ok {
		t.Fatalf("old row should be null for newer columns: %v", tbl.Rows[0])
	}
	if _, ok := tbl.Rows[1].Get("Turno"); ok {
		t.Fatalf("new row should be null for legacy column: %v", tbl.Rows[1])
	}
}

func TestNonConformityCSV_Append_ZeroByteFile(t *testing.T) {
	t.Parallel()

	store, _ := newMemStore(t, map[string]string{"nc.csv": ""})
	repo := NewNonConformityCSV(store, "nc.csv")

	report := sampleReport("7")
	if err := repo.Append(ctx(t), report); err != nil {
		t.Fatalf("Append: %v", err)
	}
	tbl, err := repo.Load(ctx(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tbl.Rows) != 1 || len(tbl.Columns) != len(report.Fields()) {
		t.Fatalf("rows=%d columns=%v", len(tbl.Rows), tbl.Columns)
	}
	if tbl.Rows[0][models.ColNCAisle] != "7" {
		t.Fatalf("aisle=%q", tbl.Rows[0][models.ColNCAisle])
	}
}

func TestNonConformityCSV_Append_Concurrent(t *testing.T) {
	t.Parallel()

	store, _ := newMemStore(t, nil)
	repo := NewNonConformityCSV(store, "nc.csv")

	const n = 20
	c := ctx(t)
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Append(c, sampleReport(""))
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	tbl, err := repo.Load(ctx(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tbl.Rows) != n {
		t.Fatalf("want %d rows, got %d", n, len(tbl.Rows))
	}
}
