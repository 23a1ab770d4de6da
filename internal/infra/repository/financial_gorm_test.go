package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

// dryRunDB monta o dialeto postgres sem conexão e guarda o último INSERT gerado.
func dryRunDB(t *testing.T) (*gorm.DB, *[]*gorm.Statement) {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=advoga dbname=advoga sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true, SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open dry run: %v", err)
	}

	var captured []*gorm.Statement
	if err := db.Callback().Create().After("gorm:create").Register("test:capture", func(tx *gorm.DB) {
		captured = append(captured, tx.Statement)
	}); err != nil {
		t.Fatal(err)
	}
	return db, &captured
}

// insertVar devolve o valor ligado à coluna no INSERT.
func insertVar(t *testing.T, stmt *gorm.Statement, column string) any {
	t.Helper()

	sql := stmt.SQL.String()
	start := strings.Index(sql, "(")
	end := strings.Index(sql, ") VALUES")
	if start < 0 || end < 0 {
		t.Fatalf("unexpected insert: %s", sql)
	}

	for i, col := range strings.Split(sql[start+1:end], ",") {
		if strings.Trim(col, `" `) == column {
			return stmt.Vars[i]
		}
	}
	t.Fatalf("column %s not in insert: %s", column, sql)
	return nil
}

func TestCreateEntryBindsNullPageForWithdrawals(t *testing.T) {
	db, captured := dryRunDB(t)
	repo := NewFinancialGormRepository(db)

	withdrawal := &models.FinancialEntry{
		ID:             "9b2f6c1e-6a51-4e0b-9d3c-2f1a7c5e8b10",
		ProfessionalID: "1c7e2d44-0b1f-4f5e-8a6d-3e9b2c4a7f21",
		Type:           models.EntryTypeWithdrawal,
		Amount:         decimal.NewFromInt(100),
		Status:         "requested",
		OccurredAt:     time.Now(),
	}
	if err := repo.CreateEntry(context.Background(), withdrawal); err != nil {
		t.Fatal(err)
	}
	if len(*captured) != 1 {
		t.Fatalf("want one insert, got %d", len(*captured))
	}

	switch v := insertVar(t, (*captured)[0], "page_id").(type) {
	case nil:
	case *string:
		if v != nil {
			t.Fatalf("withdrawal page_id must be NULL, got %q", *v)
		}
	default:
		// "" não é um uuid válido para o postgres
		t.Fatalf("withdrawal page_id must be NULL, got %T %v", v, v)
	}
}

func TestCreateEntryKeepsPageForIncome(t *testing.T) {
	db, captured := dryRunDB(t)
	repo := NewFinancialGormRepository(db)

	pageID := "5d0c8a3b-2e7f-4c19-b6a4-8f1e3d2c9a70"
	income := &models.FinancialEntry{
		ID:             "0e4b7a92-13cd-4f68-a2b5-6c9d8e7f1a03",
		ProfessionalID: "1c7e2d44-0b1f-4f5e-8a6d-3e9b2c4a7f21",
		PageID:         &pageID,
		Type:           models.EntryTypeIncome,
		Amount:         decimal.NewFromInt(300),
		Status:         "received",
		OccurredAt:     time.Now(),
	}
	if err := repo.CreateEntry(context.Background(), income); err != nil {
		t.Fatal(err)
	}

	v, ok := insertVar(t, (*captured)[0], "page_id").(*string)
	if !ok || v == nil || *v != pageID {
		t.Fatalf("income page_id must be bound, got %v", v)
	}
}
