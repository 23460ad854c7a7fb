package repositorymem

import (
	"reflect"
	"testing"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-repository-store/repository"
)

type invoice struct {
	bun.BaseModel `bun:"table:invoices"`

	ID       int64      `bun:"id,pk,autoincrement"`
	Number   string     `bun:"number,unique"`
	Customer string     `bun:"customer"`
	Total    float64    `bun:"total"`
	PaidAt   *time.Time `bun:"paid_at"`
	Internal string     `bun:"-"`
	Notes    string
}

func newInvoiceMatcher() *matcher {
	return newMatcher(reflect.TypeOf(&invoice{}))
}

func TestMatcher_ColumnResolution(t *testing.T) {
	m := newInvoiceMatcher()

	for _, column := range []string{"id", "number", "customer", "total", "paid_at", "notes"} {
		if _, ok := m.columns[column]; !ok {
			t.Errorf("missing column %q", column)
		}
	}
	if _, ok := m.columns["internal"]; ok {
		t.Error("bun:\"-\" field must not be indexed")
	}
	if _, ok := m.columns["table"]; ok {
		t.Error("bun.BaseModel must not be indexed")
	}
}

func TestMatcher_Conditions(t *testing.T) {
	m := newInvoiceMatcher()
	paid := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	record := &invoice{
		ID:       7,
		Number:   "INV-2024-007",
		Customer: "Acme",
		Total:    149.50,
		PaidAt:   &paid,
	}

	tests := []struct {
		name string
		cond repository.Condition
		want bool
	}{
		{"eq string", repository.Condition{Field: "customer", Op: repository.Eq, Value: "Acme"}, true},
		{"eq mismatch", repository.Condition{Field: "customer", Op: repository.Eq, Value: "Globex"}, false},
		{"eq numeric widening", repository.Condition{Field: "id", Op: repository.Eq, Value: 7}, true},
		{"not eq", repository.Condition{Field: "customer", Op: repository.NotEq, Value: "Globex"}, true},
		{"gt", repository.Condition{Field: "total", Op: repository.Gt, Value: 100}, true},
		{"gte boundary", repository.Condition{Field: "total", Op: repository.Gte, Value: 149.50}, true},
		{"lt", repository.Condition{Field: "total", Op: repository.Lt, Value: 100}, false},
		{"lte boundary", repository.Condition{Field: "total", Op: repository.Lte, Value: 149.50}, true},
		{"in strings", repository.Condition{Field: "customer", Op: repository.In, Value: []string{"Acme", "Globex"}}, true},
		{"in ints", repository.Condition{Field: "id", Op: repository.In, Value: []int64{1, 7}}, true},
		{"not in", repository.Condition{Field: "customer", Op: repository.NotIn, Value: []string{"Globex"}}, true},
		{"like prefix", repository.Condition{Field: "number", Op: repository.Like, Value: "INV-%"}, true},
		{"like underscore", repository.Condition{Field: "number", Op: repository.Like, Value: "INV-2024-00_"}, true},
		{"like case insensitive", repository.Condition{Field: "customer", Op: repository.Like, Value: "acme"}, true},
		{"like mismatch", repository.Condition{Field: "number", Op: repository.Like, Value: "CREDIT-%"}, false},
		{"is null on set pointer", repository.Condition{Field: "paid_at", Op: repository.IsNull}, false},
		{"is not null on set pointer", repository.Condition{Field: "paid_at", Op: repository.IsNotNull}, true},
		{"time after", repository.Condition{Field: "paid_at", Op: repository.Gt, Value: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.matches(record, []repository.Condition{tt.cond})
			if err != nil {
				t.Fatalf("matches failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatcher_NullPointer(t *testing.T) {
	m := newInvoiceMatcher()
	record := &invoice{ID: 1, Number: "INV-1"}

	got, err := m.matches(record, []repository.Condition{
		{Field: "paid_at", Op: repository.IsNull},
	})
	if err != nil {
		t.Fatalf("matches failed: %v", err)
	}
	if !got {
		t.Error("nil *time.Time must satisfy IS NULL")
	}
}

func TestMatcher_AllConditionsMustHold(t *testing.T) {
	m := newInvoiceMatcher()
	record := &invoice{ID: 1, Customer: "Acme", Total: 50}

	got, err := m.matches(record, []repository.Condition{
		{Field: "customer", Op: repository.Eq, Value: "Acme"},
		{Field: "total", Op: repository.Gt, Value: 100},
	})
	if err != nil {
		t.Fatalf("matches failed: %v", err)
	}
	if got {
		t.Error("conjunction must fail when any condition fails")
	}
}

func TestMatcher_Errors(t *testing.T) {
	m := newInvoiceMatcher()
	record := &invoice{ID: 1, Customer: "Acme"}

	if _, err := m.matches(record, []repository.Condition{
		{Field: "missing", Op: repository.Eq, Value: 1},
	}); err == nil {
		t.Error("expected error for unknown column")
	}

	if _, err := m.matches(record, []repository.Condition{
		{Field: "customer", Op: repository.In, Value: "not-a-slice"},
	}); err == nil {
		t.Error("expected error for non-slice IN value")
	}

	if _, err := m.matches(record, []repository.Condition{
		{Field: "customer", Op: repository.Like, Value: 42},
	}); err == nil {
		t.Error("expected error for non-string LIKE pattern")
	}

	if _, err := m.matches(record, []repository.Condition{
		{Field: "customer", Op: repository.Op("between")},
	}); err == nil {
		t.Error("expected error for unsupported operator")
	}

	if err := m.checkOrder([]repository.Ordering{{Field: "missing"}}); err == nil {
		t.Error("expected error for unknown order column")
	}
	if err := m.checkOrder([]repository.Ordering{{Field: "total", Desc: true}}); err != nil {
		t.Errorf("unexpected error for known order column: %v", err)
	}
}

func TestMatcher_LikePatternCompiledOnce(t *testing.T) {
	m := newInvoiceMatcher()

	first := m.likePattern("INV-%")
	second := m.likePattern("INV-%")
	if first != second {
		t.Error("expected the same compiled pattern on repeated lookups")
	}

	other := m.likePattern("CREDIT-%")
	if other == first {
		t.Error("distinct patterns must compile independently")
	}

	if !first.MatchString("inv-42") {
		t.Error("cached pattern must still match case-insensitively")
	}
}

func TestMatcher_CompareColumns(t *testing.T) {
	m := newInvoiceMatcher()
	a := &invoice{ID: 1, Customer: "Acme", Total: 50}
	b := &invoice{ID: 2, Customer: "Globex", Total: 150}

	if c := m.compareColumns(a, b, "total"); c >= 0 {
		t.Errorf("compareColumns(total) = %d, want negative", c)
	}
	if c := m.compareColumns(b, a, "customer"); c <= 0 {
		t.Errorf("compareColumns(customer) = %d, want positive", c)
	}
	if c := m.compareColumns(a, a, "id"); c != 0 {
		t.Errorf("compareColumns(id, same record) = %d, want 0", c)
	}
}
