package repositorymem

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-repository-store/internal/storeinfra"
	"github.com/goliatone/go-repository-store/repository"
)

var baseModelType = reflect.TypeOf(bun.BaseModel{})

// matcher evaluates criteria conditions against records in process memory.
// Column names resolve the same way the SQL backend sees them: the first
// segment of the bun struct tag when present, snake_case of the Go field
// name otherwise.
type matcher struct {
	columns map[string][]int

	// Compiled LIKE patterns, keyed by the raw pattern, so evaluating one
	// condition over many records compiles its regexp once.
	likePatterns *xsync.MapOf[string, *regexp.Regexp]
}

func newMatcher(modelType reflect.Type) *matcher {
	for modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}

	m := &matcher{
		columns:      make(map[string][]int),
		likePatterns: xsync.NewMapOf[string, *regexp.Regexp](),
	}
	if modelType.Kind() == reflect.Struct {
		m.indexFields(modelType, nil)
	}
	return m
}

func (m *matcher) indexFields(t reflect.Type, path []int) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		idx := append(append([]int(nil), path...), i)

		if f.Anonymous {
			ft := f.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft == baseModelType {
				continue
			}
			if ft.Kind() == reflect.Struct {
				m.indexFields(ft, idx)
				continue
			}
		}
		if !f.IsExported() {
			continue
		}

		column := ""
		if tag, ok := f.Tag.Lookup("bun"); ok {
			head := strings.Split(tag, ",")[0]
			if head == "-" {
				continue
			}
			if head != "" && !strings.Contains(head, ":") {
				column = head
			}
		}
		if column == "" {
			column = storeinfra.ToSnake(f.Name)
		}
		m.columns[column] = idx
	}
}

func (m *matcher) fieldValue(record any, column string) (reflect.Value, error) {
	idx, ok := m.columns[column]
	if !ok {
		return reflect.Value{}, fmt.Errorf("unknown column %q", column)
	}

	v := reflect.ValueOf(record)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("nil record")
		}
		v = v.Elem()
	}
	return v.FieldByIndex(idx), nil
}

// checkOrder validates that every ordering refers to a known column.
func (m *matcher) checkOrder(order []repository.Ordering) error {
	for _, o := range order {
		if _, ok := m.columns[o.Field]; !ok {
			return fmt.Errorf("unknown column %q", o.Field)
		}
	}
	return nil
}

// matches reports whether the record satisfies every condition.
func (m *matcher) matches(record any, conds []repository.Condition) (bool, error) {
	for _, c := range conds {
		fv, err := m.fieldValue(record, c.Field)
		if err != nil {
			return false, err
		}

		ok, err := m.matchCondition(fv, c)
		if err != nil {
			return false, fmt.Errorf("column %q: %w", c.Field, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// compareColumns orders two records by the given column, returning the usual
// negative/zero/positive contract. Used when sorting List results.
func (m *matcher) compareColumns(a, b any, column string) int {
	av, errA := m.fieldValue(a, column)
	bv, errB := m.fieldValue(b, column)
	if errA != nil || errB != nil {
		return 0
	}
	c, err := compareValues(av, bv.Interface())
	if err != nil {
		return 0
	}
	return c
}

func (m *matcher) matchCondition(fv reflect.Value, c repository.Condition) (bool, error) {
	switch c.Op {
	case repository.Eq:
		return equalValues(fv, c.Value), nil
	case repository.NotEq:
		return !equalValues(fv, c.Value), nil
	case repository.Gt, repository.Gte, repository.Lt, repository.Lte:
		cmp, err := compareValues(fv, c.Value)
		if err != nil {
			return false, err
		}
		switch c.Op {
		case repository.Gt:
			return cmp > 0, nil
		case repository.Gte:
			return cmp >= 0, nil
		case repository.Lt:
			return cmp < 0, nil
		default:
			return cmp <= 0, nil
		}
	case repository.In, repository.NotIn:
		values, err := valuesOf(c.Value)
		if err != nil {
			return false, err
		}
		found := false
		for _, v := range values {
			if equalValues(fv, v) {
				found = true
				break
			}
		}
		if c.Op == repository.In {
			return found, nil
		}
		return !found, nil
	case repository.Like:
		pattern, ok := c.Value.(string)
		if !ok {
			return false, fmt.Errorf("LIKE requires a string pattern, got %T", c.Value)
		}
		text, ok := stringOf(fv)
		if !ok {
			return false, nil
		}
		return m.likePattern(pattern).MatchString(text), nil
	case repository.IsNull:
		return isNull(fv), nil
	case repository.IsNotNull:
		return !isNull(fv), nil
	default:
		return false, fmt.Errorf("unsupported criteria operator: %q", c.Op)
	}
}

// valuesOf converts a slice of any element type into []any. In/NotIn accept
// []string, []int64 and friends, not just []any.
func valuesOf(value any) ([]any, error) {
	if value == nil {
		return nil, fmt.Errorf("IN/NOT IN requires a slice, got nil")
	}
	if values, ok := value.([]any); ok {
		return values, nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("IN/NOT IN requires a slice, got %T", value)
	}
	values := make([]any, rv.Len())
	for i := range values {
		values[i] = rv.Index(i).Interface()
	}
	return values, nil
}

// equalValues compares a field against a criteria value, normalizing
// numeric widths so Eq("id", 1) matches an int64 column.
func equalValues(fv reflect.Value, value any) bool {
	if !fv.IsValid() {
		return false
	}
	if cmp, err := compareValues(fv, value); err == nil {
		return cmp == 0
	}
	return reflect.DeepEqual(fv.Interface(), value)
}

// compareValues orders the field value against the criteria value. Numbers
// compare as float64, strings lexicographically, times chronologically.
func compareValues(fv reflect.Value, value any) (int, error) {
	fv = deref(fv)
	if !fv.IsValid() {
		return 0, fmt.Errorf("cannot compare nil field")
	}

	if ft, ok := fv.Interface().(time.Time); ok {
		vt, ok := asTime(value)
		if !ok {
			return 0, fmt.Errorf("cannot compare time against %T", value)
		}
		switch {
		case ft.Before(vt):
			return -1, nil
		case ft.After(vt):
			return 1, nil
		default:
			return 0, nil
		}
	}

	if fn, ok := asFloat(fv.Interface()); ok {
		vn, ok := asFloat(value)
		if !ok {
			return 0, fmt.Errorf("cannot compare number against %T", value)
		}
		switch {
		case fn < vn:
			return -1, nil
		case fn > vn:
			return 1, nil
		default:
			return 0, nil
		}
	}

	if fs, ok := stringOf(fv); ok {
		vs, ok := value.(string)
		if !ok {
			return 0, fmt.Errorf("cannot compare string against %T", value)
		}
		return strings.Compare(fs, vs), nil
	}

	if fb, ok := fv.Interface().(bool); ok {
		vb, ok := value.(bool)
		if !ok {
			return 0, fmt.Errorf("cannot compare bool against %T", value)
		}
		if fb == vb {
			return 0, nil
		}
		if !fb {
			return -1, nil
		}
		return 1, nil
	}

	return 0, fmt.Errorf("unsupported comparison for %s", fv.Type())
}

func deref(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func asTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	default:
		return time.Time{}, false
	}
}

func stringOf(v reflect.Value) (string, bool) {
	v = deref(v)
	if v.IsValid() && v.Kind() == reflect.String {
		return v.String(), true
	}
	return "", false
}

func isNull(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

// likePattern returns the compiled regexp for a LIKE pattern, compiling it
// at most once per matcher.
func (m *matcher) likePattern(pattern string) *regexp.Regexp {
	re, _ := m.likePatterns.LoadOrCompute(pattern, func() *regexp.Regexp {
		return compileLike(pattern)
	})
	return re
}

// compileLike translates a SQL LIKE pattern into a regular expression:
// % matches any run of characters, _ matches exactly one. Matching is
// case-insensitive, mirroring the SQLite default for ASCII.
func compileLike(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("(?is)^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}
