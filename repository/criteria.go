package repository

// Op identifies a comparison operator a condition applies to a column.
type Op string

const (
	Eq        Op = "="
	NotEq     Op = "!="
	Gt        Op = ">"
	Gte       Op = ">="
	Lt        Op = "<"
	Lte       Op = "<="
	In        Op = "IN"
	NotIn     Op = "NOT IN"
	Like      Op = "LIKE"
	IsNull    Op = "IS NULL"
	IsNotNull Op = "IS NOT NULL"
)

// Condition constrains a single column. For In/NotIn the value must be a
// slice; for IsNull/IsNotNull the value is ignored.
type Condition struct {
	Field string
	Op    Op
	Value any
}

// Ordering describes a single sort key.
type Ordering struct {
	Field string
	Desc  bool
}

// Criteria is the accumulated, store-agnostic query constraint. Each backend
// compiles it into its own query mechanism: the SQL backend renders it into
// WHERE/ORDER BY/LIMIT clauses so filtering happens inside the store, and the
// in-memory backend evaluates it against records directly. Conditions are
// combined with AND.
type Criteria struct {
	Conditions []Condition
	Order      []Ordering
	Limit      *int
	Offset     *int
}

// SelectCriteria is a caller-supplied option that narrows a read operation.
// Options compose left to right; see Where, OrderBy, Limit and friends.
type SelectCriteria func(*Criteria)

// Apply folds the provided options into a single Criteria value.
func Apply(criteria ...SelectCriteria) Criteria {
	var c Criteria
	for _, opt := range criteria {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}

// Where adds a condition on the given column.
func Where(field string, op Op, value any) SelectCriteria {
	return func(c *Criteria) {
		c.Conditions = append(c.Conditions, Condition{Field: field, Op: op, Value: value})
	}
}

// WhereEq is shorthand for Where(field, Eq, value), the most common filter.
func WhereEq(field string, value any) SelectCriteria {
	return Where(field, Eq, value)
}

// WhereNull adds an IS NULL condition on the given column.
func WhereNull(field string) SelectCriteria {
	return Where(field, IsNull, nil)
}

// OrderBy sorts results by the given column in ascending order.
func OrderBy(field string) SelectCriteria {
	return func(c *Criteria) {
		c.Order = append(c.Order, Ordering{Field: field})
	}
}

// OrderByDesc sorts results by the given column in descending order.
func OrderByDesc(field string) SelectCriteria {
	return func(c *Criteria) {
		c.Order = append(c.Order, Ordering{Field: field, Desc: true})
	}
}

// Limit caps the number of records a read returns.
func Limit(n int) SelectCriteria {
	return func(c *Criteria) {
		c.Limit = &n
	}
}

// Offset skips the first n records of the result.
func Offset(n int) SelectCriteria {
	return func(c *Criteria) {
		c.Offset = &n
	}
}
