package repositorybun

import (
	"fmt"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-repository-store/repository"
)

// applySelect compiles the full criteria, conditions plus ordering and
// paging, into the select query.
func applySelect(q *bun.SelectQuery, crit repository.Criteria) (*bun.SelectQuery, error) {
	q, err := applyConditions(q, crit)
	if err != nil {
		return nil, err
	}

	for _, o := range crit.Order {
		if o.Desc {
			q = q.OrderExpr("? DESC", bun.Ident(o.Field))
		} else {
			q = q.OrderExpr("? ASC", bun.Ident(o.Field))
		}
	}
	if crit.Limit != nil {
		q = q.Limit(*crit.Limit)
	}
	if crit.Offset != nil {
		q = q.Offset(*crit.Offset)
	}
	return q, nil
}

// applyConditions compiles only the WHERE conditions. Count and Exists use
// this directly since ordering and paging have no effect on them.
func applyConditions(q *bun.SelectQuery, crit repository.Criteria) (*bun.SelectQuery, error) {
	for _, c := range crit.Conditions {
		switch c.Op {
		case repository.Eq, repository.NotEq,
			repository.Gt, repository.Gte,
			repository.Lt, repository.Lte:
			q = q.Where(fmt.Sprintf("? %s ?", c.Op), bun.Ident(c.Field), c.Value)
		case repository.Like:
			q = q.Where("? LIKE ?", bun.Ident(c.Field), c.Value)
		case repository.In:
			q = q.Where("? IN (?)", bun.Ident(c.Field), bun.In(c.Value))
		case repository.NotIn:
			q = q.Where("? NOT IN (?)", bun.Ident(c.Field), bun.In(c.Value))
		case repository.IsNull:
			q = q.Where("? IS NULL", bun.Ident(c.Field))
		case repository.IsNotNull:
			q = q.Where("? IS NOT NULL", bun.Ident(c.Field))
		default:
			return nil, fmt.Errorf("unsupported criteria operator: %q", c.Op)
		}
	}
	return q, nil
}
