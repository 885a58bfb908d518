package repository

import (
	"time"

	"github.com/doug-martin/goqu/v9"
)

type QueryBuilder interface {
	HasConditions() bool
	BuildConditions(aliases map[string]string) []goqu.Expression
}

type queryBuilderImpl struct {
	conditions map[string]interface{}
	ranges     map[string][2]*time.Time
}

func NewQueryBuilder() *queryBuilderImpl {
	return &queryBuilderImpl{
		conditions: make(map[string]interface{}),
		ranges:     make(map[string][2]*time.Time),
	}
}

func (q *queryBuilderImpl) AddCondition(key string, value interface{}) {
	q.conditions[key] = value
}

// AddDateRange registers an inclusive [from, to] filter; either bound may be nil.
func (q *queryBuilderImpl) AddDateRange(key string, from, to *time.Time) {
	if from == nil && to == nil {
		return
	}
	q.ranges[key] = [2]*time.Time{from, to}
}

func (q *queryBuilderImpl) HasConditions() bool {
	return len(q.conditions) > 0 || len(q.ranges) > 0
}

func (q *queryBuilderImpl) BuildConditions(aliases map[string]string) []goqu.Expression {
	var expressions []goqu.Expression

	resolve := func(key string) string {
		if alias, ok := aliases[key]; ok {
			return alias
		}
		return key
	}

	for key, value := range q.conditions {
		expressions = append(expressions, goqu.Ex{resolve(key): value})
	}

	for key, bounds := range q.ranges {
		column := resolve(key)
		if bounds[0] != nil {
			expressions = append(expressions, goqu.I(column).Gte(*bounds[0]))
		}
		if bounds[1] != nil {
			expressions = append(expressions, goqu.I(column).Lte(*bounds[1]))
		}
	}

	return expressions
}
