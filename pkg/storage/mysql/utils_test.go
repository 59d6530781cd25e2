package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ob-labs/neuralmem-go/pkg/storage"
)

func TestBuildWhereClause(t *testing.T) {
	clause, args := buildWhereClause("agent_a", "task")
	assert.Equal(t, "WHERE agent_id = ? AND memory_type = ?", clause)
	assert.Equal(t, []interface{}{"agent_a", "task"}, args)

	clause, args = buildWhereClause("agent_a", "")
	assert.Equal(t, "WHERE agent_id = ?", clause)
	assert.Equal(t, []interface{}{"agent_a"}, args)

	clause, args = buildWhereClause("", "")
	assert.Empty(t, clause)
	assert.Empty(t, args)
}

func TestSortByScore(t *testing.T) {
	records := []*storage.Record{
		{ID: "low", Score: 0.1},
		{ID: "high", Score: 0.9},
		{ID: "mid", Score: 0.5},
	}

	sorted := sortByScore(records, 0)
	assert.Equal(t, "high", sorted[0].ID)
	assert.Equal(t, "mid", sorted[1].ID)
	assert.Equal(t, "low", sorted[2].ID)

	limited := sortByScore(records, 2)
	assert.Len(t, limited, 2)
}
