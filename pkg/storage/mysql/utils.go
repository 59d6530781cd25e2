package mysql

import (
	"strings"

	"github.com/ob-labs/neuralmem-go/pkg/storage"
)

// buildWhereClause builds a WHERE clause for agent and type filters.
func buildWhereClause(agentID, memoryType string) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}

	if agentID != "" {
		conditions = append(conditions, "agent_id = ?")
		args = append(args, agentID)
	}

	if memoryType != "" {
		conditions = append(conditions, "memory_type = ?")
		args = append(args, memoryType)
	}

	if len(conditions) == 0 {
		return "", args
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// sortByScore sorts records by score (descending) and limits the number
// of results.
func sortByScore(records []*storage.Record, limit int) []*storage.Record {
	n := len(records)
	for i := 0; i < n-1; i++ {
		for j := 0; j < n-i-1; j++ {
			if records[j].Score < records[j+1].Score {
				records[j], records[j+1] = records[j+1], records[j]
			}
		}
	}

	if limit > 0 && len(records) > limit {
		return records[:limit]
	}

	return records
}
