package postgres

import (
	"fmt"
	"strconv"
	"strings"
)

// vectorToString converts a float32 slice to a pgvector literal.
// Example: [0.1, 0.2, 0.3] -> "[0.1,0.2,0.3]"
func vectorToString(vector []float32) string {
	if len(vector) == 0 {
		return "[]"
	}

	parts := make([]string, len(vector))
	for i, v := range vector {
		parts[i] = strconv.FormatFloat(float64(v), 'f', -1, 32)
	}

	return "[" + strings.Join(parts, ",") + "]"
}

// stringToVector converts a pgvector literal to a float32 slice.
func stringToVector(s string) ([]float32, error) {
	s = strings.Trim(s, "[]")
	if s == "" {
		return []float32{}, nil
	}

	parts := strings.Split(s, ",")
	result := make([]float32, len(parts))

	for i, part := range parts {
		val, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, err
		}
		result[i] = float32(val)
	}

	return result, nil
}

// buildWhereClauseWithOffset builds a WHERE clause starting from a
// specific parameter index.
func buildWhereClauseWithOffset(agentID, memoryType string, startIndex int) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := startIndex

	if agentID != "" {
		conditions = append(conditions, fmt.Sprintf("agent_id = $%d", argIndex))
		args = append(args, agentID)
		argIndex++
	}

	if memoryType != "" {
		conditions = append(conditions, fmt.Sprintf("memory_type = $%d", argIndex))
		args = append(args, memoryType)
	}

	if len(conditions) == 0 {
		return "", args
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}
