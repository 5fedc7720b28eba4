package memory

import "github.com/google/uuid"

func newID() string {
	return uuid.New().String()
}

func inDepartments(dept *string, ids []string) bool {
	if ids == nil {
		return true
	}
	if dept == nil {
		return false
	}
	for _, id := range ids {
		if id == *dept {
			return true
		}
	}
	return false
}
