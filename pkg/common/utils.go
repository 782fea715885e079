// Copyright (c) 2025 Arenaworks Inc. All Rights Reserved.
// This is licensed software from Arenaworks Inc, for limitations
// and restrictions contact your company contract manager.

package common

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID generates uuid without hyphens.
func GenerateUUID() string {
	id, _ := uuid.NewRandom()
	return strings.ReplaceAll(id.String(), "-", "")
}

// Contains return true if val exist in list, else return false.
func Contains[T comparable](list []T, val T) bool {
	for _, v := range list {
		if v == val {
			return true
		}
	}
	return false
}

// GetMapValueAs get and cast to a type
func GetMapValueAs[T any](m map[string]interface{}, key string) (t T, ok bool) {
	var v interface{}
	if m == nil {
		return t, false
	}
	if v, ok = m[key]; !ok {
		return t, false
	}
	switch val := v.(type) {
	case T:
		return val, true
	default:
		return t, false
	}
}
