// Package validator classifies raw items: well-formed ones move on, the rest
// are counted and dropped. Validation never errors.
package validator

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"data-pipeline/internal/pipeline/model"
)

// Validator checks the four required fields. Rejections are not errors, so
// they log at debug only.
type Validator struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Validator {
	return &Validator{log: log}
}

// Validate classifies one raw item. ok is false when any required field is
// missing, mistyped, or an empty string.
func (v *Validator) Validate(item model.RawItem) (model.ValidatedItem, bool) {
	userID, ok := intField(item, "user_id")
	if !ok {
		v.reject("user_id")
		return model.ValidatedItem{}, false
	}
	postID, ok := intField(item, "id")
	if !ok {
		v.reject("id")
		return model.ValidatedItem{}, false
	}
	title, ok := stringField(item, "title")
	if !ok {
		v.reject("title")
		return model.ValidatedItem{}, false
	}
	body, ok := stringField(item, "body")
	if !ok {
		v.reject("body")
		return model.ValidatedItem{}, false
	}

	return model.ValidatedItem{
		UserID: userID,
		PostID: postID,
		Title:  title,
		Body:   body,
	}, true
}

func (v *Validator) reject(field string) {
	v.log.Debug("Rejecting item", zap.String("field", field))
}

// intField accepts only integer-valued numbers. Raw items decoded with
// json.Number keep 1 and 1.5 distinguishable; float64 is handled for items
// built without it.
func intField(item model.RawItem, key string) (int64, bool) {
	val, exists := item[key]
	if !exists {
		return 0, false
	}
	switch n := val.(type) {
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

func stringField(item model.RawItem, key string) (string, bool) {
	val, exists := item[key]
	if !exists {
		return "", false
	}
	s, ok := val.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
