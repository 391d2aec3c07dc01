package tag

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Tag is a typed log field.
type Tag struct {
	field zap.Field
}

// Field returns the underlying zap field.
func (t Tag) Field() zap.Field {
	return t.field
}

func NewStringTag(key string, value string) Tag {
	return Tag{field: zap.String(key, value)}
}

func NewInt64(key string, value int64) Tag {
	return Tag{field: zap.Int64(key, value)}
}

func NewInt(key string, value int) Tag {
	return Tag{field: zap.Int(key, value)}
}

func NewBoolTag(key string, value bool) Tag {
	return Tag{field: zap.Bool(key, value)}
}

func NewErrorTag(value error) Tag {
	// zap already chose "error" as the key
	return Tag{field: zap.Error(value)}
}

func NewDurationTag(key string, value time.Duration) Tag {
	return Tag{field: zap.Duration(key, value)}
}

func NewTimeTag(key string, value time.Time) Tag {
	return Tag{field: zap.Time(key, value)}
}

func NewObjectTag(key string, value interface{}) Tag {
	return Tag{field: zap.String(key, fmt.Sprintf("%v", value))}
}
