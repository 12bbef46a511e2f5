package model_test

import (
	"testing"
	"time"

	"github.com/engram-dev/engram/pkg/model"
	"github.com/m-mizutani/gt"
)

func TestNewMemory(t *testing.T) {
	before := time.Now().UTC()
	m := model.NewMemory("use tabs for indentation", nil, "")
	after := time.Now().UTC()

	gt.NotEqual(t, m.ID, model.MemoryID(""))
	gt.Equal(t, m.Content, "use tabs for indentation")
	gt.Equal(t, m.Source, model.SourceUser)
	gt.V(t, m.Tags).NotNil()
	gt.A(t, m.Tags).Length(0)
	gt.True(t, !m.CreatedAt.Before(before))
	gt.True(t, !m.CreatedAt.After(after))
}

func TestNewMemoryIDUnique(t *testing.T) {
	seen := map[model.MemoryID]bool{}
	for i := 0; i < 100; i++ {
		id := model.NewMemoryID()
		gt.False(t, seen[id])
		seen[id] = true
	}
}

func TestParseSource(t *testing.T) {
	src, err := model.ParseSource("")
	gt.NoError(t, err)
	gt.Equal(t, src, model.SourceUser)

	src, err = model.ParseSource("auto")
	gt.NoError(t, err)
	gt.Equal(t, src, model.SourceAuto)

	_, err = model.ParseSource("robot")
	gt.Error(t, err)
	gt.True(t, model.IsValidation(err))
}

func TestErrorTags(t *testing.T) {
	err := model.ValidationError("content must not be empty", "content", "")
	gt.True(t, model.IsValidation(err))
	gt.False(t, model.IsNotFound(err))
	gt.False(t, model.IsTransport(err))
}
