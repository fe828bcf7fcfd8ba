package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromptChannels(t *testing.T) {
	t.Parallel()

	const content = "Q1: I enjoy my work."

	t.Run("system carries instructions only", func(t *testing.T) {
		t.Parallel()
		sys := System()
		assert.Contains(t, sys, "individual_question_analysis")
		assert.NotContains(t, sys, content)
	})

	t.Run("user carries document content only", func(t *testing.T) {
		t.Parallel()
		user := User(content)
		assert.Contains(t, user, content)
		assert.NotContains(t, user, "individual_question_analysis")
	})

	t.Run("combined carries both with instructions first", func(t *testing.T) {
		t.Parallel()
		combined := Combined(content)
		assert.Contains(t, combined, content)
		assert.Contains(t, combined, "individual_question_analysis")
		assert.True(t, strings.Index(combined, "individual_question_analysis") < strings.Index(combined, content))
	})
}
