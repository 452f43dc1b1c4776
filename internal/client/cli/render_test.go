package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/lulu/internal/client/models"
)

func TestRenderer_Turns(t *testing.T) {
	var out bytes.Buffer
	r := newRenderer(&out, false)

	r.transcript([]models.Turn{
		{Role: models.RoleUser, Text: "hi"},
		{Role: models.RoleAssistant, Text: "line one\nline two"},
		{Role: models.RoleSystemError, Text: "Failed to get response. Please try again."},
	})

	assert.Equal(t,
		"you: hi\n"+
			"lulu: line one\n"+
			"      line two\n"+
			"error: Failed to get response. Please try again.\n",
		out.String())
}

func TestRenderer_EmptyTranscript(t *testing.T) {
	var out bytes.Buffer
	newRenderer(&out, false).transcript(nil)
	assert.Equal(t, "No messages yet.\n", out.String())
}

func TestRenderer_NoticesWithoutColor(t *testing.T) {
	var out bytes.Buffer
	r := newRenderer(&out, false)
	r.info("Signed in as %s.", "al")
	r.errorf("%s", "Authentication failed")
	assert.Equal(t, "Signed in as al.\nAuthentication failed\n", out.String())
}
