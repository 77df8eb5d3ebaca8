package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirmRequest_DraftLimitInCharacters(t *testing.T) {
	req := ConfirmRequest{Draft: strings.Repeat("é", MaxDraftLength)}
	assert.NoError(t, req.Validate())

	req.Draft += "é"
	assert.Error(t, req.Validate())
}

func TestCreateSessionRequest_Validate(t *testing.T) {
	assert.NoError(t, (&CreateSessionRequest{}).Validate())
	assert.NoError(t, (&CreateSessionRequest{APIKey: "long-enough-key"}).Validate())
	assert.Error(t, (&CreateSessionRequest{APIKey: "short"}).Validate())
}
