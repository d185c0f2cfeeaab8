package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftline/codenav/internal/errs"
)

func TestIssueTokenAndValidate_RoundTripSucceedsOnUnchangedRange(t *testing.T) {
	content := []byte("line1\nline2\nline3\n")
	rangeBytes := content[6:12] // "line2\n"
	tok := IssueToken("a.go", 2, 2, rangeBytes)

	err := Validate(tok, "a.go", 2, 2, rangeBytes)
	assert.NoError(t, err)
}

func TestValidate_PathMismatch(t *testing.T) {
	tok := IssueToken("a.go", 1, 1, []byte("x"))
	err := Validate(tok, "b.go", 1, 1, []byte("x"))
	require.Error(t, err)
	env, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.TokenPathMismatch, env.Code)
}

func TestValidate_RangeMismatch(t *testing.T) {
	tok := IssueToken("a.go", 2, 4, []byte("x"))
	err := Validate(tok, "a.go", 1, 4, []byte("x"))
	require.Error(t, err)
	env, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.TokenRangeMismatch, env.Code)
}

func TestValidate_Expired(t *testing.T) {
	tok := IssueToken("a.go", 1, 1, []byte("original"))
	err := Validate(tok, "a.go", 1, 1, []byte("changed"))
	require.Error(t, err)
	env, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.TokenExpired, env.Code)
}

func TestManager_OnRead_DetectsExternalChange(t *testing.T) {
	m := NewManager()

	res := m.OnRead("a.go", []byte("v1"))
	assert.False(t, res.ExternalChange)

	res = m.OnRead("a.go", []byte("v1"))
	assert.False(t, res.ExternalChange)

	res = m.OnRead("a.go", []byte("v2 from elsewhere"))
	assert.True(t, res.ExternalChange)
	assert.Equal(t, []byte("v1"), res.PreviousBytes)
}

func TestManager_OnWrite_RefreshesSnapshotSoNextReadIsNotExternal(t *testing.T) {
	m := NewManager()
	m.OnRead("a.go", []byte("v1"))
	m.OnWrite("a.go", []byte("v2"))

	res := m.OnRead("a.go", []byte("v2"))
	assert.False(t, res.ExternalChange)
}

func TestManager_OnRenameAndOnDelete(t *testing.T) {
	m := NewManager()
	m.OnRead("a.go", []byte("v1"))
	m.OnRename("a.go", "b.go")

	res := m.OnRead("b.go", []byte("v1"))
	assert.False(t, res.ExternalChange)

	m.OnDelete("b.go")
	res = m.OnRead("b.go", []byte("v1"))
	assert.False(t, res.ExternalChange, "deleted snapshot should be treated as a fresh file on next read")
}
