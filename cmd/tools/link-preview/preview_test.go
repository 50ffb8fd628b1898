package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `{
  "trans_type": 1,
  "trans_no": 42,
  "view_gl_link": "http://erp/gl/view/gl_trans_view.php?type_id=1&trans_no=42",
  "edit_link": "http://erp/gl/gl_bank.php?ModifyPayment=Yes&trans_no=42"
}`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPreview_TextFromStdin(t *testing.T) {
	out, err := execute(t, samplePayload)
	require.NoError(t, err)

	assert.Contains(t, out, "1. [entry] View Entry -> http://erp/gl/view/gl_trans_view.php?type_id=1&trans_no=42 (view_gl_link)")
	assert.Contains(t, out, "2. [edit] Edit Entry")
	assert.Contains(t, out, `<a href="http://erp/gl/view/gl_trans_view.php?type_id=1&amp;trans_no=42"`)
	assert.NotContains(t, out, "Emitted")
}

func TestPreview_JSONWithPolicyAndDerive(t *testing.T) {
	out, err := execute(t, samplePayload,
		"--format", "json",
		"--derive",
		"--base-url", "http://erp",
		"--type-policy", "1:payment,edit",
	)
	require.NoError(t, err)

	var got previewResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	require.Len(t, got.Links, 3)
	assert.Equal(t, "derived_type_view", got.Links[0].Key)
	assert.Equal(t, "http://erp/gl/view/gl_payment_view.php?trans_no=42", got.Links[0].URL)
	assert.Equal(t, "edit_link", got.Links[1].Key)
	assert.Equal(t, "view_gl_link", got.Links[2].Key)
	assert.Contains(t, got.PlainText, "View Payment")
	assert.Empty(t, got.Emitted)
}

func TestPreview_PartnerTypeSelectsContextPolicy(t *testing.T) {
	out, err := execute(t, samplePayload,
		"--format", "json",
		"--partner-type", "SP",
		"--context-policy", "sp:edit",
		"--mode", "notification",
	)
	require.NoError(t, err)

	var got previewResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Links, 2)
	assert.Equal(t, "edit_link", got.Links[0].Key)
	assert.Len(t, got.Emitted, 2)
}

func TestPreview_FileArgument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))

	out, err := execute(t, "", path)
	require.NoError(t, err)
	assert.Equal(t, "No links.\n", out)
}

func TestPreview_Errors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"invalid json", "{", nil},
		{"bad trans type", samplePayload, []string{"--trans-type", "abc"}},
		{"bad policy", samplePayload, []string{"--context-policy", "payment"}},
		{"bad type code", samplePayload, []string{"--type-policy", "x:payment"}},
		{"missing file", "", []string{filepath.Join(os.TempDir(), "does-not-exist.json")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.stdin, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestSplitPolicy(t *testing.T) {
	name, kinds, err := splitPolicy(" supplier : invoice, ,payment ")
	require.NoError(t, err)
	assert.Equal(t, "supplier", name)
	assert.Equal(t, []string{"invoice", "payment"}, kinds)

	_, _, err = splitPolicy(":invoice")
	assert.Error(t, err)
}

func TestRegistryCommands(t *testing.T) {
	out, err := execute(t, "", "registry", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 activities")

	out, err = execute(t, "", "registry", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "resolve-transaction-links")
	assert.Contains(t, out, "classify-transaction-match")

	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"activities": []}`), 0o600))
	_, err = execute(t, "", "registry", "validate", "--path", path)
	assert.Error(t, err)
}
