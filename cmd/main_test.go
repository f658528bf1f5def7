// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irmas-audit/internal/jsonfile"
)

const (
	antivirusFixture = `{
  "10.173.105.3": {"count": 1, "detail": {"value": "10.173.105.3", "items": [
    {"使用者": "陳大文", "電腦名稱": "PC-OK", "IP位址": "10.1.1.1"}
  ]}},
  "10.173.105.5": {"count": 1, "detail": {"value": "10.173.105.5", "items": [
    {"使用者": "A", "電腦名稱": "PC1", "IP位址": "10.173.105.5"}
  ]}}
}`
	bannedFixture   = `[{"value": "BitTorrent", "items": [{"使用者": "A", "電腦名稱": "PC1", "IP位址": "10.173.105.5"}]}]`
	outdatedFixture = `[]`
	contactsFixture = `[{"full_name": "陳大文", "email": "dawen@example.com"}]`
)

// setupWorkspace writes the inputs and a config file into a fresh directory
// and makes it the working directory.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("IRMAS_CONFIG_DIR", filepath.Join(dir, "no-config"))
	t.Setenv("OneDriveCommercial", filepath.Join(dir, "onedrive"))
	t.Setenv("OneDrive", "")

	files := map[string]string{
		"input/antivirus_detail_report.json":          antivirusFixture,
		"input/banned_softwares_detail_report.json":   bannedFixture,
		"input/outdated_softwares_detail_report.json": outdatedFixture,
		"input/address_book.json":                     contactsFixture,
		"irmas.yaml": `inputs:
  base_dir: input
output:
  dir: out
  page_size: 1
logger:
  level: error
`,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), append([]string{"--no-color"}, args...), &stdout, &stderr)
	return stdout.String() + stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "irmas-audit "))
}

func TestMergeCommand(t *testing.T) {
	dir := setupWorkspace(t)

	out, err := execute(t, "merge")
	require.NoError(t, err)
	assert.Contains(t, out, "IRMAS merge summary")
	assert.Contains(t, out, "Dispatch: dispatch disabled")

	for _, name := range []string{"irmas_page_1.json", "irmas_page_2.json", "irmas_messages.json", "missing_contacts.json"} {
		assert.FileExists(t, filepath.Join(dir, "out", name))
	}
	assert.FileExists(t, filepath.Join(dir, "input", "irmas_report_searchable.html"))

	var missing []string
	data, err := os.ReadFile(filepath.Join(dir, "out", "missing_contacts.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &missing))
	assert.Equal(t, []string{"A"}, missing)
}

func TestMergeCommandDispatchFromEnvironment(t *testing.T) {
	dir := setupWorkspace(t)
	t.Setenv("IRMAS_ONEDRIVE_DISPATCH", "1")

	out, err := execute(t, "merge")
	require.NoError(t, err)
	assert.Contains(t, out, "copied")
	assert.FileExists(t, filepath.Join(dir, "onedrive", "IrmasAutomate", "irmas_messages.json"))
	assert.FileExists(t, filepath.Join(dir, "onedrive", "IrmasAutomate", "missing_contacts.json"))
	assert.FileExists(t, filepath.Join(dir, "onedrive", "IrmasAutomate", "irmas_report_searchable.html"))
}

func TestMergeCommandInvalidPageSize(t *testing.T) {
	setupWorkspace(t)
	_, err := execute(t, "merge", "--page-size", "-1")
	require.Error(t, err)
}

func TestMergeCommandMissingInput(t *testing.T) {
	dir := setupWorkspace(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "input", "banned_softwares_detail_report.json")))

	_, err := execute(t, "merge")
	assert.ErrorIs(t, err, jsonfile.ErrMissingInput)
}

func TestReportCommand(t *testing.T) {
	dir := setupWorkspace(t)

	out, err := execute(t, "report", "--format", "csv", "--only-issues")
	require.NoError(t, err)
	assert.Contains(t, out, "A,bannedSoftwares,BANNED,PC1,10.173.105.5,BitTorrent,")
	assert.NotContains(t, out, "陳大文")

	target := filepath.Join(dir, "reports", "people.json")
	_, err = execute(t, "report", "-f", "json", "-o", target)
	require.NoError(t, err)
	assert.FileExists(t, target)

	_, err = execute(t, "report", "--format", "pdf")
	assert.ErrorContains(t, err, "unsupported format")
}

func TestContactsImportCommand(t *testing.T) {
	dir := setupWorkspace(t)
	csvPath := filepath.Join(dir, "export.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("姓名,電子郵件地址\nA ,a@example.com\n"), 0o644))

	out, err := execute(t, "contacts", "import", "--encoding", "utf-8", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "1 contacts written to")

	_, err = execute(t, "merge")
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "out", "missing_contacts.json"))
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"陳大文\"\n]\n", string(data))
}

func TestMergeCommandNoReportSkipsReportDispatch(t *testing.T) {
	dir := setupWorkspace(t)

	_, err := execute(t, "merge")
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "input", "irmas_report_searchable.html"))

	t.Setenv("IRMAS_ONEDRIVE_DISPATCH", "1")
	_, err = execute(t, "merge", "--no-report")
	require.NoError(t, err)

	dest := filepath.Join(dir, "onedrive", "IrmasAutomate")
	assert.FileExists(t, filepath.Join(dest, "irmas_messages.json"))
	assert.FileExists(t, filepath.Join(dest, "missing_contacts.json"))
	assert.NoFileExists(t, filepath.Join(dest, "irmas_report_searchable.html"))
}

func TestOutdatedCommand(t *testing.T) {
	dir := setupWorkspace(t)
	policy := filepath.Join(dir, "policy", "software_policy.json")
	inventory := filepath.Join(dir, "inventory")
	require.NoError(t, os.MkdirAll(filepath.Dir(policy), 0o755))
	require.NoError(t, os.MkdirAll(inventory, 0o755))
	require.NoError(t, os.WriteFile(policy, []byte(`{
  "7-Zip": {"match_type": "version_threshold", "match_patterns": [], "min_required_version": "23.01"}
}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(inventory, "7zip.json"), []byte(`{
  "7-Zip 19.00 (x64)": {"19.00": [{"IP位址": "10.2.2.2", "使用者中文姓名": "王五", "使用者部門三": "IT"}]}
}`), 0o644))

	out, err := execute(t, "outdated", "--policy", policy, "--inventory", inventory)
	require.NoError(t, err)
	assert.Contains(t, out, "1 outdated installs written to")

	var rows []map[string]any
	data, err := os.ReadFile(filepath.Join(dir, "input", "outdated_softwares_detail_report.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "王五", rows[0]["Name"])
	assert.Equal(t, "7zip.json", rows[0]["SourceFile"])

	// the merge picks the new person up
	_, err = execute(t, "merge")
	require.NoError(t, err)
	data, err = os.ReadFile(filepath.Join(dir, "out", "missing_contacts.json"))
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"A\",\n  \"王五\"\n]\n", string(data))
}

func TestDispatchCommand(t *testing.T) {
	dir := setupWorkspace(t)
	_, err := execute(t, "merge")
	require.NoError(t, err)

	out, err := execute(t, "dispatch")
	require.NoError(t, err)
	assert.Contains(t, out, "Dispatch: dispatch disabled")

	out, err = execute(t, "dispatch", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "copied")
	dest := filepath.Join(dir, "onedrive", "IrmasAutomate")
	for _, name := range []string{"irmas_messages.json", "missing_contacts.json", "irmas_report_searchable.html"} {
		assert.FileExists(t, filepath.Join(dest, name))
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestServeCommand(t *testing.T) {
	setupWorkspace(t)
	addr := freeAddr(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		var stdout, stderr bytes.Buffer
		done <- run(ctx, []string{"--no-color", "serve", "--addr", addr}, &stdout, &stderr)
	}()

	url := fmt.Sprintf("http://%s/api/missing-contacts", addr)
	var body []string
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK && json.NewDecoder(resp.Body).Decode(&body) == nil
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, []string{"A"}, body)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after cancellation")
	}
}
