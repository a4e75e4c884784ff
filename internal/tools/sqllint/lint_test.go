package main

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLintFileReportsMissingAndDuplicateMarkers(t *testing.T) {
	src := "package q\n\n" +
		"const QOk = `--sql 95cc8f02-c714-4c20-a07e-26640f921587\nselect 1;`\n" +
		"const QDup = `--sql 95cc8f02-c714-4c20-a07e-26640f921587\nselect 2;`\n" +
		"const QBare = \"insert into t values (1)\"\n" +
		"const Label = \"just text\"\n"

	var l linter
	require.NoError(t, l.lintFile("q.go", src))

	got := l.result()
	require.Len(t, got, 2)
	assert.Equal(t, "QDup", got[0].name)
	assert.Contains(t, got[0].message, "already used by QOk")
	assert.Equal(t, "QBare", got[1].name)
	assert.Equal(t, 5, got[1].line)
}

func TestGuardQueriesCarryMarkers(t *testing.T) {
	_, self, _, ok := runtime.Caller(0)
	require.True(t, ok)
	dir := filepath.Join(filepath.Dir(self), "..", "..", "sqlinline")

	var l linter
	require.NoError(t, l.lintPath(dir))
	assert.Empty(t, l.result())
}
