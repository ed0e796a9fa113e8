package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestOutputReaderAdapterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writer := NewOutputFileAdapter()
	reader := NewOutputReaderAdapter()

	for _, name := range []string{"deployment.json", "deployment.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, writer.WriteReport(path, "", sampleReport()))

		got, err := reader.ReadReport(path)
		require.NoError(t, err)
		if diff := cmp.Diff(sampleReport(), got); diff != "" {
			t.Fatalf("unexpected report from %s (-want +got):\n%s", name, diff)
		}
	}
}

func TestOutputReaderAdapterMissingFile(t *testing.T) {
	_, err := NewOutputReaderAdapter().ReadReport(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestOutputReaderAdapterInvalidContent(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "broken json", file: "a.json", content: "{"},
		{name: "missing id", file: "b.json", content: `{"result":"SUCCEEDED"}`},
		{name: "missing id yaml", file: "c.yaml", content: "result: SUCCEEDED\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			_, err := NewOutputReaderAdapter().ReadReport(path)
			require.Error(t, err)
			require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
		})
	}
}
