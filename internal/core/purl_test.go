package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maven-central-publish/internal/types"
)

func TestParsePurls(t *testing.T) {
	packages, problems := ParsePurls([]string{
		"pkg:maven/com.example/lib-b@1.0.0",
		"  ",
		"not a purl",
		"pkg:maven/com.example/lib-a@1.0.0?type=jar",
	})
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0].Error(), "invalid package url: not a purl")

	want := []types.PublishedPackage{
		{Purl: "pkg:maven/com.example/lib-a@1.0.0?type=jar", Type: "maven", Namespace: "com.example", Name: "lib-a", Version: "1.0.0"},
		{Purl: "pkg:maven/com.example/lib-b@1.0.0", Type: "maven", Namespace: "com.example", Name: "lib-b", Version: "1.0.0"},
	}
	if diff := cmp.Diff(want, packages); diff != "" {
		t.Fatalf("unexpected packages (-want +got):\n%s", diff)
	}
	assert.Equal(t, "com.example:lib-a:1.0.0", packages[0].Coordinates())
}

func TestParsePurlsEmpty(t *testing.T) {
	packages, problems := ParsePurls(nil)
	assert.Empty(t, packages)
	assert.Empty(t, problems)
}
