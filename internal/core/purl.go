package core

import (
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/package-url/packageurl-go"

	"maven-central-publish/internal/types"
)

// ParsePurls decodes the package URLs reported for a deployment, sorted by
// coordinates. Invalid entries are returned separately instead of failing
// the whole list.
func ParsePurls(purls []string) ([]types.PublishedPackage, []error) {
	packages := make([]types.PublishedPackage, 0, len(purls))
	var problems []error
	for _, raw := range purls {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		parsed, err := packageurl.FromString(trimmed)
		if err != nil {
			problems = append(problems, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid package url: "+trimmed).
				WithCause(err))
			continue
		}
		packages = append(packages, types.PublishedPackage{
			Purl:      trimmed,
			Type:      parsed.Type,
			Namespace: parsed.Namespace,
			Name:      parsed.Name,
			Version:   parsed.Version,
		})
	}
	sort.Slice(packages, func(i, j int) bool {
		return packages[i].Coordinates() < packages[j].Coordinates()
	})
	return packages, problems
}
