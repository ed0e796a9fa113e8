package types

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

type PublishingType string

const (
	PublishingTypeUnspecified PublishingType = ""
	PublishingTypeAutomatic   PublishingType = "AUTOMATIC"
	PublishingTypeUserManaged PublishingType = "USER_MANAGED"
)

// ID is the value sent in the publishingType query parameter.
func (p PublishingType) ID() string {
	return string(p)
}

// Effective returns the type the server applies when none was requested.
func (p PublishingType) Effective() PublishingType {
	if p == PublishingTypeUnspecified {
		return PublishingTypeAutomatic
	}
	return p
}

func ParsePublishingType(value string) (PublishingType, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "":
		return PublishingTypeUnspecified, nil
	case string(PublishingTypeAutomatic):
		return PublishingTypeAutomatic, nil
	case string(PublishingTypeUserManaged), "USER-MANAGED":
		return PublishingTypeUserManaged, nil
	default:
		return PublishingTypeUnspecified, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported publishing type: " + value + " (expected AUTOMATIC or USER_MANAGED)")
	}
}
