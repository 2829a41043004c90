package docgen

import (
	"errors"

	"github.com/gnana997/uidocgen/pkg/finder"
)

var (
	// ErrNoDefinition is returned when the resolver finds no component in
	// the file.
	ErrNoDefinition = errors.New("no suitable component definition found")

	// ErrMultipleDefinitions is returned by the default resolver when a file
	// exports more than one component.
	ErrMultipleDefinitions = finder.ErrMultipleDefinitions

	// ErrUnsupportedLanguage is returned for files that are not JavaScript,
	// Flow or TypeScript.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)
