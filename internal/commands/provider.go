package commands

import (
	"fmt"

	"github.com/simonhull/firebird-suite/heron/internal/project"
	"github.com/simonhull/firebird-suite/heron/pkg/config"
	"github.com/simonhull/firebird-suite/heron/pkg/logger"
	"github.com/simonhull/firebird-suite/heron/pkg/source"
	"github.com/simonhull/firebird-suite/heron/pkg/source/golang"
	"github.com/simonhull/firebird-suite/heron/pkg/source/kotlin"
)

// newProvider selects the source provider for a language name.
func newProvider(lang string, cfg *config.Config, log logger.Logger) (source.Provider, error) {
	switch lang {
	case project.LanguageGo:
		return golang.New(golang.Options{
			Dir:                cfg.Root,
			Patterns:           cfg.Patterns,
			IncludeTests:       cfg.IncludeTests,
			ImplicitImplements: cfg.ImplicitImplements,
			Logger:             log,
		}), nil
	case project.LanguageKotlin:
		return kotlin.New(kotlin.Options{
			Root:   cfg.Root,
			Logger: log,
		}), nil
	case "":
		return nil, fmt.Errorf("%w: could not detect the project language, pass --lang", source.ErrUnknownLanguage)
	default:
		return nil, fmt.Errorf("%w: %q", source.ErrUnknownLanguage, lang)
	}
}
