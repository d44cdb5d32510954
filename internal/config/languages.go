package config

import (
	"fmt"

	"github.com/dshills/codefit/internal/lang"
)

// ApplyLanguages merges the configured language specs into the registry,
// replacing built-ins of the same name. Call before the registry is
// shared; the registry is immutable afterwards.
func (c Config) ApplyLanguages(reg *lang.Registry) error {
	for i, lc := range c.Languages {
		class, err := lang.ParseClass(lc.Class)
		if err != nil {
			return fmt.Errorf("config: languages[%d]: %w", i, err)
		}
		spec := lang.Spec{
			Name:         lc.Name,
			Class:        class,
			Marker:       lc.Marker,
			ColonAligned: lc.ColonAligned,
			Rules:        make([]lang.Rule, 0, len(lc.Rules)),
		}
		for _, rc := range lc.Rules {
			spec.Rules = append(spec.Rules, lang.Rule{
				Pattern:   rc.Pattern,
				Before:    rc.Before,
				Separator: rc.Separator,
			})
		}
		if err := reg.Register(spec, lc.Aliases...); err != nil {
			return fmt.Errorf("config: languages[%d] (%s): %w", i, lc.Name, err)
		}
	}
	return nil
}
