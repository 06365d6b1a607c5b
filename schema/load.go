package schema

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// Load reads a vocabulary file (YAML, TOML or JSON, by extension) and
// merges it over the built-in vocabulary. An empty path returns Default().
//
//	departamentos:
//	  - value: La Paz
//	    aliases: [lpz, chukiyawu]
func Load(path string) (Vocabulary, error) {
	if path == "" {
		return Default(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Vocabulary{}, errors.Wrapf(err, "read vocabulary file %s", path)
	}

	var extra Vocabulary
	if err := v.Unmarshal(&extra); err != nil {
		return Vocabulary{}, errors.Wrapf(err, "parse vocabulary file %s", path)
	}
	return Default().Merge(extra), nil
}
