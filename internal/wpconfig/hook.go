package wpconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/wpenv/internal/envsource"
)

// Hook adjusts the configuration source after it is loaded and before any
// default is applied. root is the installation base path.
type Hook func(root billy.Filesystem, src *envsource.Source) error

// LocalOverride is the hook that applies wp-config.local.yaml from the base
// path. Every key in the file replaces the value in the source. A missing
// file is ignored.
func LocalOverride(root billy.Filesystem, src *envsource.Source) error {
	data, err := util.ReadFile(root, LocalOverrideFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", LocalOverrideFile, err)
	}

	var values map[string]yaml.Node
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrInvalidOverride, LocalOverrideFile, err)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		node := values[key]
		value, err := scalarString(&node)
		if err != nil {
			return fmt.Errorf("%w: key %s", err, key)
		}
		src.Set(key, value)
	}
	return nil
}

// scalarString returns the literal text of a scalar node so values such as
// 0123 or 1e3 keep their exact spelling.
func scalarString(node *yaml.Node) (string, error) {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.ScalarNode {
		return "", ErrInvalidOverride
	}
	if node.Tag == "!!null" {
		return "", nil
	}
	return node.Value, nil
}
