package envsource

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"github.com/go-git/go-billy/v5"
	"github.com/joho/godotenv"
)

// DefaultDotenvFile is read when Load is called without explicit file names.
const DefaultDotenvFile = ".env"

var (
	// ErrMalformedDotenv is returned when a dotenv file cannot be parsed.
	ErrMalformedDotenv = errors.New("malformed dotenv file")
)

// Load seeds a Source from environ and then merges the given dotenv files,
// resolved relative to the filesystem root. A key is never overwritten once
// present, so the environment wins over files and earlier files win over
// later ones. Missing files are skipped.
func Load(root billy.Filesystem, environ []string, filenames ...string) (*Source, error) {
	if len(filenames) == 0 {
		filenames = []string{DefaultDotenvFile}
	}

	src := FromEnviron(environ)
	for _, name := range filenames {
		values, err := readDotenv(root, name)
		if err != nil {
			return nil, err
		}
		for _, key := range sortedKeys(values) {
			src.add(key, values[key], OriginDotenv)
		}
	}
	return src, nil
}

func readDotenv(root billy.Filesystem, name string) (map[string]string, error) {
	f, err := root.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	values, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrMalformedDotenv, name, err)
	}
	return values, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
