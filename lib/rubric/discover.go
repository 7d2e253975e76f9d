package rubric

import (
	"path/filepath"
	"sort"
)

// Discover lists the rubric files in a directory, following the
// `<measure>_scoring_rubric.csv` naming convention.
func Discover(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*_scoring_rubric.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// Load discovers and parses every rubric file in a directory.
func Load(dir string) ([]Rubric, error) {
	paths, err := Discover(dir)
	if err != nil {
		return nil, err
	}
	var out []Rubric
	for _, path := range paths {
		rubrics, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		out = append(out, rubrics...)
	}
	return out, nil
}
