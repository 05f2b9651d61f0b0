package cli

import (
	"fmt"
	"os"

	"github.com/javanhut/ugit/internal/repo"
)

// openRepo opens the ugit repository rooted at the current working
// directory, failing with a clear message if none exists.
func openRepo() (*repo.Repository, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	r, err := repo.Open(workDir)
	if err != nil {
		return nil, fmt.Errorf("not a ugit repository (or %s is missing): %w", repo.DirName, err)
	}
	return r, nil
}
