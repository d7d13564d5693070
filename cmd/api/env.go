package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// loadDotEnv loads each of files that exists. Earlier files win over later
// ones and the process environment wins over all of them.
func loadDotEnv(files ...string) error {
	for _, f := range files {
		err := godotenv.Load(f)
		if err == nil || errors.Is(err, os.ErrNotExist) {
			continue
		}
		return fmt.Errorf("load %s: %w", f, err)
	}
	return nil
}
