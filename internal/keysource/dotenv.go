package keysource

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DotenvSource reads keys from .env files without exporting anything
// into the process environment. Later files override earlier ones so
// .env.local wins over .env, matching the usual dotenv convention.
type DotenvSource struct {
	files []string
}

// NewDotenvSource builds a source over the default files plus any extras
func NewDotenvSource(extraFiles ...string) DotenvSource {
	files := []string{".env", ".env.local"}
	files = append(files, extraFiles...)
	return DotenvSource{files: files}
}

func (DotenvSource) Name() string {
	return "dotenv"
}

func (s DotenvSource) Lookup(_ context.Context, key string) (string, error) {
	value := ""
	found := false

	for _, file := range s.files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		vars, err := godotenv.Read(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		if v, ok := vars[key]; ok && v != "" {
			value = v
			found = true
		}
	}

	if !found {
		return "", ErrNotFound
	}
	return value, nil
}
