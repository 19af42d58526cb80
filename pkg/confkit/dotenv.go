package confkit

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// LoadDotenvOnce loads environment variables from a .env file before the
// first environment read. The first call wins; later calls are no-ops.
// Existing environment variables are left untouched unless
// DOTENV_OVERLOAD=1 is set, and the whole mechanism is disabled with
// NO_DOTENV=1. ENV_FILE points at an explicit file; otherwise the search
// walks from the working directory up to the nearest go.mod or .git.
func LoadDotenvOnce() {
	dotenvOnce.Do(loadDotenv)
}

func loadDotenv() {
	if os.Getenv("NO_DOTENV") == "1" {
		return
	}

	overload := os.Getenv("DOTENV_OVERLOAD") == "1"
	load := func(path string) {
		if overload {
			_ = godotenv.Overload(path)
		} else {
			_ = godotenv.Load(path)
		}
	}

	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		load(envFile)
		return
	}

	dir, err := os.Getwd()
	if err != nil {
		load(".env")
		return
	}
	for i := 0; i < 8; i++ {
		load(filepath.Join(dir, ".env"))
		if FileExists(filepath.Join(dir, "go.mod")) || FileExists(filepath.Join(dir, ".git")) {
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
