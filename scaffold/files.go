package scaffold

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type WriteHook func(io.Writer) error

// SchemaPath is where the schema lives, relative to the project directory.
const SchemaPath = "prisma/schema.prisma"

//go:embed "data/schema.prisma"
var schemaPrisma []byte

// Schema returns a copy of the schema written into every new project.
func Schema() []byte {
	out := make([]byte, len(schemaPrisma))
	copy(out, schemaPrisma)

	return out
}

func WriteToFile(dir, name string, hook WriteHook) (err error) {
	fd, err := os.Create(filepath.Clean(filepath.Join(dir, name)))
	if err != nil {
		return fmt.Errorf("failed to create %q file: %w", name, err)
	}

	defer func() {
		if err1 := fd.Close(); err1 != nil && err == nil {
			err = fmt.Errorf("failed to close %q after writing: %w", name, err1)
		}
	}()

	err = hook(fd)
	if err != nil {
		return fmt.Errorf("failed to write to %q: %w", name, err)
	}

	return nil
}

// WriteSchema overwrites the schema file under projectDir.
// The prisma directory must already exist; "prisma init" creates it.
func WriteSchema(projectDir string) error {
	return WriteToFile(projectDir, SchemaPath, func(fd io.Writer) error {
		_, err := fd.Write(schemaPrisma)

		return err
	})
}
