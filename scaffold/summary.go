package scaffold

import (
	"context"
	"os"
	"path/filepath"

	"github.com/kxue43/next-fast/jsonstream"
	"github.com/kxue43/next-fast/terminal"
)

// NextVersion returns the "next" dependency recorded in the project's package.json.
func NextVersion(ctx context.Context, projectDir string) (string, error) {
	fd, err := os.Open(filepath.Clean(filepath.Join(projectDir, "package.json")))
	if err != nil {
		return "", err
	}

	defer func() { _ = fd.Close() }()

	return jsonstream.LandString(ctx, fd, ".dependencies.next")
}

// PrintSummary prints the completion banner. nextVersion may be empty.
func PrintSummary(c *terminal.Console, projectName, nextVersion string) {
	if nextVersion != "" {
		c.Banner("🎉 Project created successfully with Next.js " + nextVersion + "!")
	} else {
		c.Banner("🎉 Project created successfully!")
	}

	c.Section("Next steps:")
	c.Numbered(1, "cd "+projectName)
	c.Numbered(2, "bunx prisma db push")
	c.Numbered(3, "bun dev")

	c.Section("Prisma commands:")
	c.Bullet("Push schema to database", "bunx prisma db push")
	c.Bullet("Open Prisma Studio", "bunx prisma studio")
	c.Bullet("Generate client", "bunx prisma generate")
	c.Bullet("Create migration", "bunx prisma migrate dev")

	c.SignOff("Happy coding! 🚀")
}
