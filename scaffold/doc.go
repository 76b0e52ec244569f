// Package scaffold creates a Next.js project with Prisma and shadcn by running bun.
// Each stage is a [Step] of a [Pipeline]; the first failing step ends the run and later steps never start.
// External tools are reached through a [Runner], so the whole run can be traced, printed or faked.
package scaffold
