// ABOUTME: File templates the scaffolder writes into a project
// ABOUTME: The entry Makefile reaches the system through one indirection variable

package scaffold

import (
	"fmt"
	"strings"
)

// entryMakefile is the project's top-level Makefile. The install location
// appears in exactly one place so moving the system means changing one line.
func entryMakefile(installDir string) string {
	return fmt.Sprintf(`# Project entry point. Keep this file thin: project settings belong in
# project.mk, environment overrides in environments/.

MAKEFILE_SYSTEM_DIR := %s

include $(MAKEFILE_SYSTEM_DIR)/Makefile.universal
`, installDir)
}

func projectMK(name, namespace string) string {
	return fmt.Sprintf(`# Project configuration. Loaded by the universal makefile system.

PROJECT_NAME := %s
NAMESPACE := %s

# Container image coordinates.
DOCKER_REPO := $(NAMESPACE)
IMAGE_NAME := $(PROJECT_NAME)

# Environment selected when ENV is not set on the command line.
ENV ?= development
`, name, namespace)
}

const developmentMK = `# Development environment overrides.

DEBUG := true
COMPOSE_FILE := docker-compose.dev.yml
`

const productionMK = `# Production environment overrides.

DEBUG := false
`

func composeSample(name string) string {
	return fmt.Sprintf(`services:
  %s:
    build: .
    volumes:
      - .:/work
    environment:
      - ENV=development
`, name)
}

// gitignoreBlock lists the files the system manages that do not belong in
// version control. The version pin is deliberately not ignored. Copy-mode
// installs live at the root, so there is no install directory line.
func gitignoreBlock(installDir string) string {
	var b strings.Builder
	b.WriteString(gitignoreBegin + "\n")
	if installDir != "" && installDir != "." {
		b.WriteString(installDir + "/\n")
	}
	b.WriteString(".makefile-release\n")
	b.WriteString("*.bak.*\n")
	b.WriteString(gitignoreEnd + "\n")
	return b.String()
}
