// SPDX-License-Identifier: Apache-2.0

package nuget

import (
	"strings"
)

type command string

const (
	dotnetCmd = "dotnet"

	projectPlaceholder   = "{PROJECT}"
	frameworkPlaceholder = "{FRAMEWORK}"
)

var (
	VersionCmd        command = "dotnet --version"
	ListFrameworksCmd command = "dotnet list {PROJECT} package"
	ListPackagesCmd   command = "dotnet list {PROJECT} package --framework {FRAMEWORK} --include-transitive"
	GlobalPackagesCmd command = "dotnet nuget locals global-packages -l"
)

// Parse ...
func (c command) Parse() []string {
	cmd := strings.TrimSpace(string(c))
	return strings.Fields(cmd)
}

// Args substitutes placeholders after splitting so values may contain spaces
func (c command) Args(project, framework string) []string {
	args := c.Parse()
	for i, arg := range args {
		switch arg {
		case projectPlaceholder:
			args[i] = project
		case frameworkPlaceholder:
			args[i] = framework
		}
	}
	return args
}
