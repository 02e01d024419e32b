// SPDX-License-Identifier: Apache-2.0

package nuget

import (
	"errors"
)

type errType error

// ErrListingTooShort is returned when `dotnet list package` printed no more than its header
var ErrListingTooShort errType = errors.New("dependency listing is too short to contain any package")

var errDependenciesNotFound errType = errors.New("no restored packages found. Please restore them before running nuget-licenses, e.g.: `dotnet restore`")
var errNoDotnetCommand errType = errors.New("no dotnet command")
var errNoDependencyCache errType = errors.New("local dependency cache not found")
var errFrameworkNotFound errType = errors.New("no target framework matches the platform")
var errMetadataNotFound errType = errors.New("nuspec has no metadata element")
