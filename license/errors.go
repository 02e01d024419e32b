// SPDX-License-Identifier: Apache-2.0

package license

import (
	"errors"
)

type errType error

var errHashExhausted errType = errors.New("no unique name left for license url")
var errUnsafeName errType = errors.New("license name escapes the target directory")
