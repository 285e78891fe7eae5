// Copyright 2026 The ptmpath Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/camposlab/ptmpath/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
