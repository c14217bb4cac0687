/*
main.go

Copyright © 2025 Kramden Institute

This file is part of the Kramden provisioning tools.

This software is licensed under the GNU Affero General Public License v3
(AGPL-3.0-or-later). See LICENSE.agpl for full details.
*/
package main

import (
	"github.com/kramden/provision/cmd"
	"github.com/kramden/provision/pkg/logger"
)

func main() {
	logger.InitializeWithFallback()
	cmd.Execute()
}
