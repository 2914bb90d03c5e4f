// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/dismine/valentina-sub004/pkg/api"
	"github.com/dismine/valentina-sub004/pkg/server"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Description: `Serve the grade, convert and validate operations over HTTP until
interrupted. Uploaded documents are processed in memory; no file is written.

# Examples

  vmeasure serve --port 9090`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "address",
				Usage: "Address to listen on (all interfaces when empty)",
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "Port to listen on (defaults to PORT or 8080)",
				Sources: cli.EnvVars("VMEASURE_PORT"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return api.ServeContext(ctx, server.WithAddress(cmd.String("address"), int(cmd.Int("port"))))
		},
	}
}
