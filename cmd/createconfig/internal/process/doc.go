// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

/*
Package process abstracts external process execution for the createconfig CLI.

# Overview

Every subprocess the wizard starts (npm show, the package manager install,
the eslint fix pass) goes through the Manager interface so that tests can
substitute MockManager and assert on the exact command lines.

	pm := process.NewDefaultManager()
	res, err := pm.Run(ctx, process.Command{
	    Name: "npm",
	    Args: []string{"show", "--json", "eslint-config-xo", "peerDependencies"},
	})
	if errors.Is(err, exec.ErrNotFound) {
	    // npm is not installed
	}

# Error Contract

Run returns an error only when the process could not be started or the
context ended. A process that ran and exited non-zero is reported through
Result.ExitCode so callers can still inspect its stdout (npm writes its
E404 payload there).

# Thread Safety

DefaultManager is stateless and safe for concurrent use. MockManager guards
its call log with a mutex.
*/
package process
