// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taskdb

import "errors"

var (
	// ErrArgument reports invalid repository usage, such as loading with
	// neither files nor data.
	ErrArgument = errors.New("invalid argument")

	// ErrUnsupportedFormat reports an unknown serialization format.
	ErrUnsupportedFormat = errors.New("unsupported serialization format")

	// ErrMissingModelName reports a leaderboard row without model_name.
	ErrMissingModelName = errors.New("missing required field model_name")
)
