/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package limiter paces calls to external generation services. Each client
// owns its limiter instance; there is deliberately no process-wide state.
package limiter

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter blocks until the next call is allowed to proceed.
type Limiter interface {
	Wait(ctx context.Context) error
}

// PerInterval returns a limiter admitting one call per interval with a
// burst of one, matching API quotas expressed as "one request every N
// seconds". A non-positive interval means unlimited.
func PerInterval(interval time.Duration) Limiter {
	if interval <= 0 {
		return unlimited{}
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

type unlimited struct{}

func (unlimited) Wait(ctx context.Context) error { return ctx.Err() }
