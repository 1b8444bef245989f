// Copyright 2026 Blink Labs Software
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

package governance

import "context"

type guardKey struct{}

// enter marks ctx as inside a guarded call of r and fails when ctx already
// is. External calls made with the returned context carry the mark.
func (r *Registry) enter(ctx context.Context) (context.Context, error) {
	if active, ok := ctx.Value(guardKey{}).(*Registry); ok && active == r {
		return nil, ErrReentrantCall
	}
	return context.WithValue(ctx, guardKey{}, r), nil
}
