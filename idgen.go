// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xenstore

import "sync/atomic"

// idCounter is the process-wide monotonic counter shared by request-id
// generation (Request builders) and watch-token tag generation (Token).
// Wrap is allowed and expected over long-lived processes; atomic.Uint32
// wraps natively on overflow.
var idCounter atomic.Uint32

// nextID returns the next value in the monotonic sequence.
func nextID() uint32 {
	return idCounter.Add(1) - 1
}
