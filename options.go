// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xenstore

import "time"

// options configures a PacketStream. Like framer.Options, it is a closed set
// applied through functional Option values.
type options struct {
	retryDelay time.Duration
	collector  *StreamCollector
}

var defaultOptions = options{
	retryDelay: -1, // default: nonblock
}

// Option configures a PacketStream.
type Option func(*options)

// WithRetryDelay controls how PacketStream handles iox.ErrWouldBlock from
// the underlying Channel:
//   - negative: nonblock, return iox.ErrWouldBlock immediately
//   - zero: yield (runtime.Gosched) and retry
//   - positive: sleep for the duration and retry
func WithRetryDelay(d time.Duration) Option {
	return func(o *options) { o.retryDelay = d }
}

// WithBlock enables cooperative blocking (yield-and-retry) on iox.ErrWouldBlock.
func WithBlock() Option {
	return func(o *options) { o.retryDelay = 0 }
}

// WithNonblock forces non-blocking behavior (return iox.ErrWouldBlock immediately).
func WithNonblock() Option {
	return func(o *options) { o.retryDelay = -1 }
}

// WithMetrics registers the stream with collector, which will report its
// packet/byte/error counters on the next Prometheus scrape. Opt-in only:
// a PacketStream built without this option reports nothing.
func WithMetrics(collector *StreamCollector) Option {
	return func(o *options) { o.collector = collector }
}
