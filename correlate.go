// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package xenstore

import "fmt"

// Correlate is the receive-side correlation helper: it checks that received
// answers sent (matching rid and tid), maps an Error response to the named
// error kind (§7, §8 law 7), and otherwise hands received to unmarshal,
// wrapping an unmarshal failure in a XenstoreError tagged with debugHint.
//
// Correlate does not check received.Ty() against an expected response type;
// it trusts unmarshal. An unexpected type surfaces as an unmarshal failure,
// matching the original design.
func Correlate[T any](debugHint string, sent, received Packet, unmarshal func(Packet) (T, error)) (T, error) {
	var zero T
	if received.Rid() != sent.Rid() || received.Tid() != sent.Tid() {
		return zero, &DataError{Msg: fmt.Sprintf("%s: response rid/tid mismatch: got %d/%d want %d/%d",
			debugHint, received.Rid(), received.Tid(), sent.Rid(), sent.Tid())}
	}
	if received.Ty() == Error {
		return zero, errorFromName(string(received.Data()))
	}
	v, err := unmarshal(received)
	if err != nil {
		return zero, &XenstoreError{Name: debugHint}
	}
	return v, nil
}
