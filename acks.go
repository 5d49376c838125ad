// SPDX-FileCopyrightText: 2025 webway contributors
// SPDX-License-Identifier: Apache-2.0

package webway

import (
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Acks specifies the broker acknowledgment requirements.
type Acks string

const (
	// AcksAll requires all ISR replicas to acknowledge (strongest durability).
	AcksAll Acks = "all"

	// AcksLeader requires only the leader replica to acknowledge.
	AcksLeader Acks = "leader"

	// AcksNone requires no acknowledgment (fire-and-forget).
	AcksNone Acks = "none"
)

// validate checks the Acks enum value. Empty is allowed and means AcksAll.
func (a Acks) validate() error {
	switch a {
	case AcksAll, AcksLeader, AcksNone, "":
		return nil
	}
	return errors.Join(ErrValidation,
		fmt.Errorf("acks %q is invalid: must be 'all', 'leader', 'none' or empty", a))
}

// kgoAcks maps the enum to the franz-go acks requirement.
func (a Acks) kgoAcks() kgo.Acks {
	switch a {
	case AcksLeader:
		return kgo.LeaderAck()
	case AcksNone:
		return kgo.NoAck()
	}
	return kgo.AllISRAcks()
}
