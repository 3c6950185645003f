package psi

import (
	"context"

	"github.com/natharyan/ka-psi/pkg/channel"
)

// Intersect drives one complete run of the protocol over ch: it commits
// both roles, exchanges the two legs, and returns the Receiver's view of
// the intersection.
//
// This implements the six-step exchange of spec.md §4.5-§4.7 /
// original_source/cpp_code/intersect.cpp, using the Receiver/Sender
// step methods directly; it exists as a convenience driver for callers
// that don't need to interleave the steps with their own transport.
func Intersect(ctx context.Context, r *Receiver, s *Sender, ch *channel.Channel) ([]IntersectionResult, error) {
	if err := r.Commit(); err != nil {
		return nil, err
	}
	if err := s.Commit(); err != nil {
		return nil, err
	}

	leg1, err := r.EncodeLeg1()
	if err != nil {
		return nil, err
	}
	if err := ch.SendC2S(ctx, leg1); err != nil {
		return nil, newError(ChannelFailure, "sending leg1: %v", err)
	}

	recvLeg1, err := ch.RecvC2S(ctx)
	if err != nil {
		return nil, newError(ChannelFailure, "receiving leg1: %v", err)
	}
	if err := s.ProcessLeg1(recvLeg1); err != nil {
		return nil, err
	}

	leg2, err := s.EncodeLeg2()
	if err != nil {
		return nil, err
	}
	if err := ch.SendS2C(ctx, leg2); err != nil {
		return nil, newError(ChannelFailure, "sending leg2: %v", err)
	}

	recvLeg2, err := ch.RecvS2C(ctx)
	if err != nil {
		return nil, newError(ChannelFailure, "receiving leg2: %v", err)
	}
	return r.Finalize(recvLeg2)
}
