// Package channel provides a simulated duplex byte channel between the
// Receiver and Sender roles, with configurable latency and bandwidth and
// per-direction byte accounting.
//
// Spec reference: spec.md §5, §6.
package channel

import (
	"context"
	"sync/atomic"
	"time"
)

// Config describes the simulated network conditions of a Channel.
// This implements the NetworkSimulator parameters from
// original_source/cpp_code/network.hpp.
type Config struct {
	LatencyC2S    time.Duration // one-way Receiver -> Sender latency
	LatencyS2C    time.Duration // one-way Sender -> Receiver latency
	BandwidthKbps float64       // shared bandwidth, in kilobits per second
}

// LAN returns network conditions representative of a local network:
// 0.1ms latency, 10Gbps bandwidth. Values are taken from
// original_source/cpp_code/src/main.cpp's LAN preset.
func LAN() Config {
	return Config{
		LatencyC2S:    100 * time.Microsecond,
		LatencyS2C:    100 * time.Microsecond,
		BandwidthKbps: 10_000_000,
	}
}

// WAN returns network conditions representative of a wide-area network:
// 40ms latency, 1Mbps bandwidth. Values are taken from
// original_source/cpp_code/src/main.cpp's WAN preset.
func WAN() Config {
	return Config{
		LatencyC2S:    40 * time.Millisecond,
		LatencyS2C:    40 * time.Millisecond,
		BandwidthKbps: 1_000,
	}
}

// Channel is a duplex byte pipe between a Receiver and a Sender, with
// simulated per-message delay and cumulative byte accounting in each
// direction.
//
// This implements the channel abstraction of spec.md §5/§6, modeled on the
// byte-counting and network-condition-simulation concept of the teacher's
// pkg/transport.Pipe, re-expressed over plain Go channels rather than a
// net.Conn-backed bridge (see DESIGN.md).
type Channel struct {
	cfg Config

	c2s chan []byte
	s2c chan []byte

	bytesC2S atomic.Uint64
	bytesS2C atomic.Uint64
}

// New creates a Channel with the given simulated network conditions.
func New(cfg Config) *Channel {
	return &Channel{
		cfg: cfg,
		c2s: make(chan []byte, 64),
		s2c: make(chan []byte, 64),
	}
}

// transmitDelay implements original_source/cpp_code/network.cpp's
// transmit_ms_for_bytes: latency plus a bandwidth-proportional term.
func transmitDelay(latency time.Duration, bandwidthKbps float64, n int) time.Duration {
	if bandwidthKbps <= 0 {
		return latency
	}
	bits := float64(n) * 8
	seconds := bits / (bandwidthKbps * 1000)
	return latency + time.Duration(seconds*float64(time.Second))
}

// SendC2S sends a message from the Receiver to the Sender, blocking for the
// simulated transmission delay before the message becomes visible to the
// peer's RecvC2S.
func (c *Channel) SendC2S(ctx context.Context, msg []byte) error {
	return c.send(ctx, c.c2s, c.cfg.LatencyC2S, msg, &c.bytesC2S)
}

// SendS2C sends a message from the Sender to the Receiver.
func (c *Channel) SendS2C(ctx context.Context, msg []byte) error {
	return c.send(ctx, c.s2c, c.cfg.LatencyS2C, msg, &c.bytesS2C)
}

func (c *Channel) send(ctx context.Context, ch chan []byte, latency time.Duration, msg []byte, counter *atomic.Uint64) error {
	delay := transmitDelay(latency, c.cfg.BandwidthKbps, len(msg))
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	buf := make([]byte, len(msg))
	copy(buf, msg)
	counter.Add(uint64(len(msg)))

	select {
	case ch <- buf:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RecvC2S receives the next message the Receiver sent, as observed by the
// Sender.
func (c *Channel) RecvC2S(ctx context.Context) ([]byte, error) {
	return recv(ctx, c.c2s)
}

// RecvS2C receives the next message the Sender sent, as observed by the
// Receiver.
func (c *Channel) RecvS2C(ctx context.Context) ([]byte, error) {
	return recv(ctx, c.s2c)
}

func recv(ctx context.Context, ch chan []byte) ([]byte, error) {
	select {
	case msg := <-ch:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// BytesC2S returns the cumulative number of payload bytes sent Receiver to
// Sender so far.
func (c *Channel) BytesC2S() uint64 {
	return c.bytesC2S.Load()
}

// BytesS2C returns the cumulative number of payload bytes sent Sender to
// Receiver so far.
func (c *Channel) BytesS2C() uint64 {
	return c.bytesS2C.Load()
}

// BytesTotal returns the sum of BytesC2S and BytesS2C.
func (c *Channel) BytesTotal() uint64 {
	return c.BytesC2S() + c.BytesS2C()
}
