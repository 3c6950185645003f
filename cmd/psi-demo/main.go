// Command psi-demo runs one session of the two-party private set
// intersection protocol between a randomly generated Receiver set and
// Sender set, over a simulated network channel, and reports the
// intersection size, elapsed time, and bytes transferred.
//
// Usage:
//
//	psi-demo [--mode lan|wan] <receiver_size> <sender_size>
//
// Grounded on original_source/cpp_code/src/main.cpp's demo driver and the
// teacher's examples/common/flags.go Options/ParseFlags style.
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/natharyan/ka-psi/pkg/channel"
	"github.com/natharyan/ka-psi/pkg/psi"
)

// Options holds the demo's parsed command-line configuration.
type Options struct {
	Mode         string
	ReceiverSize int
	SenderSize   int
}

func parseFlags(args []string) (*Options, error) {
	fs := flag.NewFlagSet("psi-demo", flag.ContinueOnError)
	mode := fs.String("mode", "lan", "simulated network conditions: lan or wan")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	rest := fs.Args()
	if len(rest) != 2 {
		return nil, fmt.Errorf("usage: psi-demo [--mode lan|wan] <receiver_size> <sender_size>")
	}

	recvN, err := strconv.Atoi(rest[0])
	if err != nil || recvN < 2 {
		return nil, fmt.Errorf("receiver_size must be an integer >= 2, got %q", rest[0])
	}
	sendN, err := strconv.Atoi(rest[1])
	if err != nil || sendN < 2 {
		return nil, fmt.Errorf("sender_size must be an integer >= 2, got %q", rest[1])
	}

	if *mode != "lan" && *mode != "wan" {
		return nil, fmt.Errorf("--mode must be lan or wan, got %q", *mode)
	}

	return &Options{Mode: *mode, ReceiverSize: recvN, SenderSize: sendN}, nil
}

// buildInputs generates a Receiver set and a Sender set with the first
// half of the Receiver's elements copied into the Sender's set, mirroring
// original_source/cpp_code/src/main.cpp's overlap construction.
func buildInputs(recvN, sendN int) (receiver, sender [][32]byte, err error) {
	receiver = make([][32]byte, recvN)
	for i := range receiver {
		if _, err := io.ReadFull(rand.Reader, receiver[i][:]); err != nil {
			return nil, nil, err
		}
	}

	sender = make([][32]byte, sendN)
	for i := range sender {
		if _, err := io.ReadFull(rand.Reader, sender[i][:]); err != nil {
			return nil, nil, err
		}
	}

	overlap := recvN / 2
	for i := 0; i < overlap && i < sendN; i++ {
		sender[i] = receiver[i]
	}
	return receiver, sender, nil
}

func run(opts *Options) error {
	receiverSet, senderSet, err := buildInputs(opts.ReceiverSize, opts.SenderSize)
	if err != nil {
		return fmt.Errorf("generating input sets: %w", err)
	}

	var cfg channel.Config
	if opts.Mode == "wan" {
		cfg = channel.WAN()
	} else {
		cfg = channel.LAN()
	}
	ch := channel.New(cfg)

	receiver := psi.NewReceiver(receiverSet)
	sender := psi.NewSender(senderSet)

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	results, err := psi.Intersect(ctx, receiver, sender, ch)
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("intersect: %w", err)
	}

	log.Printf("receiver set size: %d", opts.ReceiverSize)
	log.Printf("sender set size:   %d", opts.SenderSize)
	log.Printf("mode:              %s", opts.Mode)
	log.Printf("intersection size: %d", len(results))
	log.Printf("elapsed:           %s", elapsed)
	log.Printf("bytes receiver->sender: %d", ch.BytesC2S())
	log.Printf("bytes sender->receiver: %d", ch.BytesS2C())
	log.Printf("bytes total:            %d", ch.BytesTotal())
	return nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		log.Fatalf("psi-demo: %v", err)
	}
}
